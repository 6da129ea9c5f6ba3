package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/seeflow/see/engine/core"
)

func promptKey(id string) []byte { return []byte(id) }

// SavePrompt upserts a prompt record, stamping CreatedAt/UpdatedAt.
func (s *Store) SavePrompt(ctx context.Context, p *Prompt) error {
	now := nowTimestamp()
	if p.CreatedAt == "" {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	data, err := json.Marshal(p)
	if err != nil {
		return core.NewError(fmt.Errorf("marshal prompt: %w", err), core.KindStoreSerialization, nil)
	}
	return s.update(ctx, "save_prompt", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPrompts).Put(promptKey(p.ID), data)
	})
}

// GetPrompt reads a single prompt by ID.
func (s *Store) GetPrompt(id string) (*Prompt, bool, error) {
	var p Prompt
	found := false
	err := s.view("get_prompt", func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPrompts).Get(promptKey(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &p)
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &p, true, nil
}

// ListPrompts returns every stored prompt.
func (s *Store) ListPrompts() ([]*Prompt, error) {
	var out []*Prompt
	err := s.view("list_prompts", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPrompts).ForEach(func(_, v []byte) error {
			var p Prompt
			if err := json.Unmarshal(v, &p); err != nil {
				return nil
			}
			out = append(out, &p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePrompt removes a prompt by ID.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	return s.update(ctx, "delete_prompt", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPrompts).Delete(promptKey(id))
	})
}
