package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/seeflow/see/engine/core"
)

func definitionKey(id string) []byte { return []byte(id) }

// SaveDefinition upserts a WorkflowDefinition, stamping CreatedAt/UpdatedAt.
func (s *Store) SaveDefinition(ctx context.Context, d *WorkflowDefinition) error {
	now := nowTimestamp()
	if d.CreatedAt == "" {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	data, err := json.Marshal(d)
	if err != nil {
		return core.NewError(fmt.Errorf("marshal workflow definition: %w", err), core.KindStoreSerialization, nil)
	}
	return s.update(ctx, "save_definition", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDefinitions).Put(definitionKey(d.ID), data)
	})
}

// GetDefinition reads a single WorkflowDefinition by ID.
func (s *Store) GetDefinition(id string) (*WorkflowDefinition, bool, error) {
	var d WorkflowDefinition
	found := false
	err := s.view("get_definition", func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDefinitions).Get(definitionKey(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &d)
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &d, true, nil
}

// ListDefinitions returns every stored workflow definition.
func (s *Store) ListDefinitions() ([]*WorkflowDefinition, error) {
	var out []*WorkflowDefinition
	err := s.view("list_definitions", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDefinitions).ForEach(func(_, v []byte) error {
			var d WorkflowDefinition
			if err := json.Unmarshal(v, &d); err != nil {
				return nil
			}
			out = append(out, &d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDefinition removes a workflow definition by ID.
func (s *Store) DeleteDefinition(ctx context.Context, id string) error {
	return s.update(ctx, "delete_definition", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDefinitions).Delete(definitionKey(id))
	})
}
