package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/seeflow/see/engine/core"
)

// SaveInputRequest upserts a user-input request row.
func (s *Store) SaveInputRequest(ctx context.Context, r *UserInputRequest) error {
	if r.CreatedAt == "" {
		r.CreatedAt = nowTimestamp()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return core.NewError(fmt.Errorf("marshal input request: %w", err), core.KindStoreSerialization, nil)
	}
	return s.update(ctx, "save_input_request", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketInputRequests).Put(inputRequestKey(r.ID), data)
	})
}

// GetInputRequestByID reads a single request by its own ID.
func (s *Store) GetInputRequestByID(id string) (*UserInputRequest, bool, error) {
	var r UserInputRequest
	found := false
	err := s.view("get_input_request_by_id", func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketInputRequests).Get(inputRequestKey(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &r)
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &r, true, nil
}

// GetInputRequestByTaskID linearly scans for the request belonging to a
// task execution. Acceptable for the expected small N of concurrently
// pending requests; callers must tolerate no match.
func (s *Store) GetInputRequestByTaskID(taskExecutionID string) (*UserInputRequest, bool, error) {
	var found *UserInputRequest
	err := s.view("get_input_request_by_task_id", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketInputRequests).ForEach(func(_, v []byte) error {
			if found != nil {
				return nil
			}
			var r UserInputRequest
			if err := json.Unmarshal(v, &r); err != nil {
				return nil
			}
			if r.TaskExecutionID == taskExecutionID {
				found = &r
			}
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	if found == nil {
		return nil, false, nil
	}
	return found, true, nil
}

// ListPendingForWorkflow returns every Pending request for a workflow
// execution.
func (s *Store) ListPendingForWorkflow(workflowExecutionID string) ([]*UserInputRequest, error) {
	var out []*UserInputRequest
	err := s.view("list_pending_for_workflow", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketInputRequests).ForEach(func(_, v []byte) error {
			var r UserInputRequest
			if err := json.Unmarshal(v, &r); err != nil {
				return nil
			}
			if r.WorkflowExecutionID == workflowExecutionID && r.Status == InputPending {
				out = append(out, &r)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Fulfill performs a read-modify-write on request id: sets status,
// fulfilled_at, and fulfilled_value, then persists.
func (s *Store) Fulfill(ctx context.Context, id string, value string) (*UserInputRequest, error) {
	var updated UserInputRequest
	err := s.update(ctx, "fulfill_input_request", func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketInputRequests)
		data := bucket.Get(inputRequestKey(id))
		if data == nil {
			return fmt.Errorf("input request %s not found", id)
		}
		var r UserInputRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		r.Status = InputFulfilled
		r.FulfilledAt = nowTimestamp()
		r.FulfilledValue = value
		encoded, err := json.Marshal(&r)
		if err != nil {
			return err
		}
		if err := bucket.Put(inputRequestKey(id), encoded); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
