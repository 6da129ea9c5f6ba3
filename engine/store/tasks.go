package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/seeflow/see/engine/core"
)

// SaveTask upserts a task row.
func (s *Store) SaveTask(ctx context.Context, t *TaskExecution) error {
	data, err := json.Marshal(t)
	if err != nil {
		return core.NewError(fmt.Errorf("marshal task: %w", err), core.KindStoreSerialization, nil)
	}
	return s.update(ctx, "save_task", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTasks).Put(taskKey(t.ExecutionID, t.TaskID), data)
	})
}

// GetTask reads a single task row.
func (s *Store) GetTask(executionID, taskID string) (*TaskExecution, bool, error) {
	var t TaskExecution
	found := false
	err := s.view("get_task", func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTasks).Get(taskKey(executionID, taskID))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &t)
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &t, true, nil
}

// ListTasks returns every persisted task row for an execution, in no
// particular order; GetWithTasks re-orders them by metadata.task_ids.
func (s *Store) ListTasks(executionID string) ([]*TaskExecution, error) {
	var out []*TaskExecution
	err := s.view("list_tasks", func(tx *bbolt.Tx) error {
		prefix := taskPrefix(executionID)
		c := tx.Bucket(bucketTasks).Cursor()
		for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			var t TaskExecution
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			out = append(out, &t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetWithTasks loads metadata, scans every task row for the execution, and
// reassembles a WorkflowExecution ordered by metadata.task_ids (preserving
// insertion/registration order rather than bucket iteration order). success
// mirrors status == Complete; errors gets a generic line when status ==
// Failed and the execution carries none of its own.
func (s *Store) GetWithTasks(executionID string) (*WorkflowExecution, []*TaskExecution, bool, error) {
	meta, found, err := s.GetMetadata(executionID)
	if err != nil || !found {
		return nil, nil, found, err
	}
	rows, err := s.ListTasks(executionID)
	if err != nil {
		return nil, nil, false, err
	}
	byID := make(map[string]*TaskExecution, len(rows))
	for _, t := range rows {
		byID[t.TaskID] = t
	}
	ordered := make([]*TaskExecution, 0, len(meta.TaskIDs))
	for _, id := range meta.TaskIDs {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}

	success := meta.Status == ExecutionComplete
	meta.Success = &success
	if meta.Status == ExecutionFailed && len(meta.Errors) == 0 {
		meta.Errors = []string{"Workflow failed"}
	}

	return meta, ordered, true, nil
}
