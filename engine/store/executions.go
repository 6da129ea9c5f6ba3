package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/seeflow/see/engine/core"
)

// SaveExecution atomically inserts or replaces the execution row and its
// execution-order index entry, keyed by the execution's CreatedAt timestamp.
func (s *Store) SaveExecution(ctx context.Context, e *WorkflowExecution) (string, error) {
	if e.CreatedAt == "" {
		e.CreatedAt = nowTimestamp()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return "", core.NewError(fmt.Errorf("marshal execution: %w", err), core.KindStoreSerialization, nil)
	}
	err = s.update(ctx, "save_execution", func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketExecutions).Put(executionKey(e.ID), data); err != nil {
			return err
		}
		return tx.Bucket(bucketExecutionIdx).Put(executionIndexKey(e.CreatedAt, e.ID), []byte(e.ID))
	})
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// GetExecution reads a single execution row from a consistent snapshot.
func (s *Store) GetExecution(id string) (*WorkflowExecution, bool, error) {
	var e WorkflowExecution
	found := false
	err := s.view("get_execution", func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketExecutions).Get(executionKey(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &e, true, nil
}

// ListExecutions descends the execution-order index in reverse (most
// recent first) and returns up to limit summaries.
func (s *Store) ListExecutions(limit int) ([]*WorkflowExecution, error) {
	out := make([]*WorkflowExecution, 0, limit)
	err := s.view("list_executions", func(tx *bbolt.Tx) error {
		idx := tx.Bucket(bucketExecutionIdx)
		execs := tx.Bucket(bucketExecutions)
		c := idx.Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			data := execs.Get(v)
			if data == nil {
				continue
			}
			var e WorkflowExecution
			if err := json.Unmarshal(data, &e); err != nil {
				return err
			}
			out = append(out, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteExecution removes the execution row, its index entry (located by
// re-reading the stored CreatedAt timestamp), the metadata row, and every
// task row under the execution, all inside one transaction.
func (s *Store) DeleteExecution(ctx context.Context, id string) error {
	return s.update(ctx, "delete_execution", func(tx *bbolt.Tx) error {
		execs := tx.Bucket(bucketExecutions)
		data := execs.Get(executionKey(id))
		if data != nil {
			var e WorkflowExecution
			if err := json.Unmarshal(data, &e); err == nil && e.CreatedAt != "" {
				if err := tx.Bucket(bucketExecutionIdx).Delete(executionIndexKey(e.CreatedAt, id)); err != nil {
					return err
				}
			}
		}
		if err := execs.Delete(executionKey(id)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketMetadata).Delete(metadataKey(id)); err != nil {
			return err
		}

		tasks := tx.Bucket(bucketTasks)
		prefix := taskPrefix(id)
		c := tasks.Cursor()
		var toDelete [][]byte
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		for _, k := range toDelete {
			if err := tasks.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveMetadata upserts the metadata row for an execution. The metadata row
// is a full copy of the execution record (snapshot and task_ids included),
// stored under its own `workflow:<execution_id>` key; GetWithTasks and the
// orphan audit read it.
func (s *Store) SaveMetadata(ctx context.Context, e *WorkflowExecution) error {
	data, err := json.Marshal(e)
	if err != nil {
		return core.NewError(fmt.Errorf("marshal metadata: %w", err), core.KindStoreSerialization, nil)
	}
	return s.update(ctx, "save_metadata", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put(metadataKey(e.ID), data)
	})
}

// GetMetadata reads the metadata row for an execution.
func (s *Store) GetMetadata(id string) (*WorkflowExecution, bool, error) {
	var e WorkflowExecution
	found := false
	err := s.view("get_metadata", func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get(metadataKey(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &e, true, nil
}

// ListRunningExecutions scans metadata rows for executions still marked
// Running; used by the startup orphan audit.
func (s *Store) ListRunningExecutions() ([]*WorkflowExecution, error) {
	var out []*WorkflowExecution
	err := s.view("list_running_executions", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).ForEach(func(_, v []byte) error {
			var e WorkflowExecution
			if err := json.Unmarshal(v, &e); err != nil {
				return nil
			}
			if e.Status == ExecutionRunning {
				out = append(out, &e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
