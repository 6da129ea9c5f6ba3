package exec

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/engine/workflow"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "audit.redb"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustParse(t *testing.T, raw string) *workflow.ParsedWorkflow {
	t.Helper()
	wf, err := workflow.Validate([]byte(raw))
	require.NoError(t, err)
	return wf
}

const linearWorkflow = `{
  "id": "wf-1",
  "name": "linear",
  "tasks": [
    {
      "id": "t1",
      "name": "step one",
      "function": {"name": "cli_command", "input": {"command": "echo", "args": ["one"]}},
      "next_tasks": [
        {
          "id": "t2",
          "name": "step two",
          "function": {"name": "cli_command", "input": {"command": "echo", "args": ["two"]}}
        }
      ]
    }
  ]
}`

const failingWorkflow = `{
  "id": "wf-2",
  "name": "failing",
  "tasks": [
    {
      "id": "t1",
      "name": "step one",
      "function": {"name": "cli_command", "input": {"command": "false"}},
      "next_tasks": [
        {
          "id": "t2",
          "name": "never runs",
          "function": {"name": "cli_command", "input": {"command": "echo", "args": ["unreached"]}}
        }
      ]
    }
  ]
}`

const pausingWorkflow = `{
  "id": "wf-3",
  "name": "pausing",
  "tasks": [
    {
      "id": "gate",
      "name": "ask for a value",
      "function": {"name": "user_input", "input": {"prompt": "enter a value", "input_type": "string", "required": true}},
      "next_tasks": [
        {
          "id": "after",
          "name": "after gate",
          "function": {"name": "cli_command", "input": {"command": "echo", "args": ["resumed"]}}
        }
      ]
    }
  ]
}`

func TestEngineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Should run a linear workflow to completion", func(t *testing.T) {
		s := openTestStore(t)
		wf := mustParse(t, linearWorkflow)

		result, err := New(s).Run(ctx, wf, "wf-1", linearWorkflow)
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Equal(t, store.ExecutionComplete, result.Execution.Status)

		_, tasks, found, err := s.GetWithTasks(result.Execution.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.Len(t, tasks, 2)
		for _, tsk := range tasks {
			require.Equal(t, store.TaskComplete, tsk.Status)
		}
	})

	t.Run("Should halt a subtree on failure and record the error", func(t *testing.T) {
		s := openTestStore(t)
		wf := mustParse(t, failingWorkflow)

		result, err := New(s).Run(ctx, wf, "wf-2", failingWorkflow)
		require.NoError(t, err)
		require.False(t, result.Success)
		require.Equal(t, store.ExecutionFailed, result.Execution.Status)
		require.NotEmpty(t, result.Execution.Errors)

		_, tasks, _, err := s.GetWithTasks(result.Execution.ID)
		require.NoError(t, err)
		require.Equal(t, store.TaskFailed, tasks[0].Status)
		require.Equal(t, store.TaskPending, tasks[1].Status)
	})

	t.Run("Should suspend on a user_input gate without running downstream tasks", func(t *testing.T) {
		s := openTestStore(t)
		wf := mustParse(t, pausingWorkflow)

		result, err := New(s).Run(ctx, wf, "wf-3", pausingWorkflow)
		require.NoError(t, err)
		require.False(t, result.Success)
		require.Equal(t, store.ExecutionWaitingForInput, result.Execution.Status)
		require.Equal(t, "gate", result.Execution.PausedTaskID)

		_, tasks, _, err := s.GetWithTasks(result.Execution.ID)
		require.NoError(t, err)
		require.Equal(t, store.TaskWaitingForInput, tasks[0].Status)
		require.Equal(t, store.TaskPending, tasks[1].Status)
	})
}

func TestEngineResume(t *testing.T) {
	ctx := context.Background()

	t.Run("Should complete the resolved gate directly and continue to its children", func(t *testing.T) {
		s := openTestStore(t)
		wf := mustParse(t, pausingWorkflow)

		paused, err := New(s).Run(ctx, wf, "wf-3", pausingWorkflow)
		require.NoError(t, err)
		require.False(t, paused.Success)

		result, err := New(s).Resume(ctx, paused.Execution.ID, "gate")
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Equal(t, store.ExecutionComplete, result.Execution.Status)

		_, tasks, _, err := s.GetWithTasks(result.Execution.ID)
		require.NoError(t, err)
		require.Equal(t, store.TaskComplete, tasks[0].Status)
		require.Equal(t, store.TaskComplete, tasks[1].Status)
	})

	t.Run("Should reject resuming an execution that is not waiting for input", func(t *testing.T) {
		s := openTestStore(t)
		wf := mustParse(t, linearWorkflow)

		done, err := New(s).Run(ctx, wf, "wf-1", linearWorkflow)
		require.NoError(t, err)
		require.True(t, done.Success)

		_, err = New(s).Resume(ctx, done.Execution.ID, "t1")
		require.Error(t, err)
	})
}

func TestEngineAuditOrphans(t *testing.T) {
	ctx := context.Background()

	t.Run("Should mark every Running execution Failed", func(t *testing.T) {
		s := openTestStore(t)
		orphan := &store.WorkflowExecution{ID: "orphan-1", Status: store.ExecutionRunning}
		require.NoError(t, saveRunning(ctx, s, orphan))

		n, err := New(s).AuditOrphans(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		got, found, err := s.GetExecution("orphan-1")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, store.ExecutionFailed, got.Status)
		require.NotNil(t, got.Success)
		require.False(t, *got.Success)
		require.Contains(t, got.Errors, "Workflow was interrupted by application shutdown")
	})
}

func TestResolvedGateOutput(t *testing.T) {
	t.Run("Should record the supplied value when one was recorded", func(t *testing.T) {
		task := mustParse(t, pausingWorkflow).FindTask("gate")
		out, err := resolvedGateOutput(task, "42")
		require.NoError(t, err)
		require.Equal(t, "42", out["value"])
		require.Equal(t, "gate", out["resolved_by"])
	})

	t.Run("Should backfill the gate's declared default when no value was recorded", func(t *testing.T) {
		wf := mustParse(t, `{
			"id": "wf-default",
			"name": "defaulted",
			"tasks": [
				{
					"id": "gate",
					"name": "ask, but optional",
					"function": {"name": "user_input", "input": {"prompt": "enter a value", "input_type": "string", "default": "fallback"}}
				}
			]
		}`)
		task := wf.FindTask("gate")
		out, err := resolvedGateOutput(task, "")
		require.NoError(t, err)
		require.Equal(t, "fallback", out["value"])
	})
}

func saveRunning(ctx context.Context, s *store.Store, e *store.WorkflowExecution) error {
	if _, err := s.SaveExecution(ctx, e); err != nil {
		return err
	}
	return s.SaveMetadata(ctx, e)
}
