package gate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seeflow/see/engine/exec"
	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/engine/workflow"
)

const gatedWorkflow = `{
  "id": "wf-gate",
  "name": "gated",
  "tasks": [
    {
      "id": "gate",
      "name": "ask for a value",
      "function": {"name": "user_input", "input": {"prompt": "enter a number", "input_type": "number", "required": true}},
      "next_tasks": [
        {
          "id": "after",
          "name": "after gate",
          "function": {"name": "cli_command", "input": {"command": "echo", "args": ["done"]}}
        }
      ]
    }
  ]
}`

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "audit.redb"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func suspend(t *testing.T, s *store.Store) string {
	t.Helper()
	wf, err := workflow.Validate([]byte(gatedWorkflow))
	require.NoError(t, err)
	result, err := exec.New(s).Run(context.Background(), wf, "wf-gate", gatedWorkflow)
	require.NoError(t, err)
	require.False(t, result.Success)
	return result.Execution.ID
}

func TestProvideUserInput(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject a value that fails the gate's declared type", func(t *testing.T) {
		s := openTestStore(t)
		engine := exec.New(s)
		executionID := suspend(t, s)

		svc := New(s, engine)
		_, err := svc.ProvideUserInput(ctx, executionID, "gate", "not-a-number")
		require.Error(t, err)
	})

	t.Run("Should fulfill the request, record the value, and resume the workflow", func(t *testing.T) {
		s := openTestStore(t)
		engine := exec.New(s)
		executionID := suspend(t, s)

		svc := New(s, engine)
		result, err := svc.ProvideUserInput(ctx, executionID, "gate", "42")
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Equal(t, store.ExecutionComplete, result.Execution.Status)

		task, found, err := s.GetTask(executionID, "gate")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "42", task.UserInput)
	})

	t.Run("Should report pending inputs and waiting tasks before fulfillment", func(t *testing.T) {
		s := openTestStore(t)
		engine := exec.New(s)
		executionID := suspend(t, s)

		svc := New(s, engine)
		pending, err := svc.GetPendingInputs(executionID)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		waiting, err := svc.GetTasksWaitingForInput(executionID)
		require.NoError(t, err)
		require.Len(t, waiting, 1)
		require.Equal(t, "gate", waiting[0].TaskID)
	})
}
