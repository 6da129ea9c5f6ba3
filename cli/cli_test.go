package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seeflow/see/engine/exec"
	"github.com/seeflow/see/engine/gate"
	"github.com/seeflow/see/engine/store"
)

func newTestContext(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "audit.redb"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	engine := exec.New(s)
	return &Deps{Store: s, Engine: engine, Gate: gate.New(s, engine)}
}

func TestListSystemWorkflows(t *testing.T) {
	t.Run("Should print only definitions marked default", func(t *testing.T) {
		deps := newTestDeps(t)
		ctx := newTestContext(t)
		require.NoError(t, deps.Store.SaveDefinition(ctx, &store.WorkflowDefinition{ID: "wf-a", Name: "A", IsDefault: true}))
		require.NoError(t, deps.Store.SaveDefinition(ctx, &store.WorkflowDefinition{ID: "wf-b", Name: "B", IsDefault: false}))

		root := RootCmd(deps)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"list-system-workflows"})
		require.NoError(t, root.Execute())

		require.Contains(t, out.String(), "wf-a")
		require.NotContains(t, out.String(), "wf-b")
	})
}

func TestExecutionsShowCommand(t *testing.T) {
	t.Run("Should pretty-print the workflow snapshot for a completed execution", func(t *testing.T) {
		deps := newTestDeps(t)
		path := filepath.Join(t.TempDir(), "wf.json")
		writeFile(t, path, `{
			"id": "wf-show",
			"name": "demo",
			"tasks": [
				{"id": "t1", "name": "step", "function": {"name": "cli_command", "input": {"command": "echo", "args": ["hi"]}}}
			]
		}`)

		root := RootCmd(deps)
		root.SetArgs([]string{"--file", path})
		require.NoError(t, root.Execute())

		executions, err := deps.Store.ListExecutions(1)
		require.NoError(t, err)
		require.Len(t, executions, 1)

		root = RootCmd(deps)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"executions", "show", executions[0].ID})
		require.NoError(t, root.Execute())
		require.Contains(t, out.String(), "\"wf-show\"")
	})
}

func TestRunWorkflowFileCommand(t *testing.T) {
	t.Run("Should run a workflow file to completion and exit cleanly", func(t *testing.T) {
		deps := newTestDeps(t)
		path := filepath.Join(t.TempDir(), "wf.json")
		writeFile(t, path, `{
			"id": "wf-1",
			"name": "demo",
			"tasks": [
				{"id": "t1", "name": "step", "function": {"name": "cli_command", "input": {"command": "echo", "args": ["hi"]}}}
			]
		}`)

		root := RootCmd(deps)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"--file", path})
		require.NoError(t, root.Execute())
		require.Contains(t, out.String(), "workflow completed")
	})
}
