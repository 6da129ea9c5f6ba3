package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("Should parse a minimal single-task workflow", func(t *testing.T) {
		raw := []byte(`{
			"id": "wf-1",
			"name": "greet",
			"tasks": [
				{
					"id": "t1",
					"name": "say hello",
					"function": {"name": "cli_command", "input": {"command": "echo", "args": ["hi"]}}
				}
			]
		}`)

		wf, err := Validate(raw)
		require.NoError(t, err)
		require.Len(t, wf.Roots, 1)
		root := wf.Roots[0]
		assert.True(t, root.IsRoot)
		assert.Equal(t, FunctionCliCommand, root.Function.Kind)
		require.NotNil(t, root.Function.CliCommand)
		assert.Equal(t, "echo", root.Function.CliCommand.Command)
		assert.Equal(t, []string{"hi"}, root.Function.CliCommand.Args)
	})

	t.Run("Should build parent-child nesting via next_tasks", func(t *testing.T) {
		raw := []byte(`{
			"id": "wf-2",
			"name": "chain",
			"tasks": [
				{
					"id": "a",
					"name": "a",
					"function": {"name": "cli_command", "input": {"command": "true"}},
					"next_tasks": [
						{
							"id": "b",
							"name": "b",
							"function": {"name": "cli_command", "input": {"command": "true"}}
						}
					]
				}
			]
		}`)

		wf, err := Validate(raw)
		require.NoError(t, err)
		require.Len(t, wf.Roots, 1)
		require.Len(t, wf.Roots[0].NextTasks, 1)
		assert.Equal(t, "b", wf.Roots[0].NextTasks[0].ID)
		assert.False(t, wf.Roots[0].NextTasks[0].IsRoot)
		assert.Equal(t, wf.Roots[0], wf.FindTask("a"))
		assert.Equal(t, wf.Roots[0].NextTasks[0], wf.FindTask("b"))
	})

	t.Run("Should preorder a forest across multiple roots", func(t *testing.T) {
		raw := []byte(`{
			"id": "wf-3",
			"name": "forest",
			"tasks": [
				{"id": "r1", "name": "r1", "function": {"name": "cli_command", "input": {"command": "true"}},
				 "next_tasks": [{"id": "r1c", "name": "r1c", "function": {"name": "cli_command", "input": {"command": "true"}}}]},
				{"id": "r2", "name": "r2", "function": {"name": "cli_command", "input": {"command": "true"}}}
			]
		}`)

		wf, err := Validate(raw)
		require.NoError(t, err)
		ids := make([]string, 0)
		for _, tk := range wf.Preorder() {
			ids = append(ids, tk.ID)
		}
		assert.Equal(t, []string{"r1", "r1c", "r2"}, ids)
	})

	t.Run("Should reject invalid JSON", func(t *testing.T) {
		_, err := Validate([]byte(`{not json`))
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ValidationInvalidJSON, verr.Kind)
	})

	t.Run("Should reject a workflow missing required top-level fields", func(t *testing.T) {
		_, err := Validate([]byte(`{"tasks": []}`))
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ValidationSchemaBreach, verr.Kind)
	})

	t.Run("Should reject duplicate task ids anywhere in the tree", func(t *testing.T) {
		raw := []byte(`{
			"id": "wf-4",
			"name": "dup",
			"tasks": [
				{"id": "x", "name": "x1", "function": {"name": "cli_command", "input": {"command": "true"}},
				 "next_tasks": [{"id": "x", "name": "x2", "function": {"name": "cli_command", "input": {"command": "true"}}}]}
			]
		}`)

		_, err := Validate(raw)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ValidationDuplicateID, verr.Kind)
	})

	t.Run("Should reject a cli_command task missing command and suggest the fix", func(t *testing.T) {
		raw := []byte(`{
			"id": "wf-5",
			"name": "bad-cli",
			"tasks": [
				{"id": "t1", "name": "t1", "function": {"name": "cli_command", "input": {}}}
			]
		}`)

		_, err := Validate(raw)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ValidationMissingField, verr.Kind)
		assert.Contains(t, verr.Suggestion, "command")
	})

	t.Run("Should reject a cursor_agent task missing both prompt and prompt_id", func(t *testing.T) {
		raw := []byte(`{
			"id": "wf-6",
			"name": "bad-agent",
			"tasks": [
				{"id": "t1", "name": "t1", "function": {"name": "cursor_agent", "input": {}}}
			]
		}`)

		_, err := Validate(raw)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ValidationMissingField, verr.Kind)
		assert.Contains(t, verr.Suggestion, "prompt")
	})

	t.Run("Should reject a user_input task missing prompt", func(t *testing.T) {
		raw := []byte(`{
			"id": "wf-7",
			"name": "bad-input",
			"tasks": [
				{"id": "t1", "name": "t1", "function": {"name": "user_input", "input": {}}}
			]
		}`)

		_, err := Validate(raw)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ValidationMissingField, verr.Kind)
	})

	t.Run("Should pass through an unrecognized function name as custom", func(t *testing.T) {
		raw := []byte(`{
			"id": "wf-8",
			"name": "custom",
			"tasks": [
				{"id": "t1", "name": "t1", "function": {"name": "send_slack_message", "input": {"channel": "#ops"}}}
			]
		}`)

		wf, err := Validate(raw)
		require.NoError(t, err)
		fn := wf.Roots[0].Function
		assert.Equal(t, FunctionCustom, fn.Kind)
		require.NotNil(t, fn.Custom)
		assert.Equal(t, "send_slack_message", fn.Custom.Name)
		assert.Equal(t, "#ops", fn.Custom.Input["channel"])
	})
}
