package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seeflow/see/engine/workflow"
)

func TestCliHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Should mark the task complete on a zero exit", func(t *testing.T) {
		hc := newFakeContext(nil)
		task := cliTask("t1", "echo", "hello")

		result, err := cliHandler{}.Execute(ctx, hc, task)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "complete", hc.status("t1"))
		assert.Contains(t, hc.logs["t1"], startLogLine("t1"))
		assert.Contains(t, hc.logs["t1"], endLogLine("t1"))
	})

	t.Run("Should mark the task failed on a nonzero exit", func(t *testing.T) {
		hc := newFakeContext(nil)
		task := cliTask("t2", "false")

		result, err := cliHandler{}.Execute(ctx, hc, task)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "failed", hc.status("t2"))
		assert.NotEmpty(t, hc.errors["t2"])
	})

	t.Run("Should extract embedded JSON from stdout", func(t *testing.T) {
		hc := newFakeContext(nil)
		task := cliTask("t3", "echo", `result: {"ok": true}`)

		result, err := cliHandler{}.Execute(ctx, hc, task)
		require.NoError(t, err)
		require.True(t, result.Success)
		out := result.Output.(cliResult)
		require.NotNil(t, out.ExtractedJSON)
		assert.Equal(t, true, out.ExtractedJSON.(map[string]any)["ok"])
	})

	t.Run("Should split a single command string when args is absent", func(t *testing.T) {
		hc := newFakeContext(nil)
		task := cliTask("t5", "echo hello world")

		result, err := cliHandler{}.Execute(ctx, hc, task)
		require.NoError(t, err)
		assert.True(t, result.Success)
		out := result.Output.(cliResult)
		assert.Equal(t, "hello world\n", out.Stdout)
	})

	t.Run("Should leave an explicit args list untouched even if command looks splittable", func(t *testing.T) {
		command, args, err := splitCommand("echo hi", []string{"already", "separate"})
		require.NoError(t, err)
		assert.Equal(t, "echo hi", command)
		assert.Equal(t, []string{"already", "separate"}, args)
	})

	t.Run("Should trigger a pause-for-input gate and not mark the task complete", func(t *testing.T) {
		hc := newFakeContext(nil)
		task := cliTask("t4", "echo", "done")
		task.Function.CliCommand.PauseForInput = &workflow.PauseForInput{Prompt: "continue?"}

		result, err := cliHandler{}.Execute(ctx, hc, task)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "waiting_for_input", hc.status("t4"))
		assert.True(t, hc.paused["t4"])
	})
}
