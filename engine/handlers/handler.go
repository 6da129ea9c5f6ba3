// Package handlers implements the four task function variants: shell
// command, agent invocation, user-input gate, and custom passthrough. Each
// satisfies the uniform Handler contract the engine dispatches against.
package handlers

import (
	"context"

	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/engine/workflow"
)

// TaskResult is what every handler returns: whether the task succeeded, its
// JSON-shaped output, and an error message when it did not.
type TaskResult struct {
	Success bool
	Output  any
	Error   string
}

// Context is the narrow slice of the engine's execution context a handler
// needs: task state transitions, logging, and read access to the store for
// prompt/input-request lookups. engine/exec.ExecutionContext implements it;
// handlers never see the full mutex-guarded struct.
type Context interface {
	StartTask(ctx context.Context, taskID string) error
	CompleteTask(ctx context.Context, taskID string, output any) error
	FailTask(ctx context.Context, taskID string, errMsg string) error
	PauseForInput(ctx context.Context, taskID, prompt, inputType string, required bool, defaultValue any) error
	Log(taskID, line string)
	ExecutionID() string
	Outputs() map[string]any
	Store() *store.Store
}

// Handler executes one task function variant.
type Handler interface {
	Execute(ctx context.Context, hc Context, task *workflow.Task) (*TaskResult, error)
}

// For dispatches to the handler registered for task.Function.Kind.
func For(kind workflow.FunctionKind) Handler {
	switch kind {
	case workflow.FunctionCliCommand:
		return cliHandler{}
	case workflow.FunctionAgent:
		return agentHandler{}
	case workflow.FunctionUserInput:
		return userInputHandler{}
	default:
		return customHandler{}
	}
}

func startLogLine(taskID string) string { return "[TASK_START:" + taskID + "]" }
func endLogLine(taskID string) string   { return "[TASK_END:" + taskID + "]" }
