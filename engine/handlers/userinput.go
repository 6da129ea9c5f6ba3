package handlers

import (
	"context"

	"github.com/seeflow/see/engine/workflow"
)

type userInputHandler struct{}

// Execute creates an input request through the context and suspends the
// task. The engine treats this as a non-failure suspension (success=false
// here is purely a scheduling signal, not an error), matching §4.4's
// WaitingForInput branch.
func (userInputHandler) Execute(ctx context.Context, hc Context, task *workflow.Task) (*TaskResult, error) {
	if err := hc.StartTask(ctx, task.ID); err != nil {
		return nil, err
	}
	hc.Log(task.ID, startLogLine(task.ID))

	fn := task.Function.UserInput
	if err := hc.PauseForInput(ctx, task.ID, fn.Prompt, fn.InputType, fn.Required, fn.Default); err != nil {
		return nil, err
	}

	return &TaskResult{Success: false}, nil
}
