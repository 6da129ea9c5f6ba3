package handlers

import (
	"context"

	"github.com/seeflow/see/engine/workflow"
)

type customHandler struct{}

// Execute echoes its input. Useful for test scaffolding and foreign
// function bridges; always succeeds.
func (customHandler) Execute(ctx context.Context, hc Context, task *workflow.Task) (*TaskResult, error) {
	if err := hc.StartTask(ctx, task.ID); err != nil {
		return nil, err
	}
	hc.Log(task.ID, startLogLine(task.ID))

	output := map[string]any{
		"name":  task.Function.Custom.Name,
		"input": task.Function.Custom.Input,
	}

	hc.Log(task.ID, endLogLine(task.ID))
	if err := hc.CompleteTask(ctx, task.ID, output); err != nil {
		return nil, err
	}
	return &TaskResult{Success: true, Output: output}, nil
}
