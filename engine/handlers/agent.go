package handlers

import (
	"context"
	"fmt"

	"github.com/seeflow/see/engine/core"
	"github.com/seeflow/see/engine/workflow"
	"github.com/seeflow/see/pkg/tplengine"
)

type agentHandler struct{}

func (agentHandler) Execute(ctx context.Context, hc Context, task *workflow.Task) (*TaskResult, error) {
	fn := task.Function.Agent

	rawPrompt, err := resolvePrompt(hc, fn)
	if err != nil {
		_ = hc.FailTask(ctx, task.ID, err.Error())
		return &TaskResult{Success: false, Error: err.Error()}, nil
	}

	rendered, err := tplengine.Render(rawPrompt, map[string]any{
		"previous": hc.Outputs(),
		"execution_id": hc.ExecutionID(),
	})
	if err != nil {
		renderErr := core.NewError(fmt.Errorf("render agent prompt: %w", err), core.KindValidation, nil)
		_ = hc.FailTask(ctx, task.ID, renderErr.Error())
		return &TaskResult{Success: false, Error: renderErr.Error()}, nil
	}

	args := []string{"-p", rendered}
	if fn.ResponseType != "" {
		args = append(args, "--output-format", fn.ResponseType)
	}
	if fn.Model != "" {
		args = append(args, "--model", fn.Model)
	}
	args = append(args, fn.ExtraArgs...)

	return runSubprocess(ctx, hc, task, "agent", args, fn.ResponseType, nil, rendered)
}

// resolvePrompt follows prompt_id to a stored Prompt when set, else uses
// the inline prompt. A missing prompt either way is a Validation error.
func resolvePrompt(hc Context, fn *workflow.AgentFunction) (string, error) {
	if fn.PromptID != "" {
		p, found, err := hc.Store().GetPrompt(fn.PromptID)
		if err != nil {
			return "", core.NewError(fmt.Errorf("load prompt %s: %w", fn.PromptID, err), core.KindStoreIO, nil)
		}
		if !found {
			return "", core.NewError(fmt.Errorf("prompt %s not found", fn.PromptID), core.KindValidation, nil)
		}
		return p.Content, nil
	}
	if fn.Prompt == "" {
		return "", core.NewError(fmt.Errorf("agent task has neither prompt nor prompt_id"), core.KindValidation, nil)
	}
	return fn.Prompt, nil
}
