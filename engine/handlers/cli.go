package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/google/shlex"

	"github.com/seeflow/see/engine/core"
	"github.com/seeflow/see/engine/workflow"
)

type cliHandler struct{}

// cliResult is the JSON shape returned in TaskResult.Output for both the
// Cli and Agent handlers.
type cliResult struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	ExitCode      int    `json:"exit_code"`
	ExtractedJSON any    `json:"extracted_json,omitempty"`
	PromptUsed    string `json:"prompt_used,omitempty"`
}

func (cliHandler) Execute(ctx context.Context, hc Context, task *workflow.Task) (*TaskResult, error) {
	fn := task.Function.CliCommand
	command, args, err := splitCommand(fn.Command, fn.Args)
	if err != nil {
		return nil, core.NewError(fmt.Errorf("split command %q: %w", fn.Command, err), core.KindValidation, nil)
	}
	return runSubprocess(ctx, hc, task, command, args, "", fn.PauseForInput, "")
}

// splitCommand shell-splits command when args is empty, so a workflow
// author can write a single `command: "echo hi"` string instead of
// separate command/args fields. An explicit args list always wins.
func splitCommand(command string, args []string) (string, []string, error) {
	if len(args) > 0 {
		return command, args, nil
	}
	parts, err := shlex.Split(command)
	if err != nil {
		return "", nil, err
	}
	if len(parts) == 0 {
		return command, nil, nil
	}
	return parts[0], parts[1:], nil
}

// runSubprocess is shared by the Cli and Agent handlers: spawn, capture
// stdout/stderr, enforce the response_type contract, run JSON extraction,
// and trigger a pause-for-input gate when the task configures one.
func runSubprocess(
	ctx context.Context,
	hc Context,
	task *workflow.Task,
	command string,
	args []string,
	responseType string,
	pause *workflow.PauseForInput,
	promptUsed string,
) (*TaskResult, error) {
	if err := hc.StartTask(ctx, task.ID); err != nil {
		return nil, err
	}
	hc.Log(task.ID, startLogLine(task.ID))

	cmd := exec.CommandContext(ctx, command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			failErr := core.NewError(
				fmt.Errorf("spawn %s: %w", command, runErr),
				core.KindExecutionCommand,
				map[string]any{"command": command},
			)
			_ = hc.FailTask(ctx, task.ID, failErr.Error())
			return &TaskResult{Success: false, Error: failErr.Error()}, nil
		}
	}

	result := cliResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		ExitCode:   exitCode,
		PromptUsed: promptUsed,
	}

	if exitCode != 0 {
		failErr := core.NewError(
			fmt.Errorf("command %q exited %d: %s", command, exitCode, stderr.String()),
			core.KindExecutionCommand,
			map[string]any{"command": command, "exit_code": exitCode, "stderr": stderr.String()},
		)
		_ = hc.FailTask(ctx, task.ID, failErr.Error())
		return &TaskResult{Success: false, Output: result, Error: failErr.Error()}, nil
	}

	if responseType == "json" {
		var v any
		if err := json.Unmarshal(stdout.Bytes(), &v); err != nil {
			serErr := core.NewError(
				fmt.Errorf("stdout is not valid JSON: %w", err),
				core.KindExecutionSerialize,
				nil,
			)
			_ = hc.FailTask(ctx, task.ID, serErr.Error())
			return &TaskResult{Success: false, Output: result, Error: serErr.Error()}, nil
		}
		result.ExtractedJSON = v
	} else if v, ok := extractJSON(stdout.String()); ok {
		result.ExtractedJSON = v
	}

	if pause != nil {
		inputType := "string"
		if err := hc.PauseForInput(ctx, task.ID, pause.Prompt, inputType, true, nil); err != nil {
			return nil, err
		}
		hc.Log(task.ID, endLogLine(task.ID))
		return &TaskResult{Success: false, Output: result}, nil
	}

	hc.Log(task.ID, endLogLine(task.ID))
	if err := hc.CompleteTask(ctx, task.ID, result); err != nil {
		return nil, err
	}
	return &TaskResult{Success: true, Output: result}, nil
}
