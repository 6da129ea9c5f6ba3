// Package gate fulfills user-input requests raised by a suspended
// execution (§4.5): it validates the supplied value against the gate's
// declared input type, records it on the suspended task, and drives the
// execution engine's resume protocol.
package gate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seeflow/see/engine/core"
	"github.com/seeflow/see/engine/exec"
	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/pkg/logger"
)

// Service wires the store to the execution engine to resolve input gates.
type Service struct {
	st     *store.Store
	engine *exec.Engine
}

// New builds a Service over st and engine.
func New(st *store.Store, engine *exec.Engine) *Service {
	return &Service{st: st, engine: engine}
}

// GetPendingInputs returns every unresolved input request for a workflow
// execution.
func (s *Service) GetPendingInputs(workflowExecutionID string) ([]*store.UserInputRequest, error) {
	return s.st.ListPendingForWorkflow(workflowExecutionID)
}

// GetTasksWaitingForInput returns every task row currently suspended for a
// workflow execution.
func (s *Service) GetTasksWaitingForInput(workflowExecutionID string) ([]*store.TaskExecution, error) {
	rows, err := s.st.ListTasks(workflowExecutionID)
	if err != nil {
		return nil, err
	}
	out := make([]*store.TaskExecution, 0, len(rows))
	for _, t := range rows {
		if t.Status == store.TaskWaitingForInput {
			out = append(out, t)
		}
	}
	return out, nil
}

// ProvideUserInput validates value against the gate's declared input_type,
// records it on the suspended task, fulfills the backing request, and
// resumes the execution. If resume itself fails after the value has been
// recorded, the task is marked Complete directly so the supplied input is
// never silently lost.
func (s *Service) ProvideUserInput(ctx context.Context, executionID, taskID, value string) (*exec.WorkflowResult, error) {
	log := logger.FromContext(ctx)

	if _, found, err := s.st.GetExecution(executionID); err != nil {
		return nil, err
	} else if !found {
		return nil, core.NewError(fmt.Errorf("execution %s not found", executionID), core.KindNotFound, nil)
	}

	task, found, err := s.st.GetTask(executionID, taskID)
	if err != nil {
		return nil, err
	}
	if !found || task.Status != store.TaskWaitingForInput {
		return nil, core.NewError(fmt.Errorf("task %s on execution %s is not waiting for input", taskID, executionID), core.KindValidation, nil)
	}

	request, found, err := s.st.GetInputRequestByID(task.InputRequestID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, core.NewError(fmt.Errorf("no input request found for task %s", taskID), core.KindNotFound, nil)
	}

	if err := validateValue(value, request.InputType); err != nil {
		return nil, err
	}

	task.UserInput = value
	if err := s.st.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	if _, err := s.st.Fulfill(ctx, request.ID, value); err != nil {
		return nil, err
	}

	result, err := s.engine.Resume(ctx, executionID, taskID)
	if err != nil {
		log.With("execution_id", executionID, "task_id", taskID, "error", err).
			Warn("resume failed after input was recorded, completing task directly")
		task.Status = store.TaskComplete
		task.EndTimestamp = core.FormatTimestamp(core.SystemClock.Now())
		if saveErr := s.st.SaveTask(ctx, task); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	return result, nil
}

// validateValue enforces the per-type check from §4.5 step 3 unconditionally
// — a string must be non-empty, a number must parse, a boolean must match
// the accepted spellings — regardless of whether the gate's declared
// input_type is marked required. A value empty enough to fail the number
// or boolean parse already fails without a separate emptiness check.
func validateValue(value, inputType string) error {
	switch inputType {
	case "number":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return core.NewError(fmt.Errorf("invalid number %q", value), core.KindValidation, nil)
		}
	case "boolean":
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no":
		default:
			return core.NewError(fmt.Errorf("invalid boolean %q", value), core.KindValidation, nil)
		}
	default:
		if strings.TrimSpace(value) == "" {
			return core.NewError(fmt.Errorf("a value is required for this input"), core.KindValidation, nil)
		}
	}
	return nil
}
