package exec

import (
	"context"
	"fmt"
	"sync"

	"dario.cat/mergo"

	"github.com/seeflow/see/engine/core"
	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/engine/workflow"
	"github.com/seeflow/see/pkg/logger"
)

// Resume re-enters a suspended execution. It never re-invokes a handler for
// a task that the gate service just resolved; it completes that task
// directly from the persisted input value and continues the walk from
// there, re-parsing workflow_snapshot rather than trusting any in-process
// state (none may exist — Resume is expected to run in a fresh process).
func (e *Engine) Resume(ctx context.Context, executionID, resolvedTaskID string) (*WorkflowResult, error) {
	log := logger.FromContext(ctx)

	execution, found, err := e.st.GetExecution(executionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, core.NewError(fmt.Errorf("execution %s not found", executionID), core.KindNotFound, nil)
	}
	if execution.Status != store.ExecutionWaitingForInput {
		return nil, core.NewError(fmt.Errorf("execution %s is not waiting for input", executionID), core.KindValidation, nil)
	}

	wf, err := workflow.Validate([]byte(execution.WorkflowSnapshot))
	if err != nil {
		return nil, core.NewError(fmt.Errorf("re-parsing workflow_snapshot: %w", err), core.KindValidation, nil)
	}

	rows, err := e.st.ListTasks(executionID)
	if err != nil {
		return nil, err
	}

	ectx := NewExecutionContext(e.st, executionID, execution.WorkflowName)
	for _, t := range wf.Preorder() {
		ectx.RegisterTask(t.ID, t.Name)
	}
	stillWaiting := false
	for _, row := range rows {
		resolved := row.TaskID == resolvedTaskID && row.Status == store.TaskWaitingForInput
		if !resolved && row.Status == store.TaskWaitingForInput {
			stillWaiting = true
		}
		ectx.Hydrate(row, resolved)
	}

	execution.Status = store.ExecutionRunning
	execution.IsPaused = stillWaiting
	if stillWaiting {
		for _, row := range rows {
			if row.Status == store.TaskWaitingForInput {
				execution.PausedTaskID = row.TaskID
				break
			}
		}
	} else {
		execution.PausedTaskID = ""
	}
	if err := e.persistFinal(ctx, execution); err != nil {
		return nil, err
	}

	log.With("execution_id", executionID, "resumed_task", resolvedTaskID).Info("workflow execution resuming")

	errs := newErrorCollector()
	var wg sync.WaitGroup
	for _, root := range wf.Roots {
		wg.Add(1)
		go func(t *workflow.Task) {
			defer wg.Done()
			e.resumeSubtree(ctx, ectx, t, errs)
		}(root)
	}
	wg.Wait()

	return e.finalize(ctx, ectx, execution, errs.list())
}

// resumeSubtree mirrors runSubtree but consults the hydrated, persisted
// status of each task before deciding whether to (re-)invoke its handler:
// a Complete task only needs its children walked, a Failed one halts the
// subtree, an untouched WaitingForInput task is left exactly as it is (it
// may belong to a different gate than the one just resolved), and a task
// the gate service just resolved is completed directly rather than
// re-executed. Every other task — including one that was still Pending,
// which can happen if a prior process crashed mid-fan-out — falls through
// to the normal execution path.
func (e *Engine) resumeSubtree(ctx context.Context, ectx *ExecutionContext, task *workflow.Task, errs *errorCollector) {
	switch ectx.Status(task.ID) {
	case store.TaskComplete:
		e.resumeFanOut(ctx, ectx, task, errs)
		return
	case store.TaskFailed:
		errs.add(fmt.Sprintf("task %s failed", task.ID))
		return
	case store.TaskWaitingForInput:
		if !ectx.WasResolved(task.ID) {
			return
		}
		output, err := resolvedGateOutput(task, ectx.UserInput(task.ID))
		if err != nil {
			errs.add(fmt.Sprintf("task %s: %v", task.ID, err))
			return
		}
		if err := ectx.CompleteTask(ctx, task.ID, output); err != nil {
			errs.add(fmt.Sprintf("task %s: %v", task.ID, err))
			return
		}
		e.resumeFanOut(ctx, ectx, task, errs)
		return
	default:
		e.runSubtree(ctx, ectx, task, errs)
	}
}

// resolvedGateOutput builds the output recorded against a task resolved by
// the input gate: the value actually supplied wins, but a user_input task's
// declared default backfills it when no value was recorded for the task
// (Resume called directly; gate.Service never records an empty value).
func resolvedGateOutput(task *workflow.Task, recorded string) (map[string]any, error) {
	dst := map[string]any{"resolved_by": "gate"}
	if recorded != "" {
		dst["value"] = recorded
	}
	if task.Function.Kind == workflow.FunctionUserInput && task.Function.UserInput.Default != nil {
		src := map[string]any{"value": task.Function.UserInput.Default}
		if err := mergo.Merge(&dst, src); err != nil {
			return nil, fmt.Errorf("merge default value for task %s: %w", task.ID, err)
		}
	}
	return dst, nil
}

// resumeFanOut schedules task's children with resumeSubtree, so a
// previously-complete ancestor continues the resume-aware walk all the
// way down rather than falling back to a fresh handler invocation.
func (e *Engine) resumeFanOut(ctx context.Context, ectx *ExecutionContext, task *workflow.Task, errs *errorCollector) {
	var wg sync.WaitGroup
	for _, child := range task.NextTasks {
		wg.Add(1)
		go func(t *workflow.Task) {
			defer wg.Done()
			e.resumeSubtree(ctx, ectx, t, errs)
		}(child)
	}
	wg.Wait()
}

// AuditOrphans marks every execution left Running by a prior process as
// Failed. It must run once, before the engine accepts any new Run or
// Resume call, since a crash mid-execution otherwise leaves the row
// permanently stuck in Running.
func (e *Engine) AuditOrphans(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	running, err := e.st.ListRunningExecutions()
	if err != nil {
		return 0, err
	}

	for _, execution := range running {
		execution.Status = store.ExecutionFailed
		execution.IsPaused = false
		execution.CompletedAt = core.FormatTimestamp(core.SystemClock.Now())
		success := false
		execution.Success = &success
		execution.Errors = append(execution.Errors, "Workflow was interrupted by application shutdown")
		if err := e.persistFinal(ctx, execution); err != nil {
			return 0, err
		}
		log.With("execution_id", execution.ID).Warn("orphaned execution marked failed on startup")
	}

	return len(running), nil
}
