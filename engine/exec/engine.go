package exec

import (
	"context"
	"fmt"
	"sync"

	"github.com/seeflow/see/engine/core"
	"github.com/seeflow/see/engine/handlers"
	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/engine/workflow"
	"github.com/seeflow/see/pkg/logger"
)

// Engine owns the store and drives DAG execution for one or more runs.
type Engine struct {
	st *store.Store
}

// New builds an Engine over st.
func New(st *store.Store) *Engine {
	return &Engine{st: st}
}

// WorkflowResult is returned by Run and Resume: the final execution row
// plus whether the run succeeded outright (false for both failure and
// pause-for-input suspension).
type WorkflowResult struct {
	Execution *store.WorkflowExecution
	Success   bool
}

// Run materializes wf into durable rows and schedules it from its root
// tasks, honoring parent→child sequencing and sibling parallelism.
func (e *Engine) Run(ctx context.Context, wf *workflow.ParsedWorkflow, workflowID, snapshot string) (*WorkflowResult, error) {
	log := logger.FromContext(ctx)

	id, err := core.NewID()
	if err != nil {
		return nil, core.NewError(err, core.KindExecutionCommand, nil)
	}
	executionID := id.String()

	ectx := NewExecutionContext(e.st, executionID, wf.Name)
	nodes := wf.Preorder()
	for _, t := range nodes {
		ectx.RegisterTask(t.ID, t.Name)
	}

	execution := &store.WorkflowExecution{
		ID:               executionID,
		WorkflowID:       workflowID,
		WorkflowName:     wf.Name,
		WorkflowSnapshot: snapshot,
		Status:           store.ExecutionRunning,
		TaskIDs:          ectx.TaskIDs(),
	}
	if _, err := e.st.SaveExecution(ctx, execution); err != nil {
		return nil, err
	}
	if err := e.st.SaveMetadata(ctx, execution); err != nil {
		return nil, err
	}
	for _, t := range nodes {
		pending := &store.TaskExecution{ExecutionID: executionID, TaskID: t.ID, TaskName: t.Name, Status: store.TaskPending}
		if err := e.st.SaveTask(ctx, pending); err != nil {
			return nil, err
		}
	}

	log.With("execution_id", executionID, "workflow", wf.Name).Info("workflow execution starting")

	errs := newErrorCollector()
	var wg sync.WaitGroup
	for _, root := range wf.Roots {
		wg.Add(1)
		go func(t *workflow.Task) {
			defer wg.Done()
			e.runSubtree(ctx, ectx, t, errs)
		}(root)
	}
	wg.Wait()

	return e.finalize(ctx, ectx, execution, errs.list())
}

// runSubtree executes one task, then (only on Complete) fans its children
// out concurrently and waits for them. Failed subtrees halt at the failing
// node; sibling subtrees elsewhere in the forest are unaffected.
func (e *Engine) runSubtree(ctx context.Context, ectx *ExecutionContext, task *workflow.Task, errs *errorCollector) {
	handler := handlers.For(task.Function.Kind)
	result, err := handler.Execute(ctx, ectx, task)
	if err != nil {
		errs.add(fmt.Sprintf("task %s: %v", task.ID, err))
		return
	}

	switch ectx.Status(task.ID) {
	case store.TaskFailed:
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("task %s failed", task.ID)
		}
		errs.add(msg)
		return
	case store.TaskWaitingForInput:
		return
	default:
		e.fanOut(ctx, ectx, task, errs)
	}
}

// fanOut schedules every child of task concurrently and waits for the
// whole sibling set to settle.
func (e *Engine) fanOut(ctx context.Context, ectx *ExecutionContext, task *workflow.Task, errs *errorCollector) {
	var wg sync.WaitGroup
	for _, child := range task.NextTasks {
		wg.Add(1)
		go func(t *workflow.Task) {
			defer wg.Done()
			e.runSubtree(ctx, ectx, t, errs)
		}(child)
	}
	wg.Wait()
}

// finalize computes the terminal workflow status once every root subtree
// has settled, persists it, and returns the WorkflowResult.
func (e *Engine) finalize(ctx context.Context, ectx *ExecutionContext, execution *store.WorkflowExecution, errs []string) (*WorkflowResult, error) {
	log := logger.FromContext(ctx)
	execution.Errors = errs

	if ectx.HasWaitingTasks() {
		waiting := ectx.GetWaitingTasks()
		execution.Status = store.ExecutionWaitingForInput
		execution.IsPaused = true
		execution.PausedTaskID = waiting[0]
		if err := e.persistFinal(ctx, execution); err != nil {
			return nil, err
		}
		log.With("execution_id", execution.ID).Info("workflow execution suspended awaiting input")
		return &WorkflowResult{Execution: execution, Success: false}, nil
	}

	success := len(errs) == 0
	if success {
		execution.Status = store.ExecutionComplete
	} else {
		execution.Status = store.ExecutionFailed
	}
	execution.IsPaused = false
	execution.PausedTaskID = ""
	execution.CompletedAt = core.FormatTimestamp(core.SystemClock.Now())
	execution.Success = &success

	if err := e.persistFinal(ctx, execution); err != nil {
		return nil, err
	}
	log.With("execution_id", execution.ID, "status", execution.Status).Info("workflow execution finished")
	return &WorkflowResult{Execution: execution, Success: success}, nil
}

func (e *Engine) persistFinal(ctx context.Context, execution *store.WorkflowExecution) error {
	if _, err := e.st.SaveExecution(ctx, execution); err != nil {
		return err
	}
	return e.st.SaveMetadata(ctx, execution)
}

// errorCollector is a small mutex-guarded string accumulator: sibling
// subtrees each append independently without a shared-slice race.
type errorCollector struct {
	mu   sync.Mutex
	errs []string
}

func newErrorCollector() *errorCollector { return &errorCollector{} }

func (c *errorCollector) add(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, msg)
}

func (c *errorCollector) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errs...)
}
