// Package exec is the execution engine: it owns the shared execution
// context, schedules the DAG, persists every state transition, and
// implements pause/resume across process restarts.
package exec

import (
	"context"
	"fmt"
	"sync"

	"github.com/seeflow/see/engine/core"
	"github.com/seeflow/see/engine/store"
)

// ExecutionContext is shared across every concurrent handler of one run and
// guarded by a single mutex. Lock-hold times are kept short: state is
// mutated under lock, copied, then persisted to the store after the lock
// is released, so a Store round-trip never blocks a sibling handler.
type ExecutionContext struct {
	mu sync.Mutex

	st           *store.Store
	executionID  string
	workflowName string
	paused       bool

	order    []string
	tasks    map[string]*store.TaskExecution
	logs     map[string][]string
	outputs  map[string]any
	resolved map[string]bool
}

// NewExecutionContext builds an empty context for a fresh run; RegisterTask
// must be called once per DAG node (in preorder) before scheduling begins.
func NewExecutionContext(st *store.Store, executionID, workflowName string) *ExecutionContext {
	return &ExecutionContext{
		st:           st,
		executionID:  executionID,
		workflowName: workflowName,
		tasks:        make(map[string]*store.TaskExecution),
		logs:         make(map[string][]string),
		outputs:      make(map[string]any),
		resolved:     make(map[string]bool),
	}
}

// Hydrate seeds a registered task's in-memory row from a persisted
// snapshot (used when resuming a run in a new process) and, when resolved
// is true, marks it as having just been fulfilled by an input-gate resume
// rather than newly scheduled.
func (c *ExecutionContext) Hydrate(row *store.TaskExecution, resolved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *row
	c.tasks[row.TaskID] = &cp
	if resolved {
		c.resolved[row.TaskID] = true
	}
}

// WasResolved reports whether taskID was just fulfilled by an input-gate
// resume in this run.
func (c *ExecutionContext) WasResolved(taskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved[taskID]
}

// RegisterTask seeds a Pending TaskExecution row for a DAG node, in
// insertion order, before any task starts executing.
func (c *ExecutionContext) RegisterTask(taskID, taskName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = append(c.order, taskID)
	c.tasks[taskID] = &store.TaskExecution{
		ExecutionID: c.executionID,
		TaskID:      taskID,
		TaskName:    taskName,
		Status:      store.TaskPending,
	}
}

// TaskIDs returns every registered task ID in registration (preorder) order.
func (c *ExecutionContext) TaskIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *ExecutionContext) snapshotAndFlushLogs(taskID string) []string {
	lines := c.logs[taskID]
	delete(c.logs, taskID)
	return lines
}

// StartTask marks a task InProgress and persists it.
func (c *ExecutionContext) StartTask(ctx context.Context, taskID string) error {
	cp, err := c.mutate(taskID, func(t *store.TaskExecution) {
		t.Status = store.TaskInProgress
		t.StartTimestamp = core.FormatTimestamp(core.SystemClock.Now())
		t.EndTimestamp = ""
	})
	if err != nil {
		return err
	}
	return c.st.SaveTask(ctx, cp)
}

// CompleteTask marks a task Complete, stashes its output for later prompt
// templating (outputs are not part of the durable TaskExecution row), and
// persists.
func (c *ExecutionContext) CompleteTask(ctx context.Context, taskID string, output any) error {
	c.mu.Lock()
	c.outputs[taskID] = output
	c.mu.Unlock()

	cp, err := c.mutate(taskID, func(t *store.TaskExecution) {
		t.Status = store.TaskComplete
		t.EndTimestamp = core.FormatTimestamp(core.SystemClock.Now())
	})
	if err != nil {
		return err
	}
	return c.st.SaveTask(ctx, cp)
}

// FailTask marks a task Failed and persists it. The error message itself is
// appended to the task's log lines so it survives in the audit trail.
func (c *ExecutionContext) FailTask(ctx context.Context, taskID string, errMsg string) error {
	c.mu.Lock()
	c.logs[taskID] = append(c.logs[taskID], errMsg)
	c.mu.Unlock()

	cp, err := c.mutate(taskID, func(t *store.TaskExecution) {
		t.Status = store.TaskFailed
		t.EndTimestamp = core.FormatTimestamp(core.SystemClock.Now())
	})
	if err != nil {
		return err
	}
	return c.st.SaveTask(ctx, cp)
}

// PauseForInput creates a UserInputRequest, marks the task WaitingForInput,
// and records that this run has at least one suspended task.
func (c *ExecutionContext) PauseForInput(ctx context.Context, taskID, prompt, inputType string, required bool, defaultValue any) error {
	id, err := core.NewID()
	if err != nil {
		return core.NewError(err, core.KindExecutionCommand, nil)
	}
	requestID := id.String()

	defaultStr := ""
	if defaultValue != nil {
		if s, ok := defaultValue.(string); ok {
			defaultStr = s
		}
	}

	cp, err := c.mutate(taskID, func(t *store.TaskExecution) {
		t.Status = store.TaskWaitingForInput
		t.EndTimestamp = ""
		t.InputRequestID = requestID
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()

	if err := c.st.SaveTask(ctx, cp); err != nil {
		return err
	}

	req := &store.UserInputRequest{
		ID:                  requestID,
		WorkflowExecutionID: c.executionID,
		TaskExecutionID:     taskID,
		PromptText:          prompt,
		InputType:           inputType,
		Required:            required,
		DefaultValue:        defaultStr,
		Status:              store.InputPending,
	}
	return c.st.SaveInputRequest(ctx, req)
}

// ResumeTask clears WaitingForInput back to InProgress; used by the resume
// protocol.
func (c *ExecutionContext) ResumeTask(ctx context.Context, taskID string) error {
	cp, err := c.mutate(taskID, func(t *store.TaskExecution) {
		t.Status = store.TaskInProgress
		t.EndTimestamp = ""
	})
	if err != nil {
		return err
	}
	return c.st.SaveTask(ctx, cp)
}

// Log appends a line to a task's in-memory log buffer; it is flushed into
// the persisted row on the next Start/Complete/Fail/PauseForInput call.
func (c *ExecutionContext) Log(taskID, line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs[taskID] = append(c.logs[taskID], line)
}

// HasWaitingTasks reports whether any registered task is currently
// WaitingForInput.
func (c *ExecutionContext) HasWaitingTasks() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.Status == store.TaskWaitingForInput {
			return true
		}
	}
	return false
}

// GetWaitingTasks returns the IDs of every task currently WaitingForInput.
func (c *ExecutionContext) GetWaitingTasks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, id := range c.order {
		if c.tasks[id].Status == store.TaskWaitingForInput {
			out = append(out, id)
		}
	}
	return out
}

// ExecutionID returns the run's execution ID.
func (c *ExecutionContext) ExecutionID() string { return c.executionID }

// Outputs returns a snapshot of every completed task's output, keyed by
// task ID, for prompt templating.
func (c *ExecutionContext) Outputs() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.outputs))
	for k, v := range c.outputs {
		out[k] = v
	}
	return out
}

// Store returns the underlying store, for handlers that need read access
// (e.g. the Agent handler resolving a stored prompt).
func (c *ExecutionContext) Store() *store.Store { return c.st }

// UserInput returns the recorded input value for a registered task, or ""
// if none was recorded (never asked, or not yet answered).
func (c *ExecutionContext) UserInput(taskID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tasks[taskID]; ok {
		return t.UserInput
	}
	return ""
}

// Status returns the in-memory status of a registered task.
func (c *ExecutionContext) Status(taskID string) store.TaskStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tasks[taskID]; ok {
		return t.Status
	}
	return ""
}

// mutate applies fn to the in-memory task row under lock, flushes any
// buffered log lines into it, and returns a copy safe to persist without
// holding the lock.
func (c *ExecutionContext) mutate(taskID string, fn func(t *store.TaskExecution)) (*store.TaskExecution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tasks[taskID]
	if !ok {
		return nil, core.NewError(fmt.Errorf("task %s not registered in this execution", taskID), core.KindNotFound, nil)
	}
	fn(t)
	if lines := c.snapshotAndFlushLogs(taskID); len(lines) > 0 {
		t.Logs = append(t.Logs, lines...)
	}
	cp := *t
	cp.Logs = append([]string(nil), t.Logs...)
	return &cp, nil
}
