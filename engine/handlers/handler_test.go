package handlers

import (
	"context"
	"sync"

	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/engine/workflow"
)

// fakeContext is a minimal, mutex-guarded stand-in for
// engine/exec.ExecutionContext, used to unit-test handlers in isolation.
type fakeContext struct {
	mu        sync.Mutex
	statuses  map[string]string
	logs      map[string][]string
	outputs   map[string]any
	errors    map[string]string
	paused    map[string]bool
	st        *store.Store
}

func newFakeContext(st *store.Store) *fakeContext {
	return &fakeContext{
		statuses: make(map[string]string),
		logs:     make(map[string][]string),
		outputs:  make(map[string]any),
		errors:   make(map[string]string),
		paused:   make(map[string]bool),
		st:       st,
	}
}

func (f *fakeContext) StartTask(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[taskID] = "in_progress"
	return nil
}

func (f *fakeContext) CompleteTask(_ context.Context, taskID string, output any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[taskID] = "complete"
	f.outputs[taskID] = output
	return nil
}

func (f *fakeContext) FailTask(_ context.Context, taskID string, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[taskID] = "failed"
	f.errors[taskID] = errMsg
	return nil
}

func (f *fakeContext) PauseForInput(_ context.Context, taskID, _ string, _ string, _ bool, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[taskID] = "waiting_for_input"
	f.paused[taskID] = true
	return nil
}

func (f *fakeContext) Log(taskID, line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[taskID] = append(f.logs[taskID], line)
}

func (f *fakeContext) ExecutionID() string { return "exec-test" }

func (f *fakeContext) Outputs() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]any, len(f.outputs))
	for k, v := range f.outputs {
		out[k] = v
	}
	return out
}

func (f *fakeContext) Store() *store.Store { return f.st }

func (f *fakeContext) status(taskID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[taskID]
}

func cliTask(id, command string, args ...string) *workflow.Task {
	return &workflow.Task{
		ID:   id,
		Name: id,
		Function: workflow.Function{
			Kind:       workflow.FunctionCliCommand,
			CliCommand: &workflow.CliCommandFunction{Command: command, Args: args},
		},
	}
}
