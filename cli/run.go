package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seeflow/see/engine/store"
	"github.com/seeflow/see/engine/workflow"
)

// runWorkflowFile implements the legacy `see --file <path>` flag: validate,
// run synchronously to completion or first pause, print a summary and every
// handler log line, then exit non-zero on failure.
func runWorkflowFile(cmd *cobra.Command, deps *Deps, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fail(cmd, fmt.Errorf("reading %s: %w", path, err))
	}

	wf, err := workflow.Validate(raw)
	if err != nil {
		return fail(cmd, err)
	}

	printf(cmd, "%s\n", renderTitle(fmt.Sprintf("running workflow %q", wf.Name)))

	ctx := cmd.Context()
	if deps.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deps.CommandTimeout)
		defer cancel()
	}

	result, err := deps.Engine.Run(ctx, wf, wf.ID, string(raw))
	if err != nil {
		return fail(cmd, err)
	}

	printTaskLogs(cmd, deps, result.Execution)
	printExecutionSummary(cmd, result.Execution)

	if !result.Success && result.Execution.Status != store.ExecutionWaitingForInput {
		return fmt.Errorf("workflow execution %s failed", result.Execution.ID)
	}
	return nil
}

func printTaskLogs(cmd *cobra.Command, deps *Deps, execution *store.WorkflowExecution) {
	_, tasks, found, err := deps.Store.GetWithTasks(execution.ID)
	if err != nil || !found {
		return
	}
	for _, t := range tasks {
		for _, line := range t.Logs {
			printf(cmd, "%s %s\n", renderMuted("["+t.TaskID+"]"), line)
		}
	}
}

func printExecutionSummary(cmd *cobra.Command, execution *store.WorkflowExecution) {
	printf(cmd, "execution id: %s\n", execution.ID)
	switch execution.Status {
	case store.ExecutionComplete:
		printf(cmd, "%s\n", renderSuccess("workflow completed"))
	case store.ExecutionWaitingForInput:
		printf(cmd, "%s (task %s)\n", renderMuted("workflow suspended awaiting input"), execution.PausedTaskID)
	default:
		printf(cmd, "%s\n", renderError("workflow failed"))
		for _, e := range execution.Errors {
			printf(cmd, "  - %s\n", e)
		}
	}
}
