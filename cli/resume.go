package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seeflow/see/engine/store"
)

func newResumeCommand(deps *Deps) *cobra.Command {
	var taskID string
	cmd := &cobra.Command{
		Use:   "resume <execution-id>",
		Short: "Resume a suspended execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executionID := args[0]
			resolved := taskID
			if resolved == "" {
				tasks, err := deps.Gate.GetTasksWaitingForInput(executionID)
				if err != nil {
					return fail(cmd, err)
				}
				if len(tasks) == 0 {
					return fail(cmd, fmt.Errorf("execution %s has no task waiting for input", executionID))
				}
				resolved = tasks[0].TaskID
			}

			ctx := cmd.Context()
			if deps.CommandTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, deps.CommandTimeout)
				defer cancel()
			}

			result, err := deps.Engine.Resume(ctx, executionID, resolved)
			if err != nil {
				return fail(cmd, err)
			}
			printTaskLogs(cmd, deps, result.Execution)
			printExecutionSummary(cmd, result.Execution)
			if !result.Success && result.Execution.Status != store.ExecutionWaitingForInput {
				return fail(cmd, errWorkflowFailed(result.Execution.ID))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "the suspended task to resume (defaults to the first one waiting)")
	return cmd
}
