package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/seeflow/see/engine/store"
)

func newInputCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "input <execution-id> <task-id> <value>",
		Short: "Provide the value requested by a paused user_input task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			executionID, taskID, value := args[0], args[1], args[2]

			ctx := cmd.Context()
			if deps.CommandTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, deps.CommandTimeout)
				defer cancel()
			}

			result, err := deps.Gate.ProvideUserInput(ctx, executionID, taskID, value)
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
}
