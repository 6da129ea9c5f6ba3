package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/seeflow/see/engine/core"
)

func newExecutionsCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "executions",
		Short: "Inspect past workflow executions",
	}
	cmd.AddCommand(newExecutionsListCommand(deps), newExecutionsShowCommand(deps))
	return cmd
}

func newExecutionsListCommand(deps *Deps) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List executions, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			executions, err := deps.Store.ListExecutions(limit)
			if err != nil {
				return fail(cmd, err)
			}
			printf(cmd, "%s\n", renderTitle("executions"))
			if len(executions) == 0 {
				printf(cmd, "%s\n", renderMuted("none"))
				return nil
			}
			for _, e := range executions {
				printf(cmd, "  %s  %-10s  %s\n", e.ID, e.Status, e.WorkflowName)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of executions to list")
	return cmd
}

// newExecutionsShowCommand prints the persisted workflow_snapshot for one
// execution, pretty-printed for a human reading the terminal rather than
// the compact form it is stored in.
func newExecutionsShowCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <execution-id>",
		Short: "Show the workflow snapshot behind one execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			execution, found, err := deps.Store.GetExecution(args[0])
			if err != nil {
				return fail(cmd, err)
			}
			if !found {
				return fail(cmd, core.NewError(fmt.Errorf("execution %s not found", args[0]), core.KindNotFound, nil))
			}
			printf(cmd, "%s\n", renderTitle(fmt.Sprintf("execution %s", execution.ID)))
			formatted := pretty.Pretty([]byte(execution.WorkflowSnapshot))
			printf(cmd, "%s\n", string(formatted))
			return nil
		},
	}
}
