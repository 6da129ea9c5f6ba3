// Package cli builds the cobra command tree for the see binary: running a
// workflow file to completion (or first pause), listing system workflows
// and prompts, resuming a suspended execution, fulfilling an input gate,
// and listing past executions.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seeflow/see/engine/exec"
	"github.com/seeflow/see/engine/gate"
	"github.com/seeflow/see/engine/store"
)

// Deps are the already-wired engine components every subcommand runs
// against; cmd/see constructs these once at startup, after AuditOrphans.
type Deps struct {
	Store          *store.Store
	Engine         *exec.Engine
	Gate           *gate.Service
	CommandTimeout time.Duration
}

// RootCmd builds the full see command tree.
func RootCmd(deps *Deps) *cobra.Command {
	var filePath string
	root := newRootCommand(deps, &filePath)
	configureRootFlags(root, &filePath)
	registerRootSubcommands(root, deps)
	return root
}

func newRootCommand(deps *Deps, filePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "see",
		Short: "Persistent, resumable workflow execution engine",
		Long: `see runs declarative workflows of CLI, agent, and user-input tasks,
persisting every state transition so a run can be resumed after a crash
or after a pause-for-input gate is answered out of band.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if *filePath == "" {
				return cmd.Help()
			}
			return runWorkflowFile(cmd, deps, *filePath)
		},
	}
}

func configureRootFlags(root *cobra.Command, filePath *string) {
	root.Flags().StringVar(filePath, "file", "", "path to a workflow JSON file to validate and run")
}

func registerRootSubcommands(root *cobra.Command, deps *Deps) {
	root.AddCommand(
		newListSystemWorkflowsCommand(deps),
		newListSystemPromptsCommand(deps),
		newResumeCommand(deps),
		newInputCommand(deps),
		newExecutionsCommand(deps),
	)
}

func fail(cmd *cobra.Command, err error) error {
	cmd.PrintErrln(renderError(err.Error()))
	return err
}

func errWorkflowFailed(executionID string) error {
	return fmt.Errorf("workflow execution %s failed", executionID)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
