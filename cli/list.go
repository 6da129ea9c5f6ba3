package cli

import (
	"github.com/spf13/cobra"
)

func newListSystemWorkflowsCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list-system-workflows",
		Short: "List the built-in default workflow definitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs, err := deps.Store.ListDefinitions()
			if err != nil {
				return fail(cmd, err)
			}
			printf(cmd, "%s\n", renderTitle("system workflows"))
			found := false
			for _, d := range defs {
				if !d.IsDefault {
					continue
				}
				found = true
				printf(cmd, "  %s  %s\n", d.ID, d.Name)
			}
			if !found {
				printf(cmd, "%s\n", renderMuted("none"))
			}
			return nil
		},
	}
}

func newListSystemPromptsCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list-system-prompts",
		Short: "List the built-in default prompt templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompts, err := deps.Store.ListPrompts()
			if err != nil {
				return fail(cmd, err)
			}
			printf(cmd, "%s\n", renderTitle("system prompts"))
			found := false
			for _, p := range prompts {
				if !p.IsDefault {
					continue
				}
				found = true
				printf(cmd, "  %s  %s\n", p.ID, p.Name)
			}
			if !found {
				printf(cmd, "%s\n", renderMuted("none"))
			}
			return nil
		},
	}
}
