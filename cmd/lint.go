package cmd

import (
	"fmt"

	"github.com/agentic-research/shortcuts/internal/library"
	"github.com/agentic-research/shortcuts/internal/linter"
	"github.com/spf13/cobra"
)

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [library path]",
		Short: "Check the view definitions below a library location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, ok := library.Normalize(args[0])
			if !ok {
				return fmt.Errorf("not a library path: %q", args[0])
			}
			diags, err := linter.LintDir(a.resolver().Root(loc.Library), loc.Dir())
			if err != nil {
				return err
			}
			for _, d := range diags {
				fmt.Fprintln(cmd.OutOrStdout(), d.String())
			}
			if len(diags) > 0 {
				return fmt.Errorf("%d problem(s) in %s", len(diags), loc)
			}
			return nil
		},
	}
}
