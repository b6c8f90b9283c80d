package cmd

import (
	"fmt"

	"github.com/agentic-research/shortcuts/internal/control"
	"github.com/spf13/cobra"
)

func newReloadCmd(a *app) *cobra.Command {
	reloadCmd := &cobra.Command{
		Use:   "reload",
		Short: "Inspect or acknowledge the menu reload signal",
	}

	withControl := func(fn func(cmd *cobra.Command, ctl *control.Controller) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctl, err := control.OpenOrCreate(a.cfg.ControlFile)
			if err != nil {
				return err
			}
			defer func() { _ = ctl.Close() }() // ignore
			return fn(cmd, ctl)
		}
	}

	reloadCmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Print whether a menu reload is pending",
			Args:  cobra.NoArgs,
			RunE: withControl(func(cmd *cobra.Command, ctl *control.Controller) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "pending=%t generation=%d\n", ctl.ReloadRequested(), ctl.Generation())
				return err
			}),
		},
		&cobra.Command{
			Use:   "request",
			Short: "Mark the menu stale",
			Args:  cobra.NoArgs,
			RunE: withControl(func(cmd *cobra.Command, ctl *control.Controller) error {
				return ctl.RequestReload()
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Acknowledge a pending reload",
			Args:  cobra.NoArgs,
			RunE: withControl(func(cmd *cobra.Command, ctl *control.Controller) error {
				ctl.ClearReload()
				a.log.Debug("reload cleared", "control", ctl.Path())
				return nil
			}),
		},
	)
	return reloadCmd
}
