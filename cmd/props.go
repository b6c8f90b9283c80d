package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/shortcuts/internal/props"
	"github.com/agentic-research/shortcuts/internal/store"
	"github.com/spf13/cobra"
)

func newPropsCmd(a *app) *cobra.Command {
	propsCmd := &cobra.Command{
		Use:   "props",
		Short: "Manage additional menu entry properties",
	}

	var (
		properties string
		values     string
		labelIDs   string
		group      string
		yes        bool
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set one or more properties on menu entries",
		Long: `Set assigns values to properties of menu entries and drops every property
whose requirement is no longer set. Fields are |-separated. Without --yes
the change is only described.`,
		Example: `  shortcuts props set --properties widget|widgetName --values Movies|Recent --label-id movies --yes`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			change := props.ParseChange(properties, values, labelIDs, group)
			if !yes {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), summary(change))
				return err
			}

			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }() // ignore
			if err := s.merger.Apply(cmd.Context(), change); err != nil {
				return err
			}
			a.log.Info("properties applied", "count", len(change.Properties), "generation", s.ctl.Generation())
			return nil
		},
	}
	setCmd.Flags().StringVar(&properties, "properties", "", "|-separated property names")
	setCmd.Flags().StringVar(&values, "values", "", "|-separated values, paired with --properties")
	setCmd.Flags().StringVar(&labelIDs, "label-id", "", "Entry label id, or one |-separated id per property")
	setCmd.Flags().StringVar(&group, "group", "", "Menu group (default mainmenu)")
	setCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without asking")
	_ = setCmd.MarkFlagRequired("properties")
	_ = setCmd.MarkFlagRequired("label-id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored properties, or the skin defaults when none are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(a.cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }() // ignore

			records, err := db.Load(cmd.Context())
			if errors.Is(err, store.ErrNoProperties) {
				a.log.Debug("no stored properties, showing skin defaults", "database", db.Path())
				records, err = a.documents().DefaultProperties()
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderRecords(records))
			return err
		},
	}

	propsCmd.AddCommand(setCmd, listCmd)
	return propsCmd
}

// summary renders the confirmation text of change for a terminal, or a
// hint when the change would do nothing.
func summary(change props.Change) string {
	if s := props.Summary(change); s != "" {
		return strings.ReplaceAll(s, "[CR]", " ") + " (pass --yes to apply)"
	}
	return hintStyle.Render("nothing to set")
}
