package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNodesCmd(a *app) *cobra.Command {
	nodesCmd := &cobra.Command{
		Use:   "nodes",
		Short: "Resolve the menu nodes of a library location",
	}

	var prefix string
	listCmd := &cobra.Command{
		Use:   "list [library path]",
		Short: "List the immediate nodes below a library location",
		Example: `  shortcuts nodes list library://video/
  shortcuts nodes list videodb://movies/ --prefix library://video/movies/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, dir, target, err := a.walker(args[0])
			if err != nil {
				return err
			}
			if prefix != "" {
				target = prefix
			}
			set, err := engine.ListNodes(dir, target)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderNodes(set))
			return err
		},
	}
	listCmd.Flags().StringVar(&prefix, "prefix", "", "Target prefix for the listed nodes (default: the location itself)")

	treeCmd := &cobra.Command{
		Use:   "tree [library path]",
		Short: "Print every node below a library location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, dir, target, err := a.walker(args[0])
			if err != nil {
				return err
			}
			tree, err := engine.ListTree(dir, target)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderTree(tree))
			return err
		},
	}

	nodesCmd.AddCommand(listCmd, treeCmd)
	return nodesCmd
}

func newNodeCmd(a *app) *cobra.Command {
	nodeCmd := &cobra.Command{
		Use:   "node",
		Short: "Inspect the view behind a single library path",
	}

	nodeCmd.AddCommand(
		&cobra.Command{
			Use:   "visibility [library path]",
			Short: "Print the visible condition of a view",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.resolver().Visibility(args[0]))
				return err
			},
		},
		&cobra.Command{
			Use:   "mediatype [library path]",
			Short: "Print the media type of a view",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.resolver().MediaType(args[0]))
				return err
			},
		},
		&cobra.Command{
			Use:   "grouped [view path]",
			Short: "Report whether a leaf view declares a <group>",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.resolver().IsGrouped(args[0]))
				return err
			},
		},
	)
	return nodeCmd
}
