package cmd

import (
	"fmt"
	"os"

	"github.com/agentic-research/shortcuts/internal/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg *config.Config
	log *log.Logger
}

// NewRootCmd builds the command tree. Each call returns an independent
// tree so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "shortcuts",
		Short:         "Library menu nodes and skin property overrides",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger, err := cfg.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, logger
			logger.Debug("loaded config", "path", configPath, "profile", cfg.ProfileDir, "data", cfg.DataDir)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to the HCL config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log_level (debug, info, warn, error)")

	root.AddCommand(
		newNodesCmd(a),
		newNodeCmd(a),
		newLintCmd(a),
		newPropsCmd(a),
		newMenuCmd(a),
		newReloadCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}
