package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/depstate/internal/config"
	"github.com/vango-dev/depstate/internal/errors"
	"github.com/vango-dev/depstate/pkg/reactive"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli holds state shared by subcommands, resolved before each run.
type cli struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "depstate",
		Short: "Replay and inspect dependency-reset component state",
		Long: `depstate drives a component that keeps its state in a
UseStateWithDeps hook: the state is local and updatable, and is reset
whenever the hook's dependency list changes.

Scenario files script renders, updates and unmounts against that
component and check the observed state after each step.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: depstate.json or depstate.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable hook order validation and debug logging")

	rootCmd.AddCommand(
		replayCmd(c),
		compareCmd(),
		versionCmd(),
	)

	return rootCmd
}

func (c *cli) load(cmd *cobra.Command) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(c.configPath)
	} else {
		c.cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}

	if c.debug {
		c.cfg.Debug = true
	}
	reactive.DebugMode = c.cfg.Debug

	c.logger = c.cfg.NewLogger(cmd.ErrOrStderr())
	if path := c.cfg.Path(); path != "" {
		c.logger.Debug("loaded config", slog.String("path", path))
	}
	return nil
}
