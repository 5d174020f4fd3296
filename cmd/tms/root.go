package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cxd309/gotms/internal/config"
	"github.com/cxd309/gotms/internal/scenario"
	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/network"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	enginePath string
	bundleDirs []string
	timeout    time.Duration

	cfg config.Config
}

// newRootCmd builds the command tree. Each call returns a fresh tree with its
// own flag state.
func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "tms",
		Short:        "Build and run transport-network microsimulations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.StringVar(&a.enginePath, "engine", "", "Path to the tms-engine binary; disables the bundled and PATH lookup")
	flags.StringSliceVar(&a.bundleDirs, "bundle-dir", nil, "Directories searched for the bundled engine binary")
	flags.DurationVar(&a.timeout, "timeout", 0, "Kill the engine after this long (0 = no limit)")

	rootCmd.AddCommand(
		a.runCmd(),
		a.requestCmd(),
		a.validateCmd(),
		a.whichCmd(),
		a.geojsonCmd(),
		a.importOSMCmd(),
	)
	return rootCmd
}

// setup loads the config file, applies explicitly set flags over it and
// configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("engine") {
		cfg.EnginePath = a.enginePath
	}
	if flags.Changed("bundle-dir") {
		cfg.BundleDirs = a.bundleDirs
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)
	logrus.SetOutput(cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

// runContext applies the configured timeout, if any.
func (a *app) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(parent, a.cfg.Timeout)
	}
	return context.WithCancel(parent)
}

// loadNetwork reads a scenario and builds its network on the configured engine.
func (a *app) loadNetwork(path string) (*scenario.Scenario, *network.Network, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, nil, err
	}
	runner := engine.NewSubprocess(a.cfg.Resolver(), logrus.StandardLogger())
	net := sc.Network(network.WithRunner(runner))
	logrus.WithFields(logrus.Fields{
		"scenario": path,
		"nodes":    net.NumNodes(),
		"edges":    net.NumEdges(),
		"services": len(sc.Services),
	}).Debug("scenario loaded")
	return sc, net, nil
}
