// Package main is the entry point for the Tasklet backend. It runs as a
// sidecar of the UI host (serve) and offers maintenance subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/config"
	"github.com/Guliveer/tasklet/internal/logging"
	"github.com/Guliveer/tasklet/internal/paths"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath string
	cliFlags   config.CLIOverrides
)

var rootCmd = &cobra.Command{
	Use:           "tasklet",
	Short:         "Backend for the Tasklet desktop to-do list",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// app is what every subcommand needs.
type app struct {
	cfg    *config.Config
	paths  paths.Paths
	logger *zap.Logger
}

// bootstrap loads configuration, builds the logger and resolves data paths.
// Logs always go to stderr: stdout carries protocol messages or command output.
func bootstrap(cmd *cobra.Command) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadLayered(cliFlags, embeddedConfig, configPath)
	} else {
		cfg, err = config.LoadLayered(cliFlags, embeddedConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: os.Stderr,
	})

	p, err := paths.Resolve(cfg.DataDir)
	if err != nil {
		logger.Error("Cannot resolve data directory", zap.Error(err))
		return nil, err
	}
	return &app{cfg: cfg, paths: p, logger: logger}, nil
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to configuration file (default: auto-discover)")
	pf.StringVar(&cliFlags.DataDir, "data-dir", "", "Directory for todos.json and window.json")
	pf.StringVar(&cliFlags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&cliFlags.LogFile, "log-file", "", "Also write JSON logs to this file")
	pf.StringVar(&cliFlags.AutostartTarget, "autostart-target", "", "Absolute path of the program to launch at login (serve defaults to the UI host)")

	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartDisableCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
	todosCmd.AddCommand(todosListCmd)
	windowCmd.AddCommand(windowShowCmd)
	windowCmd.AddCommand(windowResetCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(autostartCmd)
	rootCmd.AddCommand(todosCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
