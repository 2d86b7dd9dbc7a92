// ABOUTME: Root Cobra command and global state for the gratitude CLI.
// ABOUTME: Sets up lifecycle hooks for config loading, logging, and the API client.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/2389-research/gratitude/internal/api"
	"github.com/2389-research/gratitude/internal/config"
	"github.com/2389-research/gratitude/internal/logging"
)

var globalConfig *config.Config
var globalClient *api.Client
var globalLog = zerolog.Nop()
var globalLogCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "gratitude",
	Short: "A gratitude journal for your terminal",
	Long: `
   GRATITUDE

Write, browse, and delete gratitude journal entries stored behind
a remote journal API. Run without a subcommand to open the browser.`,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalLogCloser != nil {
			_ = globalLogCloser.Close()
			globalLogCloser = nil
		}
		return nil
	},
	RunE: runBrowse,
}

// The pre-run hook is attached in init because it refers back to rootCmd
// (via logsToFile), which would otherwise form an initialization cycle.
func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE
}

func rootPersistentPreRunE(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	globalConfig = cfg

	// Full-screen and stdio commands own the terminal, so they log to a file.
	if logsToFile(cmd) {
		path, err := cfg.LogFilePath()
		if err != nil {
			return fmt.Errorf("failed to resolve log file: %w", err)
		}
		log, closer, err := logging.NewFile(path, cfg.Log.Level)
		if err != nil {
			return err
		}
		globalLog = log
		globalLogCloser = closer
	} else {
		globalLog = logging.NewConsole(os.Stderr, cfg.Log.Level)
	}

	if cmd.Name() == "serve" {
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	globalClient = api.NewClient(cfg.API.URL, cfg.API.Key, api.WithLogger(globalLog))
	globalLog.Debug().Str("api_url", cfg.API.URL).Str("command", cmd.Name()).Msg("client ready")

	return nil
}

func logsToFile(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd.Name() == "browse" || cmd.Name() == "mcp"
}
