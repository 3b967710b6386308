package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-discussion-pager/internal/logging"
	"github.com/goliatone/go-discussion-pager/settings"
)

var (
	settingsPath string
	envFile      string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:     "forumpager",
	Short:   "forumpager - numbered pagination for forum discussion lists",
	Long:    "forumpager serves a discussion list API and browses it page by page from the terminal.",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "pager.yaml", "Settings file (YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the settings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBrowseCmd())
}

func loadSettings() (settings.Settings, error) {
	return settings.Load(settingsPath, envFile)
}

func newLogger(cmd *cobra.Command, text bool) *slog.Logger {
	level := logging.ParseLevel(logLevel)
	if text {
		return logging.NewTextLogger(cmd.ErrOrStderr(), level)
	}
	return logging.NewLogger(cmd.ErrOrStderr(), level)
}
