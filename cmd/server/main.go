package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/delbertbeta/s-sso/config"
	"github.com/delbertbeta/s-sso/log"
)

var (
	cfg       *config.ServerConfig
	appLogger log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "s-sso",
	Short: "s-sso is a single sign-on identity provider",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}

		level, parseErr := log.ParseLevel(cfg.LogLevel)
		if parseErr != nil {
			level = zerolog.InfoLevel
		}
		appLogger = log.NewZerologAdapter(level, cfg.LogPretty)
		if parseErr != nil {
			appLogger.Warn(cmd.Context(), "Invalid LOG_LEVEL configured, defaulting to 'info'", log.Fields{
				"configured_log_level": cfg.LogLevel,
			})
		}
		return nil
	},
	// Running without a subcommand serves.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if appLogger != nil {
			appLogger.Error(context.Background(), "command failed", err)
		} else {
			fmt.Fprintln(os.Stderr, "s-sso:", err)
		}
		os.Exit(1)
	}
}
