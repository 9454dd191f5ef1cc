// Package cli implements the simpleci command line: the API server, database
// maintenance and offline metrics reports.
package cli

import (
	"github.com/haatos/simple-ci-metrics/internal"
	"github.com/haatos/simple-ci-metrics/internal/logger"
	"github.com/haatos/simple-ci-metrics/internal/settings"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile   string
	logLevel  string
	logFormat string
}

func NewRootCommand() *cobra.Command {
	opts := new(rootOptions)

	cmd := &cobra.Command{
		Use:           "simpleci",
		Short:         "Build history metrics for simple-ci",
		Long:          "simpleci records the build history of CI jobs and computes duration and stability metrics over it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.ReadDotenv(opts.envFile); err != nil {
				return err
			}
			settings.Settings = settings.NewSettings()
			if cmd.Flags().Changed("log-level") {
				settings.Settings.LogLevel = opts.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				settings.Settings.LogFormat = opts.logFormat
			}
			logger.Setup(settings.Settings.LogLevel, settings.Settings.LogFormat)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", internal.DotEnvPath, "dotenv file to load")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	cmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newAPIKeyCommand(),
		newReportCommand(),
		newHistoryCommand(),
	)
	return cmd
}
