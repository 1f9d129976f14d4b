package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/senzor/pkg/config"
	"github.com/dmitrymomot/senzor/pkg/logger"
	"github.com/dmitrymomot/senzor/pkg/session"
)

type rootFlags struct {
	debug     bool
	logFormat string
	envFiles  []string
	device    deviceFlags

	format logger.Format
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "senzor-sim",
		Short: "Simulate visits tracked by the senzor agent",
		Long: `senzor-sim runs the senzor agent on a headless page and replays a scripted
journey against it. Visitor identity is kept in a local SQLite file or in
Redis, so repeated runs behave like repeated visits from the same device.`,
		Example: `  senzor-sim visit --web-id w1 https://site.example/a wait=45s hide wait=5m show wait=10s close
  senzor-sim identity --device laptop
  senzor-sim forget --device laptop`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			format, err := logger.ParseFormat(flags.logFormat)
			if err != nil {
				return err
			}
			flags.format = format
			if len(flags.envFiles) > 0 {
				return config.LoadEnv(flags.envFiles...)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", string(logger.FormatText), "Log format: text or json")
	cmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, "Load environment variables from file")
	flags.device.register(cmd)

	cmd.AddCommand(newVisitCmd(&flags))
	cmd.AddCommand(newIdentityCmd(&flags))
	cmd.AddCommand(newForgetCmd(&flags))

	return cmd
}

func (f *rootFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	return logger.New(
		logger.WithFormat(f.format),
		logger.WithLevel(level),
		logger.WithOutput(w),
		logger.WithContextExtractors(session.LogExtractor),
	)
}
