package commands

import (
	"context"

	"github.com/spf13/cobra"

	"kekbit.dev/kekbit/internal/config"
	"kekbit.dev/kekbit/internal/logger"
	"kekbit.dev/kekbit/internal/telemetry"
)

var (
	cfgFile       string
	cfg           = config.Defaults()
	jsonLog       bool
	traceEnabled  bool
	traceShutdown func(context.Context) error
)

// Root builds the kekbit command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "kekbit",
		Short: "Inspect and drive ultralight persistent data channels",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(logger.Config{JSON: jsonLog})

			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded

			if traceEnabled {
				shutdown, err := telemetry.InitTracing("kekbit-cli")
				if err != nil {
					return err
				}
				traceShutdown = shutdown
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if traceShutdown == nil {
				return nil
			}
			return traceShutdown(context.Background())
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a kekbit config file (KEKBIT_* env vars also apply)")
	root.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "emit structured JSON logs instead of text")
	root.PersistentFlags().BoolVar(&traceEnabled, "trace", false, "emit OpenTelemetry spans (stdout exporter) around batch operations")
	root.AddCommand(createCmd, infoCmd, writeCmd, tailCmd)
	return root
}
