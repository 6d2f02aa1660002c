package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"skucheck/internal/config"
	apierrors "skucheck/internal/errors"
	"skucheck/internal/infrastructure"
)

var (
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Validate packaging quantities and prices of a product catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFile)
			if err != nil {
				return apierrors.NewConfigError("failed to load configuration", err)
			}
			if logLevel != "" {
				loaded.Logging.Level = logLevel
			}

			l, err := infrastructure.InitializeLogger(loaded.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cfg, logger = loaded, l
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return infrastructure.CloseLogFile()
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default ./config.yaml or $SKUCHECK_CONFIG)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(validateCmd(), batchCmd(), parseCmd(), serveCmd(), versionCmd())
	return root
}
