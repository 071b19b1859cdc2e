// Package cli wires the redline command line: the HTTP server, schema
// migrations and offline tools for locating and repairing model output.
package cli

import (
	"fmt"
	"os"

	"redline-backend/config"
	"redline-backend/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	logLevelFlag string
	logPathFlag  string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "redline",
	Short: "Document critique backend",
	Long: `redline sends documents to a language model, repairs its structured
critique and anchors every comment onto character offsets of the text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevelFlag != "" {
			cfg.Logging.Level = logLevelFlag
		}
		if logPathFlag != "" {
			cfg.Logging.Path = logPathFlag
		}
		if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		appConfig = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logPathFlag, "log-file", "", "also write logs to this file (overrides config)")
}
