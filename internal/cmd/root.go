// Package cmd wires the CLI surface. Commands stay thin: they resolve
// configuration, construct the engines, and print results; every decision
// lives in the internal packages they call.
package cmd

// #region imports
import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crisis-detection/threshold-tuner/internal/config"
	"github.com/crisis-detection/threshold-tuner/internal/logging"
)

// #endregion

// #region root

var (
	configPath string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "tuner",
	Short: "Validate and tune the crisis-detection classifier",
	Long: `tuner runs a phrase corpus against the crisis-detection classifier's HTTP
API, seals the results into a suite report, and derives ranked threshold
recommendations from the failure patterns. It never modifies the classifier's
live configuration; recommended overrides are printed for an operator to
apply.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the tuner YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

// #endregion

// #region setup

// setup resolves configuration and builds the logger shared by all commands.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Debug || debugMode)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// #endregion
