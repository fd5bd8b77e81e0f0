package cmd

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crisis-detection/threshold-tuner/internal/engine"
	"github.com/crisis-detection/threshold-tuner/internal/thresholds"
	"github.com/crisis-detection/threshold-tuner/internal/tuning"
)

// #endregion

// #region recommend-command

var (
	recommendSuite     string
	recommendMode      string
	recommendOut       string
	recommendOverrides bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Derive ranked threshold recommendations from a suite result",
	Long: `recommend reads a sealed suite result JSON, attributes each failing
category's dominant failure pattern to the threshold variables active under
the ensemble mode, and emits a graded, priority-ordered recommendation
report. With --overrides the report is rendered as an env-file override
block for an operator to apply.`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVarP(&recommendSuite, "suite", "s", "", "Path to the suite result JSON (required)")
	recommendCmd.Flags().StringVarP(&recommendMode, "mode", "m", "", "Ensemble mode (overrides config)")
	recommendCmd.Flags().StringVarP(&recommendOut, "out", "o", "", "Write the report JSON to this file (default: stdout)")
	recommendCmd.Flags().BoolVar(&recommendOverrides, "overrides", false, "Print the env-file override block instead of report JSON")
	recommendCmd.MarkFlagRequired("suite")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	data, err := os.ReadFile(recommendSuite)
	if err != nil {
		return fmt.Errorf("read suite result: %w", err)
	}
	var suite engine.SuiteResult
	if err := json.Unmarshal(data, &suite); err != nil {
		return fmt.Errorf("parse suite result %s: %w", recommendSuite, err)
	}

	mode := cfg.Mode()
	if recommendMode != "" {
		if mode, err = thresholds.ParseMode(recommendMode); err != nil {
			return err
		}
	}

	catalog := thresholds.Defaults()
	if cfg.ThresholdsFile != "" {
		if catalog, err = thresholds.Load(cfg.ThresholdsFile); err != nil {
			return err
		}
	}

	report, err := tuning.New(catalog, logger).Analyze(&suite, mode)
	if err != nil {
		return err
	}

	if recommendOverrides {
		fmt.Print(tuning.RenderOverrides(report))
		return nil
	}
	return writeJSON(recommendOut, report)
}

// #endregion
