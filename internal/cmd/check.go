package cmd

// #region imports
import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crisis-detection/threshold-tuner/internal/classifier"
)

// #endregion

// #region check-command

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Health-check the classifier endpoint",
	Long: `check calls the classifier's health endpoint once, using the configured
base URL and timeout, and exits non-zero when the classifier is unreachable
or reports anything other than healthy.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := classifier.NewClient(cfg.ClientConfig(), logger)
	if err := client.HealthCheck(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "classifier healthy at %s\n", cfg.Classifier.BaseURL)
	return nil
}

// #endregion
