package cmd

// #region imports
import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crisis-detection/threshold-tuner/internal/replay"
)

// #endregion

// #region replay-command

var replayOut string

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay a recorded session through the execution engine",
	Long: `replay runs a recorded fixture's canned classifier responses through the
execution engine, entirely offline. When the fixture carries expected
results, each mismatch is reported and the command exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayOut, "out", "o", "", "Write the replayed suite result JSON to this file (default: stdout)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	_, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	fixture, err := replay.LoadFixture(args[0])
	if err != nil {
		return err
	}

	suite, err := replay.Run(cmd.Context(), fixture, logger)
	if err != nil {
		return err
	}
	if err := writeJSON(replayOut, suite); err != nil {
		return err
	}

	if mismatches := replay.Verify(fixture, suite); len(mismatches) > 0 {
		for _, m := range mismatches {
			fmt.Fprintln(cmd.ErrOrStderr(), "mismatch:", m)
		}
		return fmt.Errorf("replay diverged from fixture expectations: %d mismatch(es)", len(mismatches))
	}
	return nil
}

// #endregion
