package cmd

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crisis-detection/threshold-tuner/internal/classifier"
	"github.com/crisis-detection/threshold-tuner/internal/corpus"
	"github.com/crisis-detection/threshold-tuner/internal/engine"
)

// #endregion

// #region run-command

var (
	runCorpusDir string
	runOut       string
	runTrigger   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the phrase corpus against the live classifier",
	Long: `run loads the corpus categories, health-checks the classifier, evaluates
every phrase sequentially, and writes the sealed suite result as JSON. An
unhealthy classifier aborts before any phrase is sent. Ctrl-C seals whatever
has been evaluated so far as an early-terminated suite.`,
	RunE: runSuite,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runCorpusDir, "corpus", "", "Corpus directory (overrides config)")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Write the suite result JSON to this file (default: stdout)")
	runCmd.Flags().StringVar(&runTrigger, "trigger", "", "Trigger label recorded on the suite (overrides config)")
}

func runSuite(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	corpusDir := cfg.CorpusDir
	if runCorpusDir != "" {
		corpusDir = runCorpusDir
	}
	categories, err := corpus.LoadDir(corpusDir)
	if err != nil {
		return err
	}
	logger.Info("corpus loaded",
		zap.String("dir", corpusDir),
		zap.Int("categories", len(categories)))

	engineConfig := cfg.EngineConfig()
	if runTrigger != "" {
		engineConfig.Trigger = runTrigger
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := classifier.NewClient(cfg.ClientConfig(), logger)
	suite, err := engine.New(client, engineConfig, logger).Run(ctx, categories)
	if err != nil {
		return err
	}
	return writeJSON(runOut, suite)
}

// #endregion

// #region write-json

// writeJSON emits v as indented JSON to path, or stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// #endregion
