package config

// #region imports
import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisis-detection/threshold-tuner/internal/thresholds"
)

// #endregion

// #region defaults

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "consensus", cfg.EnsembleMode)
	assert.Equal(t, "corpus", cfg.CorpusDir)
	assert.Equal(t, "http://localhost:8000", cfg.Classifier.BaseURL)
	assert.Equal(t, 3, cfg.Classifier.RetryAttempts)
	assert.InDelta(t, 20.0, cfg.Engine.HaltThresholdCritical, 1e-9)
	assert.InDelta(t, 60.0, cfg.Engine.HaltThresholdNonCritical, 1e-9)
}

// #endregion

// #region load

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := writeConfigFile(t, `
ensemble_mode: weighted
corpus_dir: testdata/corpus
classifier:
  base_url: http://classifier.internal:9000
  analyze_timeout_ms: 2000
engine:
  halt_threshold_critical: 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, thresholds.ModeWeighted, cfg.Mode())
	assert.Equal(t, "testdata/corpus", cfg.CorpusDir)
	assert.Equal(t, "http://classifier.internal:9000", cfg.Classifier.BaseURL)
	assert.InDelta(t, 25.0, cfg.Engine.HaltThresholdCritical, 1e-9)

	// Unset file keys keep their defaults.
	assert.Equal(t, 3, cfg.Classifier.RetryAttempts)
	assert.InDelta(t, 60.0, cfg.Engine.HaltThresholdNonCritical, 1e-9)

	cc := cfg.ClientConfig()
	assert.Equal(t, 2*time.Second, cc.AnalyzeTimeout)
}

func TestLoadEnvOverridesWinOverFile(t *testing.T) {
	path := writeConfigFile(t, "ensemble_mode: weighted\n")
	t.Setenv("TUNER_ENSEMBLE_MODE", "majority")
	t.Setenv("TUNER_BASE_URL", "http://override:8000")
	t.Setenv("TUNER_HALT_CRITICAL", "15")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, thresholds.ModeMajority, cfg.Mode())
	assert.Equal(t, "http://override:8000", cfg.Classifier.BaseURL)
	assert.InDelta(t, 15.0, cfg.Engine.HaltThresholdCritical, 1e-9)
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	path := writeConfigFile(t, "ensemble_mode: ensemble\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown ensemble mode")
}

func TestLoadRejectsMalformedHaltOverride(t *testing.T) {
	t.Setenv("TUNER_HALT_CRITICAL", "twenty")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// #endregion
