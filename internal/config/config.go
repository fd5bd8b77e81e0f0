// Package config resolves the tuner's runtime configuration once at startup:
// typed defaults, overlaid by an optional YAML file, overlaid by explicit
// named environment overrides. The resolved value is immutable; nothing
// re-reads configuration per call.
package config

// #region imports
import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/crisis-detection/threshold-tuner/internal/classifier"
	"github.com/crisis-detection/threshold-tuner/internal/engine"
	"github.com/crisis-detection/threshold-tuner/internal/thresholds"
)

// #endregion

// #region config

// Config is the resolved runtime configuration for one run.
type Config struct {
	EnsembleMode   string           `yaml:"ensemble_mode"`
	CorpusDir      string           `yaml:"corpus_dir"`
	ThresholdsFile string           `yaml:"thresholds_file"`
	Debug          bool             `yaml:"debug"`
	Classifier     ClassifierConfig `yaml:"classifier"`
	Engine         EngineConfig     `yaml:"engine"`
}

// ClassifierConfig mirrors classifier.ClientConfig with YAML tags and
// millisecond durations.
type ClassifierConfig struct {
	BaseURL             string `yaml:"base_url"`
	AnalyzeTimeoutMs    int    `yaml:"analyze_timeout_ms"`
	HealthTimeoutMs     int    `yaml:"health_timeout_ms"`
	RetryAttempts       int    `yaml:"retry_attempts"`
	RetryBackoffMs      int    `yaml:"retry_backoff_ms"`
	InterRequestDelayMs int    `yaml:"inter_request_delay_ms"`
	UserID              string `yaml:"user_id"`
	ChannelID           string `yaml:"channel_id"`
}

// EngineConfig mirrors engine.Config with YAML tags.
type EngineConfig struct {
	HaltThresholdCritical    float64 `yaml:"halt_threshold_critical"`
	HaltThresholdNonCritical float64 `yaml:"halt_threshold_noncritical"`
	Environment              string  `yaml:"environment"`
	Trigger                  string  `yaml:"trigger"`
}

// #endregion

// #region defaults

// Default returns the built-in configuration tier.
func Default() Config {
	cc := classifier.DefaultClientConfig()
	ec := engine.DefaultConfig()
	return Config{
		EnsembleMode:   string(thresholds.ModeConsensus),
		CorpusDir:      "corpus",
		ThresholdsFile: "",
		Classifier: ClassifierConfig{
			BaseURL:             cc.BaseURL,
			AnalyzeTimeoutMs:    int(cc.AnalyzeTimeout / time.Millisecond),
			HealthTimeoutMs:     int(cc.HealthTimeout / time.Millisecond),
			RetryAttempts:       cc.RetryAttempts,
			RetryBackoffMs:      int(cc.RetryBackoff / time.Millisecond),
			InterRequestDelayMs: int(cc.InterRequestDelay / time.Millisecond),
			UserID:              cc.UserID,
			ChannelID:           cc.ChannelID,
		},
		Engine: EngineConfig{
			HaltThresholdCritical:    ec.HaltThresholdCritical,
			HaltThresholdNonCritical: ec.HaltThresholdNonCritical,
			Environment:              ec.Environment,
			Trigger:                  ec.Trigger,
		},
	}
}

// #endregion

// #region load

// Load resolves the three tiers. path may be empty (defaults + env only).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if _, err := thresholds.ParseMode(cfg.EnsembleMode); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides overlays the explicit named environment overrides.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TUNER_BASE_URL"); v != "" {
		cfg.Classifier.BaseURL = v
	}
	if v := os.Getenv("TUNER_ENSEMBLE_MODE"); v != "" {
		cfg.EnsembleMode = v
	}
	if v := os.Getenv("TUNER_CORPUS_DIR"); v != "" {
		cfg.CorpusDir = v
	}
	if v := os.Getenv("TUNER_THRESHOLDS_FILE"); v != "" {
		cfg.ThresholdsFile = v
	}
	if v := os.Getenv("TUNER_DEBUG"); v != "" {
		cfg.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("TUNER_HALT_CRITICAL"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TUNER_HALT_CRITICAL: %w", err)
		}
		cfg.Engine.HaltThresholdCritical = f
	}
	if v := os.Getenv("TUNER_HALT_NONCRITICAL"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TUNER_HALT_NONCRITICAL: %w", err)
		}
		cfg.Engine.HaltThresholdNonCritical = f
	}
	return nil
}

// #endregion

// #region conversions

// ClientConfig converts to the adapter's config type.
func (c Config) ClientConfig() classifier.ClientConfig {
	return classifier.ClientConfig{
		BaseURL:           c.Classifier.BaseURL,
		AnalyzeTimeout:    time.Duration(c.Classifier.AnalyzeTimeoutMs) * time.Millisecond,
		HealthTimeout:     time.Duration(c.Classifier.HealthTimeoutMs) * time.Millisecond,
		RetryAttempts:     c.Classifier.RetryAttempts,
		RetryBackoff:      time.Duration(c.Classifier.RetryBackoffMs) * time.Millisecond,
		InterRequestDelay: time.Duration(c.Classifier.InterRequestDelayMs) * time.Millisecond,
		UserID:            c.Classifier.UserID,
		ChannelID:         c.Classifier.ChannelID,
	}
}

// EngineConfig converts to the engine's config type.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		HaltThresholdCritical:    c.Engine.HaltThresholdCritical,
		HaltThresholdNonCritical: c.Engine.HaltThresholdNonCritical,
		Environment:              c.Engine.Environment,
		Trigger:                  c.Engine.Trigger,
	}
}

// Mode returns the validated ensemble mode.
func (c Config) Mode() thresholds.Mode {
	m, _ := thresholds.ParseMode(c.EnsembleMode)
	return m
}

// #endregion
