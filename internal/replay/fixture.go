// Package replay runs recorded classifier behavior through the execution
// engine without a live classifier: regression fixtures and offline what-if
// analysis against a previously observed response set.
package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/crisis-detection/threshold-tuner/internal/corpus"
	"github.com/crisis-detection/threshold-tuner/internal/engine"
	"github.com/crisis-detection/threshold-tuner/internal/priority"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay run.
type Fixture struct {
	Description string               `json:"description"`
	Mode        string               `json:"ensemble_mode"`
	Unhealthy   bool                 `json:"unhealthy,omitempty"`
	Engine      FixtureEngineConfig  `json:"engine_config"`
	Categories  []FixtureCategory    `json:"categories"`
	Expected    []FixtureExpectation `json:"expected_results,omitempty"`
}

// FixtureEngineConfig mirrors engine.Config with JSON tags. Zero thresholds
// fall back to the engine defaults.
type FixtureEngineConfig struct {
	HaltThresholdCritical    float64 `json:"halt_threshold_critical"`
	HaltThresholdNonCritical float64 `json:"halt_threshold_noncritical"`
}

// FixtureCategory mirrors corpus.Category with JSON tags, bundling the
// scripted classifier behavior per phrase.
type FixtureCategory struct {
	Name              string          `json:"name"`
	Kind              string          `json:"kind"`
	TargetPassRate    float64         `json:"target_pass_rate"`
	Critical          bool            `json:"critical"`
	Accepted          []string        `json:"accepted_priorities"`
	AllowEscalation   bool            `json:"allow_escalation"`
	AllowDeescalation bool            `json:"allow_deescalation"`
	Phrases           []FixturePhrase `json:"phrases"`
}

// FixturePhrase is one recorded interaction: the phrase plus the canned
// classifier response, or a scripted connectivity failure.
type FixturePhrase struct {
	Text     string           `json:"text"`
	Expected string           `json:"expected"`
	Error    bool             `json:"error,omitempty"`
	Response *FixtureResponse `json:"response,omitempty"`
}

// FixtureResponse is the canned analyze result.
type FixtureResponse struct {
	Level      string  `json:"crisis_level"`
	Confidence float64 `json:"confidence_score"`
	LatencyMs  float64 `json:"latency_ms"`
}

// FixtureExpectation captures the expected per-category outcome so a replay
// can double as a regression check.
type FixtureExpectation struct {
	Category string `json:"category"`
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`
	Errors   int    `json:"errors"`
	Complete bool   `json:"complete"`
	GoalMet  bool   `json:"goal_met"`
}

// #endregion

// #region load

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if _, err := f.Corpus(); err != nil {
		return Fixture{}, err
	}
	for _, fc := range f.Categories {
		for _, fp := range fc.Phrases {
			if !fp.Error && fp.Response == nil {
				return Fixture{}, fmt.Errorf("fixture category %s: phrase %q has neither response nor error", fc.Name, fp.Text)
			}
		}
	}
	return f, nil
}

// #endregion

// #region conversions

// Corpus converts the fixture's categories into validated corpus categories.
func (f Fixture) Corpus() ([]corpus.Category, error) {
	cats := make([]corpus.Category, 0, len(f.Categories))
	for _, fc := range f.Categories {
		accepted := make([]priority.Level, 0, len(fc.Accepted))
		for _, a := range fc.Accepted {
			l, err := priority.Parse(a)
			if err != nil {
				return nil, fmt.Errorf("fixture category %s: %w", fc.Name, err)
			}
			accepted = append(accepted, l)
		}

		phrases := make([]corpus.TestPhrase, 0, len(fc.Phrases))
		for _, fp := range fc.Phrases {
			exp, err := priority.Parse(fp.Expected)
			if err != nil {
				return nil, fmt.Errorf("fixture category %s: %w", fc.Name, err)
			}
			phrases = append(phrases, corpus.TestPhrase{Text: fp.Text, Expected: exp})
		}

		cat := corpus.Category{
			Spec: corpus.CategorySpec{
				Name:              fc.Name,
				Kind:              corpus.Kind(fc.Kind),
				TargetPassRate:    fc.TargetPassRate,
				IsCritical:        fc.Critical,
				Accepted:          accepted,
				AllowEscalation:   fc.AllowEscalation,
				AllowDeescalation: fc.AllowDeescalation,
			},
			Phrases: phrases,
		}
		if err := cat.Validate(); err != nil {
			return nil, fmt.Errorf("fixture: %w", err)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// EngineConfig converts the fixture's engine settings, falling back to
// defaults for unset thresholds.
func (f Fixture) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Trigger = "replay"
	if f.Engine.HaltThresholdCritical > 0 {
		cfg.HaltThresholdCritical = f.Engine.HaltThresholdCritical
	}
	if f.Engine.HaltThresholdNonCritical > 0 {
		cfg.HaltThresholdNonCritical = f.Engine.HaltThresholdNonCritical
	}
	return cfg
}

// #endregion
