package replay

// #region imports
import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/crisis-detection/threshold-tuner/internal/classifier"
	"github.com/crisis-detection/threshold-tuner/internal/engine"
	"github.com/crisis-detection/threshold-tuner/internal/priority"
)

// #endregion

// #region scripted-analyzer

// ScriptedAnalyzer replays canned classifier behavior keyed by phrase text.
// It satisfies the engine's Analyzer interface; unscripted phrases surface as
// analyze errors rather than silent passes.
type ScriptedAnalyzer struct {
	unhealthy bool
	responses map[string]scriptedResponse
}

type scriptedResponse struct {
	analysis classifier.Analysis
	fail     bool
}

// NewScriptedAnalyzer builds the analyzer from a fixture's recorded phrases.
func NewScriptedAnalyzer(f Fixture) (*ScriptedAnalyzer, error) {
	a := &ScriptedAnalyzer{
		unhealthy: f.Unhealthy,
		responses: make(map[string]scriptedResponse),
	}
	for _, fc := range f.Categories {
		for _, fp := range fc.Phrases {
			if fp.Error {
				a.responses[fp.Text] = scriptedResponse{fail: true}
				continue
			}
			if fp.Response == nil {
				return nil, fmt.Errorf("fixture category %s: phrase %q has neither response nor error", fc.Name, fp.Text)
			}
			level, err := priority.Parse(fp.Response.Level)
			if err != nil {
				return nil, fmt.Errorf("fixture category %s: %w", fc.Name, err)
			}
			a.responses[fp.Text] = scriptedResponse{
				analysis: classifier.Analysis{
					Priority:   level,
					Confidence: fp.Response.Confidence,
					LatencyMs:  fp.Response.LatencyMs,
				},
			}
		}
	}
	return a, nil
}

// HealthCheck reports the scripted health state.
func (a *ScriptedAnalyzer) HealthCheck(ctx context.Context) error {
	if a.unhealthy {
		return fmt.Errorf("scripted health failure: %w", classifier.ErrUnhealthy)
	}
	return nil
}

// Analyze returns the canned result for the phrase.
func (a *ScriptedAnalyzer) Analyze(ctx context.Context, text string) (classifier.Analysis, error) {
	r, ok := a.responses[text]
	if !ok {
		return classifier.Analysis{}, fmt.Errorf("no scripted response for phrase %q", text)
	}
	if r.fail {
		return classifier.Analysis{}, fmt.Errorf("scripted analyze failure for phrase %q", text)
	}
	return r.analysis, nil
}

// #endregion

// #region run

// Run replays the fixture through the execution engine and returns the sealed
// suite result. Operates entirely in-memory.
func Run(ctx context.Context, f Fixture, logger *zap.Logger) (*engine.SuiteResult, error) {
	analyzer, err := NewScriptedAnalyzer(f)
	if err != nil {
		return nil, err
	}
	categories, err := f.Corpus()
	if err != nil {
		return nil, err
	}
	eng := engine.New(analyzer, f.EngineConfig(), logger)
	return eng.Run(ctx, categories)
}

// #endregion

// #region verify

// Verify compares a replayed suite against the fixture's expected results and
// returns one message per mismatch. An empty slice means the replay matched.
func Verify(f Fixture, suite *engine.SuiteResult) []string {
	byName := make(map[string]engine.CategoryResult, len(suite.Categories))
	for _, cr := range suite.Categories {
		byName[cr.Spec.Name] = cr
	}

	var mismatches []string
	for _, exp := range f.Expected {
		cr, ok := byName[exp.Category]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("category %s: expected in results, not found", exp.Category))
			continue
		}
		if cr.Passed != exp.Passed {
			mismatches = append(mismatches, fmt.Sprintf("category %s: passed %d, expected %d", exp.Category, cr.Passed, exp.Passed))
		}
		if cr.Failed != exp.Failed {
			mismatches = append(mismatches, fmt.Sprintf("category %s: failed %d, expected %d", exp.Category, cr.Failed, exp.Failed))
		}
		if cr.Errors != exp.Errors {
			mismatches = append(mismatches, fmt.Sprintf("category %s: errors %d, expected %d", exp.Category, cr.Errors, exp.Errors))
		}
		if cr.Complete != exp.Complete {
			mismatches = append(mismatches, fmt.Sprintf("category %s: complete %t, expected %t", exp.Category, cr.Complete, exp.Complete))
		}
		if cr.GoalMet != exp.GoalMet {
			mismatches = append(mismatches, fmt.Sprintf("category %s: goal_met %t, expected %t", exp.Category, cr.GoalMet, exp.GoalMet))
		}
	}
	return mismatches
}

// #endregion
