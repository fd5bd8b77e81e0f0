package tuning

// #region imports
import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crisis-detection/threshold-tuner/internal/corpus"
	"github.com/crisis-detection/threshold-tuner/internal/engine"
	"github.com/crisis-detection/threshold-tuner/internal/priority"
	"github.com/crisis-detection/threshold-tuner/internal/thresholds"
)

// #endregion

// #region fixtures

func passResult(level priority.Level, conf float64) engine.PhraseResult {
	return engine.PhraseResult{
		Expected:   level,
		Detected:   level,
		Confidence: conf,
		Outcome:    engine.OutcomePass,
		Failure:    engine.FailureNone,
	}
}

func failResult(expected, detected priority.Level, failure engine.FailureType, conf float64) engine.PhraseResult {
	return engine.PhraseResult{
		Expected:   expected,
		Detected:   detected,
		Confidence: conf,
		Outcome:    engine.OutcomeFail,
		Failure:    failure,
	}
}

func errorResult(expected priority.Level) engine.PhraseResult {
	return engine.PhraseResult{
		Expected: expected,
		Outcome:  engine.OutcomeError,
		Failure:  engine.FailureNone,
	}
}

func categoryResult(spec corpus.CategorySpec, results ...engine.PhraseResult) engine.CategoryResult {
	cr := engine.CategoryResult{Spec: spec, Results: results, Total: len(results), Complete: true}
	for _, r := range results {
		switch r.Outcome {
		case engine.OutcomePass:
			cr.Passed++
		case engine.OutcomeFail:
			cr.Failed++
		case engine.OutcomeError:
			cr.Errors++
		}
	}
	if cr.Total > 0 {
		cr.PassRate = float64(cr.Passed) / float64(cr.Total) * 100.0
	}
	cr.GoalMet = cr.PassRate >= spec.TargetPassRate
	return cr
}

func definiteHighSpec() corpus.CategorySpec {
	return corpus.CategorySpec{
		Name:           "crisis_high_direct",
		Kind:           corpus.KindDefinite,
		TargetPassRate: 90,
		IsCritical:     true,
		Accepted:       []priority.Level{priority.High},
	}
}

func definiteNoneSpec() corpus.CategorySpec {
	return corpus.CategorySpec{
		Name:           "benign_none",
		Kind:           corpus.KindDefinite,
		TargetPassRate: 95,
		Accepted:       []priority.Level{priority.None},
	}
}

func maybeMediumLowSpec() corpus.CategorySpec {
	return corpus.CategorySpec{
		Name:              "distress_medium_low",
		Kind:              corpus.KindMaybe,
		TargetPassRate:    70,
		Accepted:          []priority.Level{priority.Medium, priority.Low},
		AllowEscalation:   true,
	}
}

// #endregion

// #region pattern-detection

func TestDetectPattern(t *testing.T) {
	tests := []struct {
		name string
		cr   engine.CategoryResult
		want Pattern
	}{
		{
			name: "critical category with any false negative",
			cr: categoryResult(definiteHighSpec(),
				failResult(priority.High, priority.Medium, engine.FailureFalseNegative, 0.6),
				failResult(priority.High, priority.High, engine.FailureWrongPriority, 0.5),
				failResult(priority.High, priority.Medium, engine.FailureWrongPriority, 0.5)),
			want: PatternCriticalFalseNegatives,
		},
		{
			name: "dominant false positives",
			cr: categoryResult(definiteNoneSpec(),
				failResult(priority.None, priority.Low, engine.FailureFalsePositive, 0.4),
				failResult(priority.None, priority.Medium, engine.FailureFalsePositive, 0.5),
				failResult(priority.None, priority.Low, engine.FailureWrongPriority, 0.4)),
			want: PatternExcessFalsePositives,
		},
		{
			name: "dominant escalation errors",
			cr: categoryResult(maybeMediumLowSpec(),
				failResult(priority.Medium, priority.High, engine.FailureEscalationError, 0.8),
				failResult(priority.Low, priority.High, engine.FailureEscalationError, 0.7)),
			want: PatternEscalationDrift,
		},
		{
			name: "false negatives win count ties",
			cr: categoryResult(definiteNoneSpec(),
				failResult(priority.Low, priority.None, engine.FailureFalseNegative, 0.4),
				failResult(priority.None, priority.Low, engine.FailureFalsePositive, 0.4)),
			want: PatternFalseNegatives,
		},
		{
			name: "connectivity-dominated category has no pattern",
			cr: categoryResult(definiteHighSpec(),
				errorResult(priority.High),
				errorResult(priority.High),
				failResult(priority.High, priority.Medium, engine.FailureFalseNegative, 0.6)),
			want: PatternNone,
		},
		{
			name: "no failures means no pattern",
			cr: categoryResult(definiteHighSpec(),
				errorResult(priority.High),
				passResult(priority.High, 0.9)),
			want: PatternNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectPattern(tt.cr, tally(tt.cr)))
		})
	}
}

// #endregion

// #region variable-resolution

func TestResolveVariablesPerMode(t *testing.T) {
	// The same (category type, pattern) resolves to mode-specific names.
	assert.Equal(t, []string{thresholds.ConsensusHigh},
		resolveVariables(thresholds.ModeConsensus, "definite_high", PatternCriticalFalseNegatives))
	assert.Equal(t, []string{thresholds.MajorityHigh},
		resolveVariables(thresholds.ModeMajority, "definite_high", PatternCriticalFalseNegatives))
	assert.Equal(t, []string{thresholds.WeightedHigh},
		resolveVariables(thresholds.ModeWeighted, "definite_high", PatternCriticalFalseNegatives))

	// Unknown combinations resolve to nothing.
	assert.Empty(t, resolveVariables(thresholds.ModeConsensus, "definite_high", PatternExcessFalsePositives))
	assert.Empty(t, resolveVariables(thresholds.Mode("ensemble"), "definite_high", PatternFalseNegatives))
}

func TestResolveVariablesDeterministic(t *testing.T) {
	first := resolveVariables(thresholds.ModeConsensus, "maybe_medium_low", PatternEscalationDrift)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, resolveVariables(thresholds.ModeConsensus, "maybe_medium_low", PatternEscalationDrift))
	}
}

// #endregion

// #region analyze

func TestAnalyzeRanksCriticalFalseNegativesFirst(t *testing.T) {
	critical := categoryResult(definiteHighSpec(),
		passResult(priority.High, 0.9), passResult(priority.High, 0.9),
		failResult(priority.High, priority.Medium, engine.FailureFalseNegative, 0.8),
		failResult(priority.High, priority.Low, engine.FailureFalseNegative, 0.8),
		failResult(priority.High, priority.Medium, engine.FailureFalseNegative, 0.8))
	benign := categoryResult(definiteNoneSpec(),
		passResult(priority.None, 0.9), passResult(priority.None, 0.9),
		failResult(priority.None, priority.Low, engine.FailureFalsePositive, 0.6),
		failResult(priority.None, priority.Low, engine.FailureFalsePositive, 0.6))
	met := categoryResult(definiteNoneSpec(), passResult(priority.None, 0.9))
	met.Spec.Name = "benign_met"
	met.GoalMet = true

	suite := &engine.SuiteResult{
		RunID:      "run-1",
		Categories: []engine.CategoryResult{benign, critical, met},
	}

	tuner := New(thresholds.Defaults(), zap.NewNop())
	report, err := tuner.Analyze(suite, thresholds.ModeConsensus)
	require.NoError(t, err)
	require.Len(t, report.Recommendations, 2)
	assert.Empty(t, report.Unmapped)

	// The report snapshots the catalog variables active under the mode.
	require.Len(t, report.ActiveVariables, 4)
	for _, v := range report.ActiveVariables {
		assert.Equal(t, thresholds.ModeConsensus, v.Mode, v.Name)
	}

	first, second := report.Recommendations[0], report.Recommendations[1]
	assert.Equal(t, 1, first.PriorityRank)
	assert.Equal(t, thresholds.ConsensusHigh, first.VariableName)
	assert.Equal(t, PatternCriticalFalseNegatives, first.Rationale.Pattern)
	assert.Equal(t, DirectionLower, first.Rationale.Direction)
	assert.Less(t, first.RecommendedValue, first.CurrentValue)
	assert.False(t, first.Rationale.Ambiguous)

	assert.Equal(t, 2, second.PriorityRank)
	assert.Equal(t, thresholds.ConsensusLow, second.VariableName)
	assert.Equal(t, PatternExcessFalsePositives, second.Rationale.Pattern)
	assert.Equal(t, DirectionRaise, second.Rationale.Direction)
	assert.Greater(t, second.RecommendedValue, second.CurrentValue)

	// Met categories contribute nothing.
	for _, rec := range report.Recommendations {
		assert.NotEqual(t, "benign_met", rec.Rationale.Category)
	}
}

func TestAnalyzeTwoVariableAttributionIsUncertain(t *testing.T) {
	drift := categoryResult(maybeMediumLowSpec(),
		passResult(priority.Medium, 0.7),
		failResult(priority.Medium, priority.High, engine.FailureEscalationError, 0.8),
		failResult(priority.Low, priority.High, engine.FailureEscalationError, 0.75),
		failResult(priority.Medium, priority.High, engine.FailureEscalationError, 0.82))

	suite := &engine.SuiteResult{RunID: "run-2", Categories: []engine.CategoryResult{drift}}
	tuner := New(thresholds.Defaults(), zap.NewNop())
	report, err := tuner.Analyze(suite, thresholds.ModeConsensus)
	require.NoError(t, err)
	require.Len(t, report.Recommendations, 2)

	names := []string{report.Recommendations[0].VariableName, report.Recommendations[1].VariableName}
	assert.ElementsMatch(t, []string{thresholds.ConsensusHigh, thresholds.ConsensusLow}, names)
	for _, rec := range report.Recommendations {
		assert.Equal(t, ConfidenceUncertain, rec.Confidence)
		assert.True(t, rec.Rationale.Ambiguous)
		assert.Equal(t, DirectionRaise, rec.Rationale.Direction)
	}
}

func TestAnalyzeUnmappedCategories(t *testing.T) {
	// Goal missed on connectivity errors alone: no attributable pattern.
	flaky := categoryResult(definiteHighSpec(),
		errorResult(priority.High), errorResult(priority.High), passResult(priority.High, 0.9))
	flaky.Spec.Name = "crisis_high_flaky"

	suite := &engine.SuiteResult{RunID: "run-3", Categories: []engine.CategoryResult{flaky}}
	tuner := New(thresholds.Defaults(), zap.NewNop())
	report, err := tuner.Analyze(suite, thresholds.ModeConsensus)
	require.NoError(t, err)
	assert.Empty(t, report.Recommendations)
	require.Len(t, report.Unmapped, 1)
	assert.Equal(t, "crisis_high_flaky", report.Unmapped[0].Category)
	assert.Equal(t, PatternNone, report.Unmapped[0].Pattern)
	assert.NotEmpty(t, report.Unmapped[0].Reason)
}

func TestAnalyzeNilSuite(t *testing.T) {
	tuner := New(thresholds.Defaults(), zap.NewNop())
	_, err := tuner.Analyze(nil, thresholds.ModeConsensus)
	assert.Error(t, err)
}

// #endregion

// #region magnitude

func TestRecommendValueClampedAndSigned(t *testing.T) {
	catalog := thresholds.Defaults()
	v, ok := catalog.Get(thresholds.ConsensusHigh)
	require.True(t, ok)

	s := patternStats{confidenceMean: 0.8}
	lowered := recommendValue(v, DirectionLower, 90, 40, s)
	assert.Less(t, lowered, v.Current)
	assert.GreaterOrEqual(t, lowered, v.Min)

	raised := recommendValue(v, DirectionRaise, 90, 40, s)
	assert.Greater(t, raised, v.Current)
	assert.LessOrEqual(t, raised, v.Max)

	// Already at target: the minimum step still moves the value.
	nudged := recommendValue(v, DirectionRaise, 90, 95, s)
	assert.Greater(t, nudged, v.Current)
}

func TestBoundaryTestPointsBracketRecommendation(t *testing.T) {
	catalog := thresholds.Defaults()
	v, _ := catalog.Get(thresholds.ConsensusMedium)

	points := boundaryTestPoints(v, 0.50)
	assert.GreaterOrEqual(t, len(points), 2)
	assert.LessOrEqual(t, len(points), 4)
	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1], points[i])
	}
	for _, p := range points {
		assert.GreaterOrEqual(t, p, v.Min)
		assert.LessOrEqual(t, p, v.Max)
	}
}

// #endregion

// #region overrides

func TestRenderOverrides(t *testing.T) {
	critical := categoryResult(definiteHighSpec(),
		failResult(priority.High, priority.Medium, engine.FailureFalseNegative, 0.8),
		failResult(priority.High, priority.Low, engine.FailureFalseNegative, 0.8),
		passResult(priority.High, 0.9))
	flaky := categoryResult(definiteHighSpec(), errorResult(priority.High), errorResult(priority.High))
	flaky.Spec.Name = "crisis_high_flaky"

	suite := &engine.SuiteResult{RunID: "run-4", Categories: []engine.CategoryResult{critical, flaky}}
	tuner := New(thresholds.Defaults(), zap.NewNop())
	report, err := tuner.Analyze(suite, thresholds.ModeConsensus)
	require.NoError(t, err)

	out := RenderOverrides(report)
	assert.Contains(t, out, "run-4")
	assert.Contains(t, out, "active variables under consensus mode")
	assert.Contains(t, out, thresholds.ConsensusHigh+"=")
	assert.Contains(t, out, "rank 1")
	assert.Contains(t, out, "boundary test points")
	assert.Contains(t, out, "unmapped categories")
	assert.Contains(t, out, "crisis_high_flaky")

	// Every non-comment line is a parseable assignment.
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		assert.Contains(t, line, "=")
	}
}

// #endregion
