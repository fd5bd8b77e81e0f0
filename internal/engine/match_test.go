package engine

// #region imports
import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crisis-detection/threshold-tuner/internal/corpus"
	"github.com/crisis-detection/threshold-tuner/internal/priority"
)

// #endregion

// #region specs

func definiteSpec(level priority.Level, critical bool) corpus.CategorySpec {
	return corpus.CategorySpec{
		Name:           "definite_" + string(level),
		Kind:           corpus.KindDefinite,
		TargetPassRate: 90,
		IsCritical:     critical,
		Accepted:       []priority.Level{level},
	}
}

func maybeSpec(upper, lower priority.Level, allowEscalation bool) corpus.CategorySpec {
	return corpus.CategorySpec{
		Name:              "maybe_" + string(upper) + "_" + string(lower),
		Kind:              corpus.KindMaybe,
		TargetPassRate:    70,
		Accepted:          []priority.Level{upper, lower},
		AllowEscalation:   allowEscalation,
		AllowDeescalation: !allowEscalation,
	}
}

// #endregion

// #region definite

func TestClassifyDefinite(t *testing.T) {
	tests := []struct {
		name        string
		spec        corpus.CategorySpec
		expected    priority.Level
		detected    priority.Level
		wantOutcome Outcome
		wantFailure FailureType
	}{
		{
			name:        "exact match passes",
			spec:        definiteSpec(priority.High, true),
			expected:    priority.High,
			detected:    priority.High,
			wantOutcome: OutcomePass,
			wantFailure: FailureNone,
		},
		{
			name:        "high detected lower is false negative",
			spec:        definiteSpec(priority.High, true),
			expected:    priority.High,
			detected:    priority.Medium,
			wantOutcome: OutcomeFail,
			wantFailure: FailureFalseNegative,
		},
		{
			name:        "none detected as anything is false positive",
			spec:        definiteSpec(priority.None, false),
			expected:    priority.None,
			detected:    priority.Low,
			wantOutcome: OutcomeFail,
			wantFailure: FailureFalsePositive,
		},
		{
			name:        "under-detection in critical category is false negative",
			spec:        definiteSpec(priority.Medium, true),
			expected:    priority.Medium,
			detected:    priority.Low,
			wantOutcome: OutcomeFail,
			wantFailure: FailureFalseNegative,
		},
		{
			name:        "under-detection in non-critical medium is wrong priority",
			spec:        definiteSpec(priority.Medium, false),
			expected:    priority.Medium,
			detected:    priority.Low,
			wantOutcome: OutcomeFail,
			wantFailure: FailureWrongPriority,
		},
		{
			name:        "over-detection is wrong priority",
			spec:        definiteSpec(priority.Low, false),
			expected:    priority.Low,
			detected:    priority.High,
			wantOutcome: OutcomeFail,
			wantFailure: FailureWrongPriority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, failure := Classify(tt.spec, tt.expected, tt.detected)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantFailure, failure)
		})
	}
}

// #endregion

// #region maybe

func TestClassifyMaybe(t *testing.T) {
	tests := []struct {
		name        string
		spec        corpus.CategorySpec
		expected    priority.Level
		detected    priority.Level
		wantOutcome Outcome
		wantFailure FailureType
	}{
		{
			name:        "either band level passes",
			spec:        maybeSpec(priority.Medium, priority.Low, true),
			expected:    priority.Low,
			detected:    priority.Medium,
			wantOutcome: OutcomePass,
			wantFailure: FailureNone,
		},
		{
			name:        "above band is escalation error even when escalation tolerated",
			spec:        maybeSpec(priority.Low, priority.None, true),
			expected:    priority.None,
			detected:    priority.Medium,
			wantOutcome: OutcomeFail,
			wantFailure: FailureEscalationError,
		},
		{
			name:        "below band without de-escalation tolerance is escalation error",
			spec:        maybeSpec(priority.Medium, priority.Low, true),
			expected:    priority.Medium,
			detected:    priority.None,
			wantOutcome: OutcomeFail,
			wantFailure: FailureEscalationError,
		},
		{
			name:        "below band with de-escalation tolerance is wrong priority",
			spec:        maybeSpec(priority.High, priority.Medium, false),
			expected:    priority.High,
			detected:    priority.None,
			wantOutcome: OutcomeFail,
			wantFailure: FailureWrongPriority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, failure := Classify(tt.spec, tt.expected, tt.detected)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantFailure, failure)
		})
	}
}

// #endregion

// #region determinism

func TestClassifyDeterministic(t *testing.T) {
	spec := maybeSpec(priority.Medium, priority.Low, true)
	o1, f1 := Classify(spec, priority.Medium, priority.None)
	for i := 0; i < 10; i++ {
		o2, f2 := Classify(spec, priority.Medium, priority.None)
		assert.Equal(t, o1, o2)
		assert.Equal(t, f1, f2)
	}
}

// #endregion

// #region severity

func TestSeverity(t *testing.T) {
	// Missed high crisis detected as medium: distance 1, tripled.
	assert.Equal(t, 3, Severity(priority.High, priority.Medium, FailureFalseNegative))
	// High detected as none: distance 3, tripled.
	assert.Equal(t, 9, Severity(priority.High, priority.None, FailureFalseNegative))
	// Same distance as a non-negative failure stays untripled.
	assert.Equal(t, 1, Severity(priority.Low, priority.Medium, FailureWrongPriority))
	assert.Equal(t, 2, Severity(priority.None, priority.Medium, FailureFalsePositive))
	// Passes score zero.
	assert.Equal(t, 0, Severity(priority.High, priority.High, FailureNone))
}

func TestErrorSeverity(t *testing.T) {
	assert.Equal(t, 9, ErrorSeverity(definiteSpec(priority.High, true)))
	assert.Equal(t, 3, ErrorSeverity(definiteSpec(priority.Low, false)))
}

// #endregion
