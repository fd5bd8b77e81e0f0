// Package engine executes the phrase corpus against the classifier and
// aggregates pass/fail/error outcomes into a sealed suite result.
package engine

// #region imports
import (
	"context"
	"time"

	"github.com/crisis-detection/threshold-tuner/internal/classifier"
	"github.com/crisis-detection/threshold-tuner/internal/corpus"
	"github.com/crisis-detection/threshold-tuner/internal/priority"
)

// #endregion

// #region analyzer

// Analyzer is the slice of the classifier adapter the engine depends on.
// The replay harness provides a scripted implementation.
type Analyzer interface {
	HealthCheck(ctx context.Context) error
	Analyze(ctx context.Context, text string) (classifier.Analysis, error)
}

// #endregion

// #region outcome

// Outcome is the terminal state of one phrase evaluation.
type Outcome string

const (
	OutcomePass  Outcome = "pass"
	OutcomeFail  Outcome = "fail"
	OutcomeError Outcome = "error"
)

// #endregion

// #region failure-type

// FailureType categorizes why a phrase failed. Errors carry FailureNone.
type FailureType string

const (
	FailureNone            FailureType = "none"
	FailureFalsePositive   FailureType = "false_positive"
	FailureFalseNegative   FailureType = "false_negative"
	FailureWrongPriority   FailureType = "wrong_priority"
	FailureEscalationError FailureType = "escalation_error"
)

// #endregion

// #region termination

// TerminationReason is the terminal state of a whole suite run.
type TerminationReason string

const (
	TerminationCompleted        TerminationReason = "completed"
	TerminationEarlyTerminated  TerminationReason = "early_terminated"
	TerminationAbortedUnhealthy TerminationReason = "aborted_unhealthy_server"
)

// #endregion

// #region phrase-result

// PhraseResult is the evaluation of a single phrase. Owned exclusively by the
// CategoryResult that contains it.
type PhraseResult struct {
	Text       string         `json:"text"`
	Expected   priority.Level `json:"expected"`
	Detected   priority.Level `json:"detected,omitempty"`
	Confidence float64        `json:"confidence"`
	LatencyMs  float64        `json:"latency_ms"`
	Outcome    Outcome        `json:"outcome"`
	Failure    FailureType    `json:"failure_type"`
	Severity   int            `json:"severity"`
}

// #endregion

// #region confidence-stats

// ConfidenceStats summarizes the confidence scores of a category's
// classified (non-error) phrases.
type ConfidenceStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// #endregion

// #region category-result

// CategoryResult aggregates all phrase results for one category in one run.
// Complete=false marks a category sealed early (halt or cancellation).
type CategoryResult struct {
	Spec          corpus.CategorySpec `json:"spec"`
	Results       []PhraseResult      `json:"results"`
	Total         int                 `json:"total"` // phrases evaluated
	Passed        int                 `json:"passed"`
	Failed        int                 `json:"failed"`
	Errors        int                 `json:"errors"`
	Skipped       int                 `json:"skipped"` // phrases never sent
	PassRate      float64             `json:"pass_rate"`
	GoalMet       bool                `json:"goal_met"`
	Complete      bool                `json:"complete"`
	Confidence    ConfidenceStats     `json:"confidence"`
	MeanLatencyMs float64             `json:"mean_latency_ms"`
	SeveritySum   int                 `json:"severity_sum"`
}

// #endregion

// #region suite-result

// SuiteResult is the sealed output of one execution. Immutable once returned;
// the sole input to the tuning engine.
type SuiteResult struct {
	RunID           string             `json:"run_id"`
	Categories      []CategoryResult   `json:"categories"`
	OverallPassRate float64            `json:"overall_pass_rate"`
	GoalRate        float64            `json:"goal_rate"` // fraction of categories meeting target
	StartedAt       time.Time          `json:"started_at"`
	EndedAt         time.Time          `json:"ended_at"`
	Termination     TerminationReason  `json:"termination"`
	Environment     string             `json:"environment,omitempty"`
	Trigger         string             `json:"trigger,omitempty"`
}

// #endregion

// #region engine-config

// Config holds the engine's run policy. Halt thresholds are percentages of
// failed-or-errored phrases within a category; critical categories halt
// sooner. Historical revisions disagreed on the value, so both are explicit
// configuration.
type Config struct {
	HaltThresholdCritical    float64
	HaltThresholdNonCritical float64
	Environment              string
	Trigger                  string
}

// DefaultConfig returns the documented default run policy.
func DefaultConfig() Config {
	return Config{
		HaltThresholdCritical:    20.0,
		HaltThresholdNonCritical: 60.0,
		Environment:              "local",
		Trigger:                  "manual",
	}
}

// haltThreshold picks the halt percentage for a category's criticality.
func (c Config) haltThreshold(spec corpus.CategorySpec) float64 {
	if spec.IsCritical {
		return c.HaltThresholdCritical
	}
	return c.HaltThresholdNonCritical
}

// #endregion
