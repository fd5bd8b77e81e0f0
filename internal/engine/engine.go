package engine

// #region imports
import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crisis-detection/threshold-tuner/internal/corpus"
)

// #endregion

// #region engine

// Engine drives one strictly sequential suite execution: categories in
// declared order, phrases in corpus order, one in-flight analyze call at a
// time. The only suspension points are the adapter calls; cancellation is
// cooperative and checked at phrase boundaries.
type Engine struct {
	analyzer Analyzer
	config   Config
	log      *zap.Logger
}

// New creates an engine. analyzer and logger must not be nil.
func New(analyzer Analyzer, config Config, logger *zap.Logger) *Engine {
	return &Engine{analyzer: analyzer, config: config, log: logger}
}

// #endregion

// #region run

// Run executes the full corpus and returns the sealed suite result.
// The single fail-fast path: an unhealthy classifier aborts before any
// analyze call, returning an error instead of a result.
func (e *Engine) Run(ctx context.Context, categories []corpus.Category) (*SuiteResult, error) {
	runID := uuid.New().String()
	suite, err := newSuiteFSM(runID)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now().UTC()
	if err := e.analyzer.HealthCheck(ctx); err != nil {
		if ferr := suite.send(eventAbort); ferr != nil {
			return nil, ferr
		}
		e.log.Error("classifier health check failed, aborting run",
			zap.String("run_id", runID),
			zap.String("reason", string(TerminationAbortedUnhealthy)),
			zap.Error(err))
		return nil, fmt.Errorf("run %s aborted: %w", runID, err)
	}
	if err := suite.send(eventStart); err != nil {
		return nil, err
	}

	e.log.Info("suite started",
		zap.String("run_id", runID),
		zap.Int("categories", len(categories)))

	results := make([]CategoryResult, 0, len(categories))
	cancelled := false
	for _, cat := range categories {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		cr, catCancelled, err := e.runCategory(ctx, cat)
		if err != nil {
			return nil, err
		}
		results = append(results, cr)
		if catCancelled {
			cancelled = true
			break
		}
	}

	result := e.seal(runID, results, startedAt, cancelled)
	event := eventComplete
	if result.Termination == TerminationEarlyTerminated {
		event = eventTerminate
	}
	if err := suite.send(event); err != nil {
		return nil, err
	}

	e.log.Info("suite sealed",
		zap.String("run_id", runID),
		zap.String("termination", string(result.Termination)),
		zap.Float64("overall_pass_rate", result.OverallPassRate),
		zap.Float64("goal_rate", result.GoalRate))
	return result, nil
}

// #endregion

// #region run-category

// runCategory evaluates one category's phrases in order, applying the rolling
// failure-rate halt after each phrase. A halt seals this category incomplete
// and skips its remaining phrases only; the suite moves on.
func (e *Engine) runCategory(ctx context.Context, cat corpus.Category) (CategoryResult, bool, error) {
	machine, err := newCategoryFSM(cat.Spec.Name)
	if err != nil {
		return CategoryResult{}, false, err
	}
	if err := machine.send(eventStart); err != nil {
		return CategoryResult{}, false, err
	}

	cr := CategoryResult{Spec: cat.Spec}
	halt := e.config.haltThreshold(cat.Spec)
	failed, errored := 0, 0
	cancelled := false

	for i, phrase := range cat.Phrases {
		if ctx.Err() != nil {
			cancelled = true
			cr.Skipped = len(cat.Phrases) - i
			break
		}

		cr.Results = append(cr.Results, e.evaluatePhrase(ctx, cat.Spec, phrase))
		switch cr.Results[len(cr.Results)-1].Outcome {
		case OutcomeFail:
			failed++
		case OutcomeError:
			errored++
		}

		if rate := failureRate(failed, errored, i+1); rate > halt {
			cr.Skipped = len(cat.Phrases) - (i + 1)
			e.log.Warn("category halted",
				zap.String("category", cat.Spec.Name),
				zap.Float64("failure_rate", rate),
				zap.Float64("halt_threshold", halt),
				zap.Int("skipped", cr.Skipped))
			break
		}
	}

	cr.Complete = cr.Skipped == 0 && !cancelled
	event := eventSeal
	if !cr.Complete {
		event = eventHalt
	}
	if err := machine.send(event); err != nil {
		return CategoryResult{}, false, err
	}

	aggregate(&cr)
	e.log.Info("category sealed",
		zap.String("category", cat.Spec.Name),
		zap.String("state", machine.current()),
		zap.Int("passed", cr.Passed),
		zap.Int("failed", cr.Failed),
		zap.Int("errors", cr.Errors),
		zap.Float64("pass_rate", cr.PassRate),
		zap.Bool("goal_met", cr.GoalMet))
	return cr, cancelled, nil
}

// #endregion

// #region evaluate-phrase

// evaluatePhrase issues one analyze call and classifies the result. Adapter
// errors (retry exhaustion included) become outcome=error with the maximum
// safety-relevant severity for the category, never an aborted run.
func (e *Engine) evaluatePhrase(ctx context.Context, spec corpus.CategorySpec, phrase corpus.TestPhrase) PhraseResult {
	analysis, err := e.analyzer.Analyze(ctx, phrase.Text)
	if err != nil {
		e.log.Warn("analyze error",
			zap.String("category", spec.Name),
			zap.Error(err))
		return PhraseResult{
			Text:     phrase.Text,
			Expected: phrase.Expected,
			Outcome:  OutcomeError,
			Failure:  FailureNone,
			Severity: ErrorSeverity(spec),
		}
	}

	outcome, failure := Classify(spec, phrase.Expected, analysis.Priority)
	return PhraseResult{
		Text:       phrase.Text,
		Expected:   phrase.Expected,
		Detected:   analysis.Priority,
		Confidence: analysis.Confidence,
		LatencyMs:  analysis.LatencyMs,
		Outcome:    outcome,
		Failure:    failure,
		Severity:   Severity(phrase.Expected, analysis.Priority, failure),
	}
}

// #endregion

// #region seal

// seal builds the immutable suite result exactly once, at the end of the run.
// Two or more halted categories, or a cancellation, surface as early
// termination of the whole suite.
func (e *Engine) seal(runID string, results []CategoryResult, startedAt time.Time, cancelled bool) *SuiteResult {
	var evaluated, passed, incomplete, goalsMet int
	for _, cr := range results {
		evaluated += cr.Total
		passed += cr.Passed
		if !cr.Complete {
			incomplete++
		}
		if cr.GoalMet {
			goalsMet++
		}
	}

	overall := 0.0
	if evaluated > 0 {
		overall = float64(passed) / float64(evaluated) * 100.0
	}
	goalRate := 0.0
	if len(results) > 0 {
		goalRate = float64(goalsMet) / float64(len(results))
	}

	termination := TerminationCompleted
	if cancelled || incomplete >= 2 {
		termination = TerminationEarlyTerminated
	}

	return &SuiteResult{
		RunID:           runID,
		Categories:      results,
		OverallPassRate: overall,
		GoalRate:        goalRate,
		StartedAt:       startedAt,
		EndedAt:         time.Now().UTC(),
		Termination:     termination,
		Environment:     e.config.Environment,
		Trigger:         e.config.Trigger,
	}
}

// #endregion
