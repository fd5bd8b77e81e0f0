// Package tuning turns a sealed suite result into a priority-ordered set of
// threshold recommendations, with confidence and risk grading and boundary
// test points for follow-up validation.
package tuning

// #region imports
import (
	"math"
	"time"

	"github.com/crisis-detection/threshold-tuner/internal/engine"
	"github.com/crisis-detection/threshold-tuner/internal/thresholds"
)

// #endregion

// #region pattern

// Pattern is the dominant failure shape observed in one failing category.
type Pattern string

const (
	PatternNone                   Pattern = "none"
	PatternCriticalFalseNegatives Pattern = "critical_false_negatives"
	PatternFalseNegatives         Pattern = "false_negatives"
	PatternExcessFalsePositives   Pattern = "excess_false_positives"
	PatternBoundaryInconsistency  Pattern = "boundary_inconsistency"
	PatternEscalationDrift        Pattern = "escalation_drift"
)

// #endregion

// #region grades

// Confidence grades how well the observed pattern supports the
// recommendation.
type Confidence string

const (
	ConfidenceHigh      Confidence = "HIGH"
	ConfidenceMedium    Confidence = "MEDIUM"
	ConfidenceLow       Confidence = "LOW"
	ConfidenceUncertain Confidence = "UNCERTAIN"
)

// ordinal gives sort weight; higher is stronger.
func (c Confidence) ordinal() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// Risk grades the safety impact of applying the change. Independent of
// confidence; a well-supported recommendation can still be dangerous.
type Risk string

const (
	RiskCritical Risk = "CRITICAL"
	RiskModerate Risk = "MODERATE"
	RiskLow      Risk = "LOW"
	RiskMinimal  Risk = "MINIMAL"
)

func (r Risk) ordinal() int {
	switch r {
	case RiskCritical:
		return 3
	case RiskModerate:
		return 2
	case RiskLow:
		return 1
	}
	return 0
}

// #endregion

// #region direction

// Direction says which way the variable should move. Raising a detection
// threshold reduces sensitivity; lowering it increases sensitivity.
type Direction string

const (
	DirectionRaise Direction = "raise"
	DirectionLower Direction = "lower"
)

// #endregion

// #region rationale

// Rationale is the structured justification attached to a recommendation.
type Rationale struct {
	Category         string    `json:"category"`
	CategoryType     string    `json:"category_type"`
	Pattern          Pattern   `json:"pattern"`
	IsCritical       bool      `json:"is_critical"`
	PassRate         float64   `json:"pass_rate"`
	TargetPassRate   float64   `json:"target_pass_rate"`
	FalsePositives   int       `json:"false_positives"`
	FalseNegatives   int       `json:"false_negatives"`
	WrongPriority    int       `json:"wrong_priority"`
	EscalationErrors int       `json:"escalation_errors"`
	Errors           int       `json:"errors"`
	Direction        Direction `json:"direction"`
	ConfidenceMean   float64   `json:"failing_confidence_mean"`
	ConfidenceStdDev float64   `json:"failing_confidence_stddev"`
	Ambiguous        bool      `json:"ambiguous_attribution"`
}

// #endregion

// #region recommendation

// Recommendation is one proposed threshold change. Created fresh per run and
// handed to an external writer; never persisted here.
type Recommendation struct {
	VariableName       string     `json:"variable_name"`
	CurrentValue       float64    `json:"current_value"`
	RecommendedValue   float64    `json:"recommended_value"`
	Confidence         Confidence `json:"confidence_level"`
	Risk               Risk       `json:"risk_level"`
	Rationale          Rationale  `json:"rationale"`
	BoundaryTestPoints []float64  `json:"boundary_test_points"`
	PriorityRank       int        `json:"priority_rank"`
}

// #endregion

// #region unmapped

// UnmappedCategory records a failing category that resolved to no known
// variable under the active mode. Surfaced explicitly: "unmapped" must never
// read as "no tuning needed".
type UnmappedCategory struct {
	Category     string          `json:"category"`
	CategoryType string          `json:"category_type"`
	Pattern      Pattern         `json:"pattern"`
	Mode         thresholds.Mode `json:"mode"`
	Reason       string          `json:"reason"`
}

// #endregion

// #region report

// Report is the full tuning output for one suite result. ActiveVariables
// snapshots the catalog values the analysis ran against, so the report is
// interpretable without access to the live threshold file.
type Report struct {
	RunID           string                `json:"run_id"`
	Mode            thresholds.Mode       `json:"mode"`
	ActiveVariables []thresholds.Variable `json:"active_variables"`
	Recommendations []Recommendation      `json:"recommendations"`
	Unmapped        []UnmappedCategory    `json:"unmapped"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

// #endregion

// #region pattern-stats

// patternStats carries the failure tallies and confidence distribution the
// grading steps work from.
type patternStats struct {
	falsePositives   int
	falseNegatives   int
	wrongPriority    int
	escalationErrors int
	errors           int
	failures         int // failed outcomes, errors excluded

	upward   int // failures where detected overshot expected
	downward int // failures where detected undershot expected

	confidenceMean   float64
	confidenceStdDev float64
}

func tally(cr engine.CategoryResult) patternStats {
	var s patternStats
	var failConf []float64
	for _, r := range cr.Results {
		switch r.Outcome {
		case engine.OutcomeError:
			s.errors++
			continue
		case engine.OutcomePass:
			continue
		}
		s.failures++
		failConf = append(failConf, r.Confidence)
		switch r.Failure {
		case engine.FailureFalsePositive:
			s.falsePositives++
		case engine.FailureFalseNegative:
			s.falseNegatives++
		case engine.FailureWrongPriority:
			s.wrongPriority++
		case engine.FailureEscalationError:
			s.escalationErrors++
		}
		if r.Detected.Rank() > r.Expected.Rank() {
			s.upward++
		} else if r.Detected.Rank() < r.Expected.Rank() {
			s.downward++
		}
	}
	s.confidenceMean = meanOf(failConf)
	s.confidenceStdDev = stddevOf(failConf, s.confidenceMean)
	return s
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddevOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	// population stddev, matching the engine's confidence stats
	return math.Sqrt(sumSq / float64(len(values)))
}

// #endregion
