package tuning

// #region imports
import (
	"math"

	"github.com/crisis-detection/threshold-tuner/internal/corpus"
	"github.com/crisis-detection/threshold-tuner/internal/thresholds"
)

// #endregion

// #region confidence-grading

// gradeConfidence scores how well the evidence supports the recommendation:
// large consistent patterns isolated to one variable grade HIGH; ambiguous
// attribution (more than one plausible variable) is always UNCERTAIN but the
// recommendation is still emitted, never suppressed.
func gradeConfidence(s patternStats, variableCount int) Confidence {
	if variableCount > 1 {
		return ConfidenceUncertain
	}
	switch {
	case s.failures >= 5 && s.confidenceStdDev < 0.10:
		return ConfidenceHigh
	case s.failures >= 3 && s.confidenceStdDev < 0.20:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// #endregion

// #region risk-grading

// gradeRisk scores the safety impact of applying the change, independent of
// confidence. Raising a threshold reduces sensitivity; doing that to a
// critical category is the one CRITICAL case.
func gradeRisk(spec corpus.CategorySpec, v thresholds.Variable, dir Direction, recommended float64) Risk {
	if spec.IsCritical && dir == DirectionRaise {
		return RiskCritical
	}

	width := v.Max - v.Min
	if width <= 0 {
		return RiskMinimal
	}
	magnitude := math.Abs(recommended-v.Current) / width
	switch {
	case !spec.IsCritical && magnitude >= 0.10:
		return RiskModerate
	case magnitude >= 0.02:
		return RiskLow
	default:
		return RiskMinimal
	}
}

// #endregion
