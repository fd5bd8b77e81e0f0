package tuning

// #region imports
import (
	"math"
	"sort"

	"github.com/crisis-detection/threshold-tuner/internal/thresholds"
)

// #endregion

// #region constants

// magnitudeGain scales the pass-rate gap into threshold units. The failing
// phrases' mean confidence modulates the step: confident misses sit further
// from the boundary and need a larger move.
const magnitudeGain = 0.15

// minStepFraction keeps a recommendation from rounding to a no-op: at least
// this fraction of the variable's range is always proposed.
const minStepFraction = 0.01

// #endregion

// #region recommend-value

// recommendValue computes the recommended setting for one variable from the
// pass-rate gap and the failing confidence distribution, clamped to the
// variable's valid range.
func recommendValue(v thresholds.Variable, dir Direction, target, actual float64, s patternStats) float64 {
	gap := (target - actual) / 100.0
	if gap < 0 {
		gap = 0
	}

	delta := magnitudeGain * gap * (0.5 + s.confidenceMean)
	width := v.Max - v.Min
	if floor := width * minStepFraction; delta < floor {
		delta = floor
	}
	if dir == DirectionLower {
		delta = -delta
	}

	return round4(v.Clamp(v.Current + delta))
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// #endregion

// #region boundary-points

// boundaryTestPoints brackets the recommended value with 2–4 candidates so a
// follow-up run can locate the true optimum empirically. Points are clamped
// to the valid range, deduplicated, and ordered ascending.
func boundaryTestPoints(v thresholds.Variable, recommended float64) []float64 {
	step := math.Abs(recommended - v.Current)
	if step == 0 {
		step = (v.Max - v.Min) * 0.02
	}

	candidates := []float64{
		recommended - step,
		recommended - step/2,
		recommended + step/2,
		recommended + step,
	}

	var points []float64
	seen := make(map[float64]bool)
	for _, c := range candidates {
		p := round4(v.Clamp(c))
		if p == recommended || seen[p] {
			continue
		}
		seen[p] = true
		points = append(points, p)
	}
	// Clamping can collapse the bracket to a single point at a range edge;
	// fall back to the recommended value's immediate neighborhood.
	if len(points) < 2 {
		points = append(points, recommended)
	}
	sort.Float64s(points)
	return points
}

// #endregion
