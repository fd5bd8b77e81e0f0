package tuning

// #region imports
import "github.com/crisis-detection/threshold-tuner/internal/engine"

// #endregion

// #region detect

// detectPattern classifies the dominant failure shape of one failing
// category. Any false negative inside a critical category dominates every
// other signal. A category whose misses are mostly connectivity errors has
// no attributable pattern.
func detectPattern(cr engine.CategoryResult, s patternStats) Pattern {
	if s.failures == 0 {
		return PatternNone
	}
	if s.errors > s.failures {
		// Connectivity-dominated; classification evidence is too thin.
		return PatternNone
	}
	if cr.Spec.IsCritical && s.falseNegatives > 0 {
		return PatternCriticalFalseNegatives
	}

	// Dominant failure type, ties broken safety-first.
	type candidate struct {
		pattern Pattern
		count   int
	}
	ordered := []candidate{
		{PatternFalseNegatives, s.falseNegatives},
		{PatternEscalationDrift, s.escalationErrors},
		{PatternExcessFalsePositives, s.falsePositives},
		{PatternBoundaryInconsistency, s.wrongPriority},
	}
	best := ordered[0]
	for _, c := range ordered[1:] {
		if c.count > best.count {
			best = c
		}
	}
	if best.count == 0 {
		return PatternNone
	}
	return best.pattern
}

// #endregion

// #region direction

// directionFor chooses which way the governing variable should move.
// Under-detection needs a lower (more sensitive) threshold; over-detection
// needs a higher one. Drift patterns follow the dominant observed direction.
func directionFor(pattern Pattern, s patternStats) Direction {
	switch pattern {
	case PatternCriticalFalseNegatives, PatternFalseNegatives:
		return DirectionLower
	case PatternExcessFalsePositives:
		return DirectionRaise
	}
	if s.upward >= s.downward {
		return DirectionRaise
	}
	return DirectionLower
}

// #endregion
