package engine

// #region imports
import (
	"github.com/crisis-detection/threshold-tuner/internal/corpus"
	"github.com/crisis-detection/threshold-tuner/internal/priority"
)

// #endregion

// #region constants

// falseNegativeMultiplier weights a missed crisis three times worse than a
// false alarm of equal priority distance.
const falseNegativeMultiplier = 3

// #endregion

// #region classify

// Classify is the pure matching function: given a category's rules, the
// phrase's expected priority, and the classifier's detected priority, it
// yields the outcome and failure type. Same inputs always yield the same
// result; no hidden state.
func Classify(spec corpus.CategorySpec, expected, detected priority.Level) (Outcome, FailureType) {
	if spec.Kind == corpus.KindDefinite {
		if detected == expected {
			return OutcomePass, FailureNone
		}
		return OutcomeFail, classifyDefiniteFailure(spec, expected, detected)
	}

	// Maybe category: any level inside the two-level band passes.
	if spec.Accepts(detected) {
		return OutcomePass, FailureNone
	}
	return OutcomeFail, classifyMaybeFailure(spec, detected)
}

// #endregion

// #region definite-failure

func classifyDefiniteFailure(spec corpus.CategorySpec, expected, detected priority.Level) FailureType {
	// A phrase that should stay quiet but triggered detection.
	if expected == priority.None && detected != priority.None {
		return FailureFalsePositive
	}
	// Safety-critical under-classification: a high expectation detected lower,
	// or any under-detection inside a critical category.
	if detected.Rank() < expected.Rank() {
		if expected == priority.High || spec.IsCritical {
			return FailureFalseNegative
		}
	}
	return FailureWrongPriority
}

// #endregion

// #region maybe-failure

func classifyMaybeFailure(spec corpus.CategorySpec, detected priority.Level) FailureType {
	// Upward deviations exceed whatever escalation the band already tolerates,
	// so they are always escalation errors. Downward deviations are escalation
	// errors only when de-escalation is not tolerated; overshooting a tolerated
	// de-escalation band is a plain wrong_priority.
	if detected.Rank() > spec.MaxAccepted().Rank() {
		return FailureEscalationError
	}
	if !spec.AllowDeescalation {
		return FailureEscalationError
	}
	return FailureWrongPriority
}

// #endregion

// #region severity

// Severity scores a failed phrase: priority distance, tripled for false
// negatives. Passes score zero.
func Severity(expected, detected priority.Level, failure FailureType) int {
	if failure == FailureNone {
		return 0
	}
	d := priority.Distance(expected, detected)
	if failure == FailureFalseNegative {
		return d * falseNegativeMultiplier
	}
	return d
}

// ErrorSeverity is the penalty assigned when the classifier could not be
// reached at all: the maximum safety-relevant penalty for the category's
// criticality.
func ErrorSeverity(spec corpus.CategorySpec) int {
	if spec.IsCritical {
		return priority.MaxDistance * falseNegativeMultiplier
	}
	return priority.MaxDistance
}

// #endregion
