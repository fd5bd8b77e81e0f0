package engine

// #region imports
import "math"

// #endregion

// #region aggregate

// aggregate seals a category: counts, pass rate, goal check, confidence and
// latency statistics. total counts only phrases actually evaluated.
func aggregate(cr *CategoryResult) {
	cr.Total = len(cr.Results)
	cr.Passed, cr.Failed, cr.Errors, cr.SeveritySum = 0, 0, 0, 0

	var confidences, latencies []float64
	for _, r := range cr.Results {
		switch r.Outcome {
		case OutcomePass:
			cr.Passed++
		case OutcomeFail:
			cr.Failed++
		case OutcomeError:
			cr.Errors++
		}
		cr.SeveritySum += r.Severity
		if r.Outcome != OutcomeError {
			confidences = append(confidences, r.Confidence)
			latencies = append(latencies, r.LatencyMs)
		}
	}

	if cr.Total > 0 {
		cr.PassRate = float64(cr.Passed) / float64(cr.Total) * 100.0
	}
	cr.GoalMet = cr.PassRate >= cr.Spec.TargetPassRate
	cr.Confidence = confidenceStats(confidences)
	cr.MeanLatencyMs = mean(latencies)
}

// #endregion

// #region confidence-stats

func confidenceStats(values []float64) ConfidenceStats {
	if len(values) == 0 {
		return ConfidenceStats{}
	}
	s := ConfidenceStats{Min: values[0], Max: values[0]}
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = mean(values)
	s.StdDev = stddev(values, s.Mean)
	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// #endregion

// #region failure-rate

// failureRate is the rolling failed-or-errored percentage used by the early
// termination check after every phrase.
func failureRate(failed, errored, evaluated int) float64 {
	if evaluated == 0 {
		return 0
	}
	return float64(failed+errored) / float64(evaluated) * 100.0
}

// #endregion
