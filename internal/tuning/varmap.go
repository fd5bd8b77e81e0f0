package tuning

// #region imports
import "github.com/crisis-detection/threshold-tuner/internal/thresholds"

// #endregion

// #region variable-table

// variableTable maps (ensemble mode, category type, pattern) to the threshold
// variable names governing that boundary. The table is static, never
// inferred: recommending a variable that is inactive under the current mode
// would have no effect on the classifier.
//
// Entries with two variables mean the pattern cannot be attributed to a
// single boundary; recommendations derived from them are flagged UNCERTAIN.
var variableTable = map[thresholds.Mode]map[string]map[Pattern][]string{
	thresholds.ModeConsensus: {
		"definite_high": {
			PatternCriticalFalseNegatives: {thresholds.ConsensusHigh},
			PatternFalseNegatives:         {thresholds.ConsensusHigh},
			PatternBoundaryInconsistency:  {thresholds.ConsensusHigh},
		},
		"definite_medium": {
			PatternCriticalFalseNegatives: {thresholds.ConsensusMedium},
			PatternFalseNegatives:         {thresholds.ConsensusMedium},
			PatternBoundaryInconsistency:  {thresholds.ConsensusMedium, thresholds.ConsensusHigh},
		},
		"definite_low": {
			PatternCriticalFalseNegatives: {thresholds.ConsensusLow},
			PatternFalseNegatives:         {thresholds.ConsensusLow},
			PatternBoundaryInconsistency:  {thresholds.ConsensusLow, thresholds.ConsensusMedium},
		},
		"definite_none": {
			PatternExcessFalsePositives:  {thresholds.ConsensusLow},
			PatternBoundaryInconsistency: {thresholds.ConsensusLow},
		},
		"maybe_high_medium": {
			PatternEscalationDrift:       {thresholds.ConsensusMedium},
			PatternBoundaryInconsistency: {thresholds.ConsensusMedium},
		},
		"maybe_medium_low": {
			PatternEscalationDrift:       {thresholds.ConsensusHigh, thresholds.ConsensusLow},
			PatternBoundaryInconsistency: {thresholds.ConsensusMedium},
		},
		"maybe_low_none": {
			PatternEscalationDrift:       {thresholds.ConsensusMedium},
			PatternExcessFalsePositives:  {thresholds.ConsensusLow},
			PatternBoundaryInconsistency: {thresholds.ConsensusLow},
		},
	},

	thresholds.ModeMajority: {
		"definite_high": {
			PatternCriticalFalseNegatives: {thresholds.MajorityHigh},
			PatternFalseNegatives:         {thresholds.MajorityHigh},
			PatternBoundaryInconsistency:  {thresholds.MajorityHigh},
		},
		"definite_medium": {
			PatternCriticalFalseNegatives: {thresholds.MajorityMedium},
			PatternFalseNegatives:         {thresholds.MajorityMedium},
			PatternBoundaryInconsistency:  {thresholds.MajorityMedium, thresholds.MajorityHigh},
		},
		"definite_low": {
			PatternCriticalFalseNegatives: {thresholds.MajorityLow},
			PatternFalseNegatives:         {thresholds.MajorityLow},
			PatternBoundaryInconsistency:  {thresholds.MajorityLow, thresholds.MajorityMedium},
		},
		"definite_none": {
			PatternExcessFalsePositives:  {thresholds.MajorityLow},
			PatternBoundaryInconsistency: {thresholds.MajorityLow},
		},
		"maybe_high_medium": {
			PatternEscalationDrift:       {thresholds.MajorityMedium},
			PatternBoundaryInconsistency: {thresholds.MajorityMedium},
		},
		"maybe_medium_low": {
			PatternEscalationDrift:       {thresholds.MajorityHigh, thresholds.MajorityLow},
			PatternBoundaryInconsistency: {thresholds.MajorityMedium},
		},
		"maybe_low_none": {
			PatternEscalationDrift:       {thresholds.MajorityMedium},
			PatternExcessFalsePositives:  {thresholds.MajorityLow},
			PatternBoundaryInconsistency: {thresholds.MajorityLow},
		},
	},

	thresholds.ModeWeighted: {
		"definite_high": {
			PatternCriticalFalseNegatives: {thresholds.WeightedHigh},
			PatternFalseNegatives:         {thresholds.WeightedHigh},
			PatternBoundaryInconsistency:  {thresholds.WeightedHigh},
		},
		"definite_medium": {
			PatternCriticalFalseNegatives: {thresholds.WeightedMedium},
			PatternFalseNegatives:         {thresholds.WeightedMedium},
			PatternBoundaryInconsistency:  {thresholds.WeightedMedium, thresholds.WeightedHigh},
		},
		"definite_low": {
			PatternCriticalFalseNegatives: {thresholds.WeightedLow},
			PatternFalseNegatives:         {thresholds.WeightedLow},
			PatternBoundaryInconsistency:  {thresholds.WeightedLow, thresholds.WeightedMedium},
		},
		"definite_none": {
			PatternExcessFalsePositives:  {thresholds.WeightedLow},
			PatternBoundaryInconsistency: {thresholds.WeightedLow},
		},
		"maybe_high_medium": {
			PatternEscalationDrift:       {thresholds.WeightedMedium},
			PatternBoundaryInconsistency: {thresholds.WeightedMedium},
		},
		"maybe_medium_low": {
			PatternEscalationDrift:       {thresholds.WeightedHigh, thresholds.WeightedLow},
			PatternBoundaryInconsistency: {thresholds.WeightedMedium},
		},
		"maybe_low_none": {
			PatternEscalationDrift:       {thresholds.WeightedMedium},
			PatternExcessFalsePositives:  {thresholds.WeightedLow},
			PatternBoundaryInconsistency: {thresholds.WeightedLow},
		},
	},
}

// #endregion

// #region resolve

// resolveVariables looks up the governing variable names for one failing
// category. The empty result means the combination is unknown under this
// mode; callers surface it on the unmapped list.
func resolveVariables(mode thresholds.Mode, categoryType string, pattern Pattern) []string {
	byType, ok := variableTable[mode]
	if !ok {
		return nil
	}
	byPattern, ok := byType[categoryType]
	if !ok {
		return nil
	}
	return byPattern[pattern]
}

// #endregion
