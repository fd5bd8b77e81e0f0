package tuning

// #region imports
import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/crisis-detection/threshold-tuner/internal/engine"
	"github.com/crisis-detection/threshold-tuner/internal/thresholds"
)

// #endregion

// #region engine

// Engine maps a sealed suite result to a ranked recommendation set. The
// ensemble mode is an explicit parameter of the analysis, not ambient state,
// so variable resolution stays a pure function of (mode, category, pattern).
type Engine struct {
	catalog *thresholds.Catalog
	log     *zap.Logger
}

// New creates a tuning engine over a threshold catalog.
func New(catalog *thresholds.Catalog, logger *zap.Logger) *Engine {
	return &Engine{catalog: catalog, log: logger}
}

// #endregion

// #region analyze

// Analyze walks every category that missed its target, attributes the
// dominant failure pattern to concrete threshold variables under mode, and
// returns the graded, priority-ordered recommendation set. Categories with
// no resolvable variable land on the unmapped list.
func (e *Engine) Analyze(suite *engine.SuiteResult, mode thresholds.Mode) (*Report, error) {
	if suite == nil {
		return nil, fmt.Errorf("tuning requires a sealed suite result")
	}

	report := &Report{
		RunID:           suite.RunID,
		Mode:            mode,
		ActiveVariables: e.catalog.ForMode(mode),
		GeneratedAt:     time.Now().UTC(),
	}

	for _, cr := range suite.Categories {
		if cr.GoalMet {
			continue
		}
		e.analyzeCategory(report, cr, mode)
	}

	rank(report.Recommendations)
	e.log.Info("tuning analysis complete",
		zap.String("run_id", suite.RunID),
		zap.String("mode", string(mode)),
		zap.Int("recommendations", len(report.Recommendations)),
		zap.Int("unmapped", len(report.Unmapped)))
	return report, nil
}

func (e *Engine) analyzeCategory(report *Report, cr engine.CategoryResult, mode thresholds.Mode) {
	catType := cr.Spec.Type()
	stats := tally(cr)
	pattern := detectPattern(cr, stats)

	if pattern == PatternNone {
		report.Unmapped = append(report.Unmapped, UnmappedCategory{
			Category:     cr.Spec.Name,
			CategoryType: catType,
			Pattern:      pattern,
			Mode:         mode,
			Reason:       "no attributable failure pattern (connectivity-dominated or below target on errors alone)",
		})
		return
	}

	names := resolveVariables(mode, catType, pattern)
	if len(names) == 0 {
		report.Unmapped = append(report.Unmapped, UnmappedCategory{
			Category:     cr.Spec.Name,
			CategoryType: catType,
			Pattern:      pattern,
			Mode:         mode,
			Reason:       fmt.Sprintf("no variable governs (%s, %s) under %s mode", catType, pattern, mode),
		})
		return
	}

	dir := directionFor(pattern, stats)
	for _, name := range names {
		v, ok := e.catalog.Get(name)
		if !ok {
			report.Unmapped = append(report.Unmapped, UnmappedCategory{
				Category:     cr.Spec.Name,
				CategoryType: catType,
				Pattern:      pattern,
				Mode:         mode,
				Reason:       fmt.Sprintf("variable %s missing from threshold catalog", name),
			})
			continue
		}

		recommended := recommendValue(v, dir, cr.Spec.TargetPassRate, cr.PassRate, stats)
		rec := Recommendation{
			VariableName:     name,
			CurrentValue:     v.Current,
			RecommendedValue: recommended,
			Confidence:       gradeConfidence(stats, len(names)),
			Risk:             gradeRisk(cr.Spec, v, dir, recommended),
			Rationale: Rationale{
				Category:         cr.Spec.Name,
				CategoryType:     catType,
				Pattern:          pattern,
				IsCritical:       cr.Spec.IsCritical,
				PassRate:         cr.PassRate,
				TargetPassRate:   cr.Spec.TargetPassRate,
				FalsePositives:   stats.falsePositives,
				FalseNegatives:   stats.falseNegatives,
				WrongPriority:    stats.wrongPriority,
				EscalationErrors: stats.escalationErrors,
				Errors:           stats.errors,
				Direction:        dir,
				ConfidenceMean:   stats.confidenceMean,
				ConfidenceStdDev: stats.confidenceStdDev,
				Ambiguous:        len(names) > 1,
			},
			BoundaryTestPoints: boundaryTestPoints(v, recommended),
		}
		report.Recommendations = append(report.Recommendations, rec)
	}
}

// #endregion

// #region ranking

// rank orders recommendations by (critical-category false negatives first,
// is_critical, risk, confidence) and assigns 1-based priority ranks.
func rank(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]

		aCritFN := a.Rationale.Pattern == PatternCriticalFalseNegatives
		bCritFN := b.Rationale.Pattern == PatternCriticalFalseNegatives
		if aCritFN != bCritFN {
			return aCritFN
		}
		if a.Rationale.IsCritical != b.Rationale.IsCritical {
			return a.Rationale.IsCritical
		}
		if a.Risk.ordinal() != b.Risk.ordinal() {
			return a.Risk.ordinal() > b.Risk.ordinal()
		}
		if a.Confidence.ordinal() != b.Confidence.ordinal() {
			return a.Confidence.ordinal() > b.Confidence.ordinal()
		}
		return a.VariableName < b.VariableName
	})
	for i := range recs {
		recs[i].PriorityRank = i + 1
	}
}

// #endregion
