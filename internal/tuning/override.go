package tuning

// #region imports
import (
	"fmt"
	"strings"
)

// #endregion

// #region render-overrides

// RenderOverrides formats a report as an operator-readable env-file override
// block, ordered by priority rank. The tuner never applies these itself; an
// external writer persists them.
func RenderOverrides(report *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# threshold overrides — run %s, mode %s\n", report.RunID, report.Mode)
	fmt.Fprintf(&b, "# generated %s\n", report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))

	if len(report.ActiveVariables) > 0 {
		fmt.Fprintf(&b, "# active variables under %s mode:\n", report.Mode)
		for _, v := range report.ActiveVariables {
			fmt.Fprintf(&b, "#   %s=%.4f (range [%.2f, %.2f])\n", v.Name, v.Current, v.Min, v.Max)
		}
	}

	for _, rec := range report.Recommendations {
		fmt.Fprintf(&b, "\n# rank %d | %s | confidence=%s risk=%s | %s: %s (pass %.1f%% / target %.1f%%)\n",
			rec.PriorityRank,
			rec.Rationale.Category,
			rec.Confidence,
			rec.Risk,
			rec.Rationale.Direction,
			rec.Rationale.Pattern,
			rec.Rationale.PassRate,
			rec.Rationale.TargetPassRate)
		if rec.Rationale.Ambiguous {
			fmt.Fprintf(&b, "# ambiguous attribution — validate with boundary test points before applying\n")
		}
		fmt.Fprintf(&b, "# boundary test points: %v (current %.4f)\n", rec.BoundaryTestPoints, rec.CurrentValue)
		fmt.Fprintf(&b, "%s=%.4f\n", rec.VariableName, rec.RecommendedValue)
	}

	if len(report.Unmapped) > 0 {
		fmt.Fprintf(&b, "\n# unmapped categories (tuning still needed, no variable resolved under %s mode):\n", report.Mode)
		for _, u := range report.Unmapped {
			fmt.Fprintf(&b, "#   %s (%s, %s): %s\n", u.Category, u.CategoryType, u.Pattern, u.Reason)
		}
	}
	return b.String()
}

// #endregion
