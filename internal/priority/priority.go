// Package priority defines the crisis priority scale shared by the corpus,
// the execution engine, and the tuning engine.
package priority

// #region imports
import (
	"fmt"
	"strings"
)

// #endregion

// #region level

// Level is one step on the crisis priority scale, as emitted by the
// classifier's analyze endpoint.
type Level string

const (
	None   Level = "none"
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Levels lists all levels in ascending order of urgency.
var Levels = []Level{None, Low, Medium, High}

// #endregion

// #region rank

// Rank returns the ordinal position of the level on the scale, None=0 .. High=3.
func (l Level) Rank() int {
	switch l {
	case None:
		return 0
	case Low:
		return 1
	case Medium:
		return 2
	case High:
		return 3
	}
	return -1
}

// Valid reports whether l is one of the four known levels.
func (l Level) Valid() bool {
	return l.Rank() >= 0
}

// #endregion

// #region distance

// Distance returns the absolute number of levels between a and b.
func Distance(a, b Level) int {
	d := a.Rank() - b.Rank()
	if d < 0 {
		d = -d
	}
	return d
}

// MaxDistance is the widest possible gap on the scale (none ↔ high).
const MaxDistance = 3

// #endregion

// #region parse

// Parse converts a wire value into a Level. Comparison is case-insensitive.
func Parse(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown priority level %q (valid: %v)", s, Levels)
	}
	return l, nil
}

// #endregion
