// Package corpus holds the category rule set and phrase corpus: static,
// load-once configuration describing what the classifier is tested against.
package corpus

// #region imports
import (
	"fmt"
	"strings"

	"github.com/crisis-detection/threshold-tuner/internal/priority"
)

// #endregion

// #region kind

// Kind determines how a detected priority is matched against expectations.
type Kind string

const (
	// KindDefinite requires an exact detected-priority match.
	KindDefinite Kind = "definite"
	// KindMaybe accepts either of two adjacent priority levels.
	KindMaybe Kind = "maybe"
)

// #endregion

// #region category-spec

// CategorySpec is the rule set for one test category. Loaded once per run,
// read-only afterwards.
type CategorySpec struct {
	Name              string           `yaml:"name"`
	Kind              Kind             `yaml:"kind"`
	TargetPassRate    float64          `yaml:"target_pass_rate"`
	IsCritical        bool             `yaml:"critical"`
	Accepted          []priority.Level `yaml:"accepted_priorities"`
	AllowEscalation   bool             `yaml:"allow_escalation"`
	AllowDeescalation bool             `yaml:"allow_deescalation"`
}

// Accepts reports whether the detected level is inside the accepted set.
func (s CategorySpec) Accepts(l priority.Level) bool {
	for _, a := range s.Accepted {
		if a == l {
			return true
		}
	}
	return false
}

// MinAccepted returns the lowest-ranked accepted level.
func (s CategorySpec) MinAccepted() priority.Level {
	min := s.Accepted[0]
	for _, a := range s.Accepted[1:] {
		if a.Rank() < min.Rank() {
			min = a
		}
	}
	return min
}

// MaxAccepted returns the highest-ranked accepted level.
func (s CategorySpec) MaxAccepted() priority.Level {
	max := s.Accepted[0]
	for _, a := range s.Accepted[1:] {
		if a.Rank() > max.Rank() {
			max = a
		}
	}
	return max
}

// Type derives the category type key used by the tuning variable table:
// "definite_<level>" or "maybe_<upper>_<lower>".
func (s CategorySpec) Type() string {
	if s.Kind == KindDefinite {
		return fmt.Sprintf("definite_%s", s.Accepted[0])
	}
	return fmt.Sprintf("maybe_%s_%s", s.MaxAccepted(), s.MinAccepted())
}

// #endregion

// #region test-phrase

// TestPhrase is one immutable corpus entry.
type TestPhrase struct {
	Text       string         `yaml:"text"`
	Expected   priority.Level `yaml:"expected"`
	Difficulty string         `yaml:"difficulty,omitempty"`
}

// #endregion

// #region category

// Category bundles a spec with its phrases, in declared order.
type Category struct {
	Spec    CategorySpec `yaml:",inline"`
	Phrases []TestPhrase `yaml:"phrases"`
}

// #endregion

// #region validate

// Validate checks internal consistency of a loaded category.
func (c Category) Validate() error {
	s := c.Spec
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("category missing name")
	}
	if s.Kind != KindDefinite && s.Kind != KindMaybe {
		return fmt.Errorf("category %s: unknown kind %q", s.Name, s.Kind)
	}
	if s.TargetPassRate < 0 || s.TargetPassRate > 100 {
		return fmt.Errorf("category %s: target_pass_rate %.1f out of range [0,100]", s.Name, s.TargetPassRate)
	}
	for _, a := range s.Accepted {
		if !a.Valid() {
			return fmt.Errorf("category %s: invalid accepted priority %q", s.Name, a)
		}
	}

	switch s.Kind {
	case KindDefinite:
		if len(s.Accepted) != 1 {
			return fmt.Errorf("category %s: definite categories accept exactly one priority, got %d", s.Name, len(s.Accepted))
		}
		if s.AllowEscalation || s.AllowDeescalation {
			return fmt.Errorf("category %s: escalation flags are only meaningful for maybe categories", s.Name)
		}
	case KindMaybe:
		if len(s.Accepted) != 2 {
			return fmt.Errorf("category %s: maybe categories accept exactly two priorities, got %d", s.Name, len(s.Accepted))
		}
		if priority.Distance(s.Accepted[0], s.Accepted[1]) != 1 {
			return fmt.Errorf("category %s: accepted priorities must be adjacent levels", s.Name)
		}
		// Exactly one tolerated mismatch direction produces the two-level band.
		if s.AllowEscalation == s.AllowDeescalation {
			return fmt.Errorf("category %s: exactly one of allow_escalation/allow_deescalation must be set", s.Name)
		}
	}

	if len(c.Phrases) == 0 {
		return fmt.Errorf("category %s: no phrases", s.Name)
	}
	for i, p := range c.Phrases {
		if strings.TrimSpace(p.Text) == "" {
			return fmt.Errorf("category %s: phrase %d has empty text", s.Name, i)
		}
		if !p.Expected.Valid() {
			return fmt.Errorf("category %s: phrase %d has invalid expected priority %q", s.Name, i, p.Expected)
		}
		if !s.Accepts(p.Expected) {
			return fmt.Errorf("category %s: phrase %d expects %q outside accepted set", s.Name, i, p.Expected)
		}
	}
	return nil
}

// #endregion
