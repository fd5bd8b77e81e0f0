// Package thresholds models the classifier's decision-threshold variables:
// a flat namespace of named numeric values partitioned by ensemble-mode
// prefix. The tuner reads them and recommends overrides; it never writes the
// live configuration.
package thresholds

// #region imports
import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// #endregion

// #region mode

// Mode is the classifier's decision-fusion strategy. It determines which
// threshold variable names are active; a recommendation against an inactive
// variable would have no effect.
type Mode string

const (
	ModeConsensus Mode = "consensus"
	ModeMajority  Mode = "majority"
	ModeWeighted  Mode = "weighted"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeConsensus, ModeMajority, ModeWeighted:
		return m, nil
	}
	return "", fmt.Errorf("unknown ensemble mode %q", s)
}

// #endregion

// #region variable

// Variable is one externally owned threshold value with its legal range.
type Variable struct {
	Name    string  `json:"name"`
	Mode    Mode    `json:"mode"`
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Clamp bounds x to the variable's valid range.
func (v Variable) Clamp(x float64) float64 {
	if x < v.Min {
		return v.Min
	}
	if x > v.Max {
		return v.Max
	}
	return x
}

// #endregion

// #region known-variables

// Per-mode detection boundaries plus a safety margin. The high/medium
// boundary is governed by *_HIGH_*, medium/low by *_MEDIUM_*, low/none by
// *_LOW_*.
const (
	ConsensusHigh   = "CONSENSUS_HIGH_THRESHOLD"
	ConsensusMedium = "CONSENSUS_MEDIUM_THRESHOLD"
	ConsensusLow    = "CONSENSUS_LOW_THRESHOLD"
	ConsensusMargin = "CONSENSUS_SAFETY_MARGIN"

	MajorityHigh   = "MAJORITY_HIGH_AGREEMENT"
	MajorityMedium = "MAJORITY_MEDIUM_AGREEMENT"
	MajorityLow    = "MAJORITY_LOW_AGREEMENT"
	MajorityMargin = "MAJORITY_SAFETY_MARGIN"

	WeightedHigh   = "WEIGHTED_HIGH_FLOOR"
	WeightedMedium = "WEIGHTED_MEDIUM_FLOOR"
	WeightedLow    = "WEIGHTED_LOW_FLOOR"
	WeightedMargin = "WEIGHTED_SAFETY_MARGIN"
)

// #endregion

// #region catalog

// Catalog is the read-only set of threshold variables for a run.
type Catalog struct {
	vars map[string]Variable
}

// Defaults returns the built-in catalog: every known variable with its
// shipped default and valid range.
func Defaults() *Catalog {
	defs := []Variable{
		{ConsensusHigh, ModeConsensus, 0.75, 0.50, 0.95},
		{ConsensusMedium, ModeConsensus, 0.55, 0.30, 0.80},
		{ConsensusLow, ModeConsensus, 0.35, 0.10, 0.60},
		{ConsensusMargin, ModeConsensus, 0.05, 0.00, 0.20},

		{MajorityHigh, ModeMajority, 0.67, 0.50, 1.00},
		{MajorityMedium, ModeMajority, 0.50, 0.34, 0.90},
		{MajorityLow, ModeMajority, 0.34, 0.10, 0.67},
		{MajorityMargin, ModeMajority, 0.05, 0.00, 0.20},

		{WeightedHigh, ModeWeighted, 0.70, 0.50, 0.95},
		{WeightedMedium, ModeWeighted, 0.50, 0.30, 0.80},
		{WeightedLow, ModeWeighted, 0.30, 0.10, 0.60},
		{WeightedMargin, ModeWeighted, 0.05, 0.00, 0.20},
	}
	c := &Catalog{vars: make(map[string]Variable, len(defs))}
	for _, v := range defs {
		c.vars[v.Name] = v
	}
	return c
}

// Load overlays the defaults with values from an env file (the classifier's
// deployed configuration). Unknown keys are ignored so the file can carry
// unrelated settings; malformed values for known variables are an error.
func Load(path string) (*Catalog, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read thresholds env file: %w", err)
	}
	c := Defaults()
	for key, raw := range env {
		v, known := c.vars[key]
		if !known {
			continue
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("threshold %s: parse %q: %w", key, raw, err)
		}
		if val < v.Min || val > v.Max {
			return nil, fmt.Errorf("threshold %s: %.4f outside valid range [%.2f, %.2f]", key, val, v.Min, v.Max)
		}
		v.Current = val
		c.vars[key] = v
	}
	return c, nil
}

// Get looks up a variable by name.
func (c *Catalog) Get(name string) (Variable, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// ForMode lists the variables active under one mode, sorted by name.
func (c *Catalog) ForMode(mode Mode) []Variable {
	var out []Variable
	for _, v := range c.vars {
		if v.Mode == mode {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// #endregion
