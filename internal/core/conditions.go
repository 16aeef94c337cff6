// Package core holds the study domain logic: which datasets make up the
// experiment, how growth sheets are joined against the EC condition mapping,
// and the derived statistics the dashboard displays. It has no UI
// dependencies and can be driven by any frontend.
package core

import (
	"sort"
	"strconv"
)

// Conditions is the fixed experimental mapping from school (logical key) to
// the EC concentration that school grew its plants at. It is supplied by the
// caller, not derived from the data files.
type Conditions map[string]float64

// OptimalEC is the concentration highlighted on the weight chart as the
// study's best-performing condition.
const OptimalEC = 2.0

// DefaultConditions returns the four-school mapping of the original study.
func DefaultConditions() Conditions {
	return Conditions{
		"송도고": 1.0,
		"하늘고": 2.0,
		"아라고": 4.0,
		"동산고": 8.0,
	}
}

// Lookup returns the EC concentration for a school. A school absent from the
// mapping yields ok == false — never a zero concentration, which would be
// indistinguishable from a real condition.
func (c Conditions) Lookup(school string) (ec float64, ok bool) {
	ec, ok = c[school]
	return ec, ok
}

// Schools returns the mapped schools ordered by ascending concentration, so
// charts and tables present conditions low to high.
func (c Conditions) Schools() []string {
	out := make([]string, 0, len(c))
	for s := range c {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if c[out[i]] != c[out[j]] {
			return c[out[i]] < c[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// FormatEC renders a concentration the way the dashboard labels it.
func FormatEC(ec float64) string {
	return strconv.FormatFloat(ec, 'f', -1, 64)
}
