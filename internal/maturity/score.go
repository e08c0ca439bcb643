// Package maturity converts per-safeguard answers into per-control
// implementation-group percentages and a discrete CMMI-style maturity level.
// This is pure domain logic - no I/O, no side effects.
package maturity

import (
	"sort"

	"cisattest/internal/catalog"
)

// Status is the answer recorded for a single safeguard.
type Status string

const (
	StatusImplemented    Status = "implemented"
	StatusPartial        Status = "partial"
	StatusNotImplemented Status = "not_implemented"
	StatusNotApplicable  Status = "not_applicable"
)

// ParseStatus coerces free-form input to a Status. Anything unrecognized is
// treated as not implemented, matching the default for missing answers.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusImplemented, StatusPartial, StatusNotApplicable:
		return Status(s)
	default:
		return StatusNotImplemented
	}
}

// Weight returns the score contribution of one answer. Not-applicable is
// explicitly not penalized.
func Weight(s Status) float64 {
	switch s {
	case StatusImplemented:
		return 1.0
	case StatusPartial:
		return 0.5
	case StatusNotApplicable:
		return 1.0
	default:
		return 0.0
	}
}

// ControlMaturity is the scored result for one control. Percentages are in
// [0,1]; Level is in {1..5}.
type ControlMaturity struct {
	Name  string  `json:"name"`
	IG1   float64 `json:"ig1"`
	IG2   float64 `json:"ig2"`
	IG3   float64 `json:"ig3"`
	Level int     `json:"cmmi"`
}

// Score computes per-control maturity and the report-wide average level.
// Answers for unknown safeguard ids are ignored; missing answers count as not
// implemented. The average is the unrounded arithmetic mean of the per-control
// levels, and 0.0 when the catalog has no controls; rounding is a presentation
// concern.
func Score(answers map[string]Status, safeguards []catalog.Safeguard) (map[int]ControlMaturity, float64) {
	grouped := catalog.GroupByControl(safeguards)

	names := make(map[int]string, len(grouped))
	for _, s := range safeguards {
		names[s.Control] = s.ControlName
	}

	result := make(map[int]ControlMaturity, len(grouped))
	controls := make([]int, 0, len(grouped))
	for ctrl := range grouped {
		controls = append(controls, ctrl)
	}
	sort.Ints(controls)

	var levelSum float64
	for _, ctrl := range controls {
		byGroup := grouped[ctrl]
		p1 := groupPercent(answers, byGroup[catalog.IG1])
		p2 := groupPercent(answers, byGroup[catalog.IG2])
		p3 := groupPercent(answers, byGroup[catalog.IG3])

		level := levelFromGroups(p1, p2, p3)
		result[ctrl] = ControlMaturity{
			Name:  names[ctrl],
			IG1:   p1,
			IG2:   p2,
			IG3:   p3,
			Level: level,
		}
		levelSum += float64(level)
	}

	if len(controls) == 0 {
		return result, 0.0
	}
	return result, levelSum / float64(len(controls))
}

// groupPercent is the arithmetic mean of member safeguard weights, 0.0 for an
// empty bucket.
func groupPercent(answers map[string]Status, members []catalog.Safeguard) float64 {
	if len(members) == 0 {
		return 0.0
	}
	var sum float64
	for _, s := range members {
		answer, ok := answers[s.ID]
		if !ok {
			answer = StatusNotImplemented
		}
		sum += Weight(answer)
	}
	return sum / float64(len(members))
}

// levelFromGroups classifies IG percentages into a maturity level. This is an
// ordered rule table: the first matching rule wins. The table is intentionally
// not monotonic for inputs between named thresholds (e.g. p2 in [0.40,0.50)
// with p1 >= 0.80 matches none of rules 1-4 and falls through to the
// catch-all); that gap is preserved verbatim from the source rule set.
func levelFromGroups(p1, p2, p3 float64) int {
	// Rule 1: nothing meaningful in place.
	if p1 < 0.20 && p2 < 0.20 {
		return 1
	}
	// Rule 2: IG1 solid, IG2 barely started.
	if p1 >= 0.80 && p2 < 0.40 {
		return 2
	}
	// Rule 3: IG1 solid, IG2 at half, IG3 weak.
	if p1 >= 0.80 && p2 >= 0.50 && p3 < 0.40 {
		return 3
	}
	// Rule 4: broad coverage; 5 only with strong depth everywhere.
	if p1 >= 0.80 && p2 >= 0.70 && p3 >= 0.40 {
		if p1 >= 0.90 && p2 >= 0.85 && p3 >= 0.70 {
			return 5
		}
		return 4
	}
	// Rule 5: catch-all on IG1 alone.
	if p1 >= 0.50 {
		return 2
	}
	return 1
}
