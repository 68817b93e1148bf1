// Package scope turns a natural-language edit instruction into a
// structured description of what the edit was allowed to touch.
package scope

import "context"

// Descriptor bounds an edit. Empty Days with empty Periods and Tips
// unset means the instruction named nothing concrete; Broad marks the
// descriptor as covering the whole itinerary.
type Descriptor struct {
	Days       []int
	Periods    []string
	Tips       bool
	Broad      bool
	Confidence float64
}

// Inferencer derives a scope descriptor from an edit instruction.
// Implementations report their confidence; callers decide how much
// confidence is enough to judge on.
type Inferencer interface {
	Infer(ctx context.Context, instruction string) (Descriptor, error)
}

// CoversDay reports whether a change to the given day is in scope.
func (d Descriptor) CoversDay(day int) bool {
	if d.Broad {
		return true
	}
	for _, v := range d.Days {
		if v == day {
			return true
		}
	}
	return false
}

// CoversActivity reports whether a change to an activity on the given
// day, in the given period, is in scope. Day and period references are
// alternatives: "day 2" covers all of day 2, "the morning" covers
// mornings on any day.
func (d Descriptor) CoversActivity(day int, period string) bool {
	if d.CoversDay(day) {
		return true
	}
	for _, p := range d.Periods {
		if p == period {
			return true
		}
	}
	return false
}

// CoversTips reports whether changes to the tips section are in scope.
func (d Descriptor) CoversTips() bool {
	return d.Broad || d.Tips
}

// Targeted reports whether the descriptor names anything concrete.
func (d Descriptor) Targeted() bool {
	return len(d.Days) > 0 || len(d.Periods) > 0 || d.Tips
}
