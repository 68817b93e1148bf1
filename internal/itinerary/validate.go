package itinerary

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError captures a single field-specific validation issue.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// Normalize sorts days by index and each day's activities by start time,
// restoring the ordering invariant regardless of input order.
func (it *Itinerary) Normalize() {
	sort.SliceStable(it.Days, func(i, j int) bool {
		return it.Days[i].Index < it.Days[j].Index
	})
	for di := range it.Days {
		acts := it.Days[di].Activities
		sort.SliceStable(acts, func(i, j int) bool {
			return acts[i].Start < acts[j].Start
		})
	}
}

// Validate reports structural problems that make the itinerary unusable.
// Incomplete activities (missing duration or location) are not errors here;
// the evaluators surface those as violations.
func (it Itinerary) Validate() error {
	var errs ValidationErrors
	source := it.Source
	if source == "" {
		source = "itinerary"
	}

	seen := make(map[int]struct{}, len(it.Days))
	for di, day := range it.Days {
		if day.Index <= 0 {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fmt.Sprintf("days[%d].day", di),
				Message: "day index must be positive",
			})
		}
		if _, dup := seen[day.Index]; dup {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fmt.Sprintf("days[%d].day", di),
				Message: fmt.Sprintf("day %d appears more than once", day.Index),
			})
		}
		seen[day.Index] = struct{}{}

		for ai, act := range day.Activities {
			field := fmt.Sprintf("days[%d].activities[%d]", di, ai)
			if act.Start < 0 || act.Start >= minutesPerDay {
				errs = append(errs, ValidationError{
					File:    source,
					Field:   field + ".start",
					Message: fmt.Sprintf("start %d out of range", int(act.Start)),
				})
			}
			if act.Duration < 0 {
				errs = append(errs, ValidationError{
					File:    source,
					Field:   field + ".duration_minutes",
					Message: "duration cannot be negative",
				})
			}
			if act.TravelToNext < 0 {
				errs = append(errs, ValidationError{
					File:    source,
					Field:   field + ".travel_to_next_minutes",
					Message: "travel time cannot be negative",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
