package evals

import (
	"fmt"

	"tripcheck/internal/itinerary"
)

// Feasibility validates an itinerary against the daily active window,
// overlap, travel, and pacing rules. Incomplete activities become
// InsufficientData violations rather than aborting the run.
func Feasibility(it itinerary.Itinerary, cfg Config) Verdict {
	var violations []Violation
	checks := 0

	for _, day := range it.Days {
		if len(day.Activities) == 0 {
			checks++
			violations = append(violations, Violation{
				Kind:    KindEmptyDay,
				Day:     day.Index,
				Message: fmt.Sprintf("day %d has no activities scheduled", day.Index),
			})
			continue
		}

		violations = append(violations, checkCompleteness(day, &checks)...)
		violations = append(violations, checkWindow(day, cfg, &checks)...)
		violations = append(violations, checkOverlap(day, &checks)...)
		violations = append(violations, checkTravel(day, cfg, &checks)...)
		violations = append(violations, checkPacing(day, cfg, &checks)...)
	}

	return Verdict{
		Evaluator:  "feasibility",
		Status:     ResolveStatus(violations),
		Violations: violations,
		Checks:     checks,
	}
}

func checkCompleteness(day itinerary.Day, checks *int) []Violation {
	var out []Violation
	for _, a := range day.Activities {
		*checks++
		switch {
		case a.Name == "":
			out = append(out, Violation{
				Kind:    KindInsufficientData,
				Day:     day.Index,
				Message: fmt.Sprintf("day %d has an unnamed activity at %s", day.Index, a.Start),
			})
		case a.Duration <= 0:
			out = append(out, Violation{
				Kind:     KindInsufficientData,
				Day:      day.Index,
				Activity: a.Name,
				Message:  fmt.Sprintf("%q has no duration; the day cannot be fully validated", a.Name),
			})
		case a.Location == "":
			out = append(out, Violation{
				Kind:     KindInsufficientData,
				Day:      day.Index,
				Activity: a.Name,
				Message:  fmt.Sprintf("%q has no location; travel times cannot be verified", a.Name),
			})
		}
	}
	return out
}

func checkWindow(day itinerary.Day, cfg Config, checks *int) []Violation {
	var out []Violation
	for _, a := range day.Activities {
		if a.Duration <= 0 {
			continue
		}
		*checks++
		if a.Start < cfg.WindowStart || a.End() > cfg.WindowEnd {
			out = append(out, Violation{
				Kind:     KindOutOfWindow,
				Day:      day.Index,
				Activity: a.Name,
				Message: fmt.Sprintf("%q runs %s-%s, outside the active window %s-%s",
					a.Name, a.Start, a.End(), cfg.WindowStart, cfg.WindowEnd),
			})
		}
	}
	return out
}

func checkOverlap(day itinerary.Day, checks *int) []Violation {
	var out []Violation
	for i := 1; i < len(day.Activities); i++ {
		prev := day.Activities[i-1]
		next := day.Activities[i]
		if prev.Duration <= 0 {
			continue
		}
		*checks++
		earliest := prev.End() + prev.TravelToNext
		if next.Start < earliest {
			out = append(out, Violation{
				Kind:     KindOverlap,
				Day:      day.Index,
				Activity: next.Name,
				Message: fmt.Sprintf("%q starts at %s but %q (plus travel) runs until %s",
					next.Name, next.Start, prev.Name, earliest),
			})
		}
	}
	return out
}

func checkTravel(day itinerary.Day, cfg Config, checks *int) []Violation {
	var out []Violation
	for i, a := range day.Activities {
		if a.TravelToNext <= 0 || i == len(day.Activities)-1 {
			continue
		}
		*checks++
		if a.TravelToNext > cfg.MaxTravel {
			out = append(out, Violation{
				Kind:     KindTravelOverrun,
				Day:      day.Index,
				Activity: a.Name,
				Message: fmt.Sprintf("travel after %q is %d min, above the %d min ceiling",
					a.Name, int(a.TravelToNext), int(cfg.MaxTravel)),
			})
			continue
		}
		remaining := cfg.WindowEnd - a.End()
		if remaining > 0 && float64(a.TravelToNext) > cfg.TravelRemainderMax*float64(remaining) {
			out = append(out, Violation{
				Kind:     KindTravelOverrun,
				Day:      day.Index,
				Activity: a.Name,
				Message: fmt.Sprintf("travel after %q (%d min) consumes more than %.0f%% of the %d min left in the day",
					a.Name, int(a.TravelToNext), cfg.TravelRemainderMax*100, int(remaining)),
			})
		}
	}
	return out
}

func checkPacing(day itinerary.Day, cfg Config, checks *int) []Violation {
	var out []Violation

	*checks++
	if n := len(day.Activities); n > cfg.MaxActivitiesPerDay {
		out = append(out, Violation{
			Kind:    KindPacingImbalance,
			Day:     day.Index,
			Message: fmt.Sprintf("day %d schedules %d activities; max recommended is %d", day.Index, n, cfg.MaxActivitiesPerDay),
		})
	}

	for _, a := range day.Activities {
		if a.Duration <= 0 {
			continue
		}
		*checks++
		if a.Duration < cfg.MinActivity {
			out = append(out, Violation{
				Kind:     KindPacingImbalance,
				Day:      day.Index,
				Activity: a.Name,
				Message:  fmt.Sprintf("%q lasts only %d min; below the %d min minimum", a.Name, int(a.Duration), int(cfg.MinActivity)),
			})
		}
	}

	// Skip the fill-fraction check when durations are missing; the
	// completeness check already reported those.
	total := day.TotalActivity()
	if total == 0 {
		return out
	}
	*checks++
	window := float64(cfg.WindowEnd - cfg.WindowStart)
	frac := float64(total) / window
	switch {
	case frac < cfg.PacingMin:
		out = append(out, Violation{
			Kind:    KindPacingImbalance,
			Day:     day.Index,
			Message: fmt.Sprintf("day %d fills only %.0f%% of the active window; below the %.0f%% minimum", day.Index, frac*100, cfg.PacingMin*100),
		})
	case frac > cfg.PacingMax:
		out = append(out, Violation{
			Kind:    KindPacingImbalance,
			Day:     day.Index,
			Message: fmt.Sprintf("day %d fills %.0f%% of the active window; above the %.0f%% maximum", day.Index, frac*100, cfg.PacingMax*100),
		})
	}
	return out
}
