package evals

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"tripcheck/internal/evidence"
	"tripcheck/internal/itinerary"
	"tripcheck/internal/scope"
)

// EditScope compares the pre- and post-edit itineraries and confirms
// changes stay inside the scope the instruction asked for. The scope
// inferencer is pluggable; its errors and low-confidence descriptors
// surface as an uncertain verdict, never a guess.
func EditScope(ctx context.Context, before, after itinerary.Itinerary, instruction string, inf scope.Inferencer, scorer evidence.Scorer, cfg Config) Verdict {
	verdict := Verdict{Evaluator: "edit_scope"}

	desc, err := inf.Infer(ctx, instruction)
	if err != nil {
		verdict.Status = StatusUncertain
		verdict.Violations = []Violation{{
			Kind:    KindAmbiguousScope,
			Message: fmt.Sprintf("could not infer edit scope: %v", err),
		}}
		return verdict
	}

	changes, checks := diffItineraries(before, after, scorer, cfg.NameSimilarity)
	verdict.Checks = checks

	var inScope int
	for _, c := range changes {
		if covered(desc, c) {
			inScope++
			continue
		}
		verdict.Violations = append(verdict.Violations, Violation{
			Kind:     KindUnintendedChange,
			Day:      c.Day,
			Activity: c.Activity,
			Message:  c.describe(),
			Detail:   c.Diff,
		})
	}

	if desc.Confidence < cfg.MinScopeConfidence {
		verdict.Violations = append(verdict.Violations, Violation{
			Kind:    KindAmbiguousScope,
			Message: fmt.Sprintf("instruction %q did not resolve to a confident scope (confidence %.2f)", instruction, desc.Confidence),
		})
		// An out-of-scope change is still a failure even when the scope
		// was fuzzy; otherwise report the ambiguity.
		if ResolveStatus(verdict.Violations) == StatusFail {
			verdict.Status = StatusFail
		} else {
			verdict.Status = StatusUncertain
		}
		return verdict
	}

	if inScope == 0 {
		msg := "the requested scope shows no change"
		if len(changes) == 0 {
			msg = "the edit produced no change at all"
		}
		verdict.Violations = append(verdict.Violations, Violation{
			Kind:    KindScopeNotApplied,
			Message: msg,
		})
	}

	verdict.Status = ResolveStatus(verdict.Violations)
	return verdict
}

type change struct {
	Day      int
	Period   string
	Activity string
	Class    string
	Tips     bool
	Diff     string
}

func (c change) describe() string {
	if c.Tips {
		return "travel tips changed outside the requested scope"
	}
	if c.Activity == "" {
		return fmt.Sprintf("day %d %s outside the requested scope", c.Day, c.Class)
	}
	return fmt.Sprintf("day %d: %s %q outside the requested scope", c.Day, c.Class, c.Activity)
}

func covered(d scope.Descriptor, c change) bool {
	if c.Tips {
		return d.CoversTips()
	}
	if c.Activity == "" || c.Period == "" {
		return d.CoversDay(c.Day)
	}
	return d.CoversActivity(c.Day, c.Period)
}

func diffItineraries(before, after itinerary.Itinerary, scorer evidence.Scorer, threshold float64) ([]change, int) {
	var changes []change
	checks := 0

	indices := dayIndexUnion(before, after)
	for _, idx := range indices {
		checks++
		b, inBefore := before.Day(idx)
		a, inAfter := after.Day(idx)

		switch {
		case inBefore && !inAfter:
			changes = append(changes, change{Day: idx, Class: "removed", Diff: dayDiff(idx, b, itinerary.Day{})})
		case !inBefore && inAfter:
			changes = append(changes, change{Day: idx, Class: "added", Diff: dayDiff(idx, itinerary.Day{}, a)})
		default:
			changes = append(changes, diffDay(idx, b, a, scorer, threshold)...)
		}
	}

	checks++
	if tipsFingerprint(before.Tips) != tipsFingerprint(after.Tips) {
		changes = append(changes, change{Tips: true, Class: "modified"})
	}

	return changes, checks
}

func diffDay(idx int, before, after itinerary.Day, scorer evidence.Scorer, threshold float64) []change {
	var changes []change
	diff := dayDiff(idx, before, after)

	if before.Date != after.Date || before.Theme != after.Theme {
		changes = append(changes, change{Day: idx, Class: "retitled", Diff: diff})
	}

	pairs, removed, added := matchActivities(before.Activities, after.Activities, scorer, threshold)

	for _, p := range pairs {
		b := before.Activities[p[0]]
		a := after.Activities[p[1]]
		if !sameActivity(b, a) {
			changes = append(changes, change{
				Day:      idx,
				Period:   a.Period,
				Activity: a.Name,
				Class:    "modified",
				Diff:     diff,
			})
		}
	}
	for _, i := range removed {
		b := before.Activities[i]
		changes = append(changes, change{Day: idx, Period: b.Period, Activity: b.Name, Class: "removed", Diff: diff})
	}
	for _, i := range added {
		a := after.Activities[i]
		changes = append(changes, change{Day: idx, Period: a.Period, Activity: a.Name, Class: "added", Diff: diff})
	}
	return changes
}

// matchActivities pairs activities across an edit: by stable ID where
// both sides carry one, otherwise by name similarity in schedule order.
func matchActivities(before, after []itinerary.Activity, scorer evidence.Scorer, threshold float64) (pairs [][2]int, removed, added []int) {
	usedAfter := make([]bool, len(after))
	matchedBefore := make([]bool, len(before))

	for bi, b := range before {
		if b.ID == "" {
			continue
		}
		for ai, a := range after {
			if usedAfter[ai] || a.ID != b.ID {
				continue
			}
			pairs = append(pairs, [2]int{bi, ai})
			usedAfter[ai] = true
			matchedBefore[bi] = true
			break
		}
	}

	for bi, b := range before {
		if matchedBefore[bi] {
			continue
		}
		bestScore := 0.0
		bestIdx := -1
		for ai, a := range after {
			if usedAfter[ai] || a.ID != "" && b.ID != "" {
				continue
			}
			if s := scorer.Score(b.Name, a.Name); s > bestScore {
				bestScore = s
				bestIdx = ai
			}
		}
		if bestIdx >= 0 && bestScore >= threshold {
			pairs = append(pairs, [2]int{bi, bestIdx})
			usedAfter[bestIdx] = true
			matchedBefore[bi] = true
		}
	}

	for bi := range before {
		if !matchedBefore[bi] {
			removed = append(removed, bi)
		}
	}
	for ai := range after {
		if !usedAfter[ai] {
			added = append(added, ai)
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })
	return pairs, removed, added
}

func sameActivity(a, b itinerary.Activity) bool {
	return a.Name == b.Name &&
		a.Location == b.Location &&
		a.Category == b.Category &&
		a.Start == b.Start &&
		a.Duration == b.Duration &&
		a.TravelToNext == b.TravelToNext
}

func dayIndexUnion(before, after itinerary.Itinerary) []int {
	seen := make(map[int]struct{})
	for _, d := range before.Days {
		seen[d.Index] = struct{}{}
	}
	for _, d := range after.Days {
		seen[d.Index] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func tipsFingerprint(tips []itinerary.Tip) string {
	lines := make([]string, 0, len(tips))
	for _, t := range tips {
		lines = append(lines, fmt.Sprintf("%d\x00%s\x00%s", t.Day, t.Text, t.Source))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// dayDiff renders a unified diff of a day's schedule for violation
// details.
func dayDiff(idx int, before, after itinerary.Day) string {
	diff := difflib.UnifiedDiff{
		A:        dayLines(before),
		B:        dayLines(after),
		FromFile: fmt.Sprintf("before/day-%d", idx),
		ToFile:   fmt.Sprintf("after/day-%d", idx),
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return strings.TrimRight(text, "\n")
}

func dayLines(d itinerary.Day) []string {
	var lines []string
	if d.Date != "" || d.Theme != "" {
		lines = append(lines, fmt.Sprintf("%s - %s\n", d.Date, d.Theme))
	}
	for _, a := range d.Activities {
		lines = append(lines, fmt.Sprintf("%s-%s %s (%s)\n", a.Start, a.End(), a.Name, a.Category))
	}
	return lines
}
