package scope

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	dayRefRe = regexp.MustCompile(`(?i)\bday\s+(\d+)\b`)
	// Word-bounded so "trip" never reads as "tip".
	tipRe = regexp.MustCompile(`(?i)\btips?\b|\badvice\b`)
)

// Heuristic infers edit scope from surface patterns in the instruction:
// day numbers, period names, and tip mentions. An instruction that names
// nothing concrete yields a broad scope at low confidence so the caller
// can surface the ambiguity instead of guessing.
type Heuristic struct{}

func (Heuristic) Infer(_ context.Context, instruction string) (Descriptor, error) {
	lower := strings.ToLower(strings.TrimSpace(instruction))
	if lower == "" {
		return Descriptor{Broad: true, Confidence: 0}, nil
	}

	var d Descriptor

	seen := make(map[int]struct{})
	for _, m := range dayRefRe.FindAllStringSubmatch(lower, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		d.Days = append(d.Days, n)
	}
	sort.Ints(d.Days)

	for _, period := range []string{"morning", "afternoon", "evening"} {
		if strings.Contains(lower, period) {
			d.Periods = append(d.Periods, period)
		}
	}
	// Meal words imply the period they usually sit in.
	if strings.Contains(lower, "breakfast") {
		d.Periods = appendUnique(d.Periods, "morning")
	}
	if strings.Contains(lower, "lunch") {
		d.Periods = appendUnique(d.Periods, "afternoon")
	}
	if strings.Contains(lower, "dinner") {
		d.Periods = appendUnique(d.Periods, "evening")
	}

	if tipRe.MatchString(lower) {
		d.Tips = true
	}

	switch {
	case len(d.Days) > 0:
		d.Confidence = 0.9
	case len(d.Periods) > 0 || d.Tips:
		d.Confidence = 0.7
	default:
		d.Broad = true
		d.Confidence = 0.25
	}
	return d, nil
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
