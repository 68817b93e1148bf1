package evals

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"tripcheck/internal/evidence"
	"tripcheck/internal/itinerary"
)

// Grounding cross-checks the itinerary's POIs and tips against retrieved
// evidence. With no evidence, or too little of it relative to what the
// itinerary references, the verdict is uncertain: absence of evidence is
// surfaced, never treated as a pass.
func Grounding(it itinerary.Itinerary, ev evidence.Set, scorer evidence.Scorer, cfg Config) Verdict {
	verdict := Verdict{Evaluator: "grounding"}

	pois := referencedPOIs(it)
	claims := it.Tips
	verdict.Checks = len(pois) + len(claims)

	verdict.Violations = checkUncertainty(it)

	if ev.Empty() {
		verdict.Status = StatusUncertain
		verdict.Violations = append(verdict.Violations, Violation{
			Kind:    KindEvidenceGap,
			Message: "no evidence supplied; grounding cannot be assessed",
		})
		return verdict
	}

	if len(pois) == 0 && len(claims) == 0 {
		verdict.Status = ResolveStatus(verdict.Violations)
		return verdict
	}

	if len(pois) > 0 {
		coverage := float64(len(ev.Entries)) / float64(len(pois))
		if coverage < cfg.CoverageRatio {
			verdict.Status = StatusUncertain
			verdict.Violations = append(verdict.Violations, Violation{
				Kind: KindEvidenceGap,
				Message: fmt.Sprintf("evidence covers %d entries for %d referenced places (%.2f per place, need %.2f); grounding cannot be judged",
					len(ev.Entries), len(pois), coverage, cfg.CoverageRatio),
			})
			return verdict
		}
	}

	for _, poi := range pois {
		if !grounded(poi, ev, scorer, cfg.NameSimilarity) {
			verdict.Violations = append(verdict.Violations, Violation{
				Kind:     KindUngroundedPOI,
				Day:      poi.Day,
				Activity: poi.Name,
				Message:  fmt.Sprintf("%q does not match any evidence entry; it may be hallucinated", poi.Name),
			})
		}
	}

	sources := ev.Sources()
	for _, tip := range claims {
		if !supported(tip, ev, sources, cfg.ClaimSupport) {
			verdict.Violations = append(verdict.Violations, Violation{
				Kind:    KindUnsupportedClaim,
				Day:     tip.Day,
				Message: fmt.Sprintf("tip %q is not attributable to any evidence snippet", tip.Text),
			})
		}
	}

	verdict.Status = ResolveStatus(verdict.Violations)
	return verdict
}

type poiRef struct {
	Name string
	Day  int
}

// referencedPOIs collects the distinct places the itinerary names,
// preferring explicit activity locations and falling back to extraction
// from activity descriptions.
func referencedPOIs(it itinerary.Itinerary) []poiRef {
	var out []poiRef
	seen := make(map[string]struct{})

	add := func(name string, day int) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, poiRef{Name: name, Day: day})
	}

	for _, day := range it.Days {
		for _, a := range day.Activities {
			if a.Location != "" {
				add(a.Location, day.Index)
				continue
			}
			for _, place := range itinerary.ExtractPlaces(a.Name) {
				add(place, day.Index)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func grounded(poi poiRef, ev evidence.Set, scorer evidence.Scorer, threshold float64) bool {
	lower := strings.ToLower(poi.Name)
	for _, e := range ev.Entries {
		name := strings.ToLower(e.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, lower) || strings.Contains(lower, name) {
			return true
		}
		if scorer.Score(poi.Name, e.Name) >= threshold {
			return true
		}
	}
	return false
}

var (
	uncertaintyRe = regexp.MustCompile(`(?i)\b(?:may|might|could|possibly|perhaps|uncertain|not sure|no data|unavailable|cannot confirm|limited information)\b`)
	hedgeNeededRe = regexp.MustCompile(`(?i)\b(?:weather|forecast)\b|\bno results\b`)
)

// checkUncertainty flags forecast-style prose stated as fact. Weather
// claims and failed-lookup mentions must carry explicit uncertainty
// language; the agent cannot know the weather weeks out.
func checkUncertainty(it itinerary.Itinerary) []Violation {
	var out []Violation

	flag := func(text string, day int) {
		if !hedgeNeededRe.MatchString(text) || uncertaintyRe.MatchString(text) {
			return
		}
		out = append(out, Violation{
			Kind:    KindMissingUncertainty,
			Day:     day,
			Message: fmt.Sprintf("%q states an unverifiable claim without uncertainty language", text),
		})
	}

	for _, tip := range it.Tips {
		flag(tip.Text, tip.Day)
	}
	for _, day := range it.Days {
		for _, a := range day.Activities {
			flag(a.Name, day.Index)
		}
	}
	return out
}

func supported(tip itinerary.Tip, ev evidence.Set, sources []string, threshold float64) bool {
	// An explicit citation naming a known source settles it.
	if tip.Source != "" {
		cite := strings.ToLower(tip.Source)
		for _, src := range sources {
			s := strings.ToLower(src)
			if strings.Contains(cite, s) || strings.Contains(s, cite) {
				return true
			}
		}
	}

	for _, e := range ev.Entries {
		if e.Snippet != "" && evidence.TokenOverlap(tip.Text, e.Snippet) >= threshold {
			return true
		}
		if e.Name != "" && evidence.TokenOverlap(tip.Text, e.Name) >= threshold {
			return true
		}
	}
	return false
}
