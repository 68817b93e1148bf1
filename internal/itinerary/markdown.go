package itinerary

import (
	"regexp"
	"strconv"
	"strings"
)

// The synthesis side emits itineraries in a fixed markdown dialect:
//
//	# Day 1: 2026-05-01 - Old Town
//	* Morning (9 AM - 12 PM): Visit the Prado Museum
//	* Afternoon: Lunch at the Mercado San Miguel market
//	**Travel Tips:**
//	* Book tickets ahead [Source: Wikivoyage - Madrid - See]
var (
	dayHeaderRe  = regexp.MustCompile(`(?i)^#{1,2}\s*Day\s+(\d+)\s*:\s*(.+)$`)
	activityRe   = regexp.MustCompile(`(?i)^[*-]\s*(Morning|Afternoon|Evening)(?:\s*\(([^)]*)\))?\s*:\s*(.+)$`)
	tipsHeaderRe = regexp.MustCompile(`(?i)^\*\*Travel Tips:?\*\*`)
	tipBulletRe  = regexp.MustCompile(`^[*-]\s+(.+)$`)
	tipSourceRe  = regexp.MustCompile(`\[Source:\s*([^\]]+)\]`)
	timeRangeRe  = regexp.MustCompile(`(?i)^\s*([0-9: ]+(?:am|pm)?)\s*[-–]\s*([0-9: ]+(?:am|pm)?)\s*$`)
)

// ParseMarkdown converts a markdown itinerary into the structured model.
// Parsing is best-effort: lines that match nothing are ignored, and
// activities without an explicit time range take their period's default
// window. The evaluators report anything still missing.
func ParseMarkdown(text string) Itinerary {
	var it Itinerary
	var current *Day
	inTips := false
	tipDay := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := dayHeaderRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				it.Days = append(it.Days, *current)
			}
			idx, _ := strconv.Atoi(m[1])
			date, theme := splitDayTitle(m[2])
			current = &Day{Index: idx, Date: date, Theme: theme}
			inTips = false
			tipDay = idx
			continue
		}

		if tipsHeaderRe.MatchString(line) {
			inTips = true
			tipDay = 0
			continue
		}

		if inTips {
			if m := tipBulletRe.FindStringSubmatch(line); m != nil {
				it.Tips = append(it.Tips, parseTip(m[1], tipDay))
			}
			continue
		}

		if m := activityRe.FindStringSubmatch(line); m != nil && current != nil {
			current.Activities = append(current.Activities, parseActivity(m[1], m[2], m[3]))
		}
	}

	if current != nil {
		it.Days = append(it.Days, *current)
	}

	it.Normalize()
	return it
}

func splitDayTitle(title string) (date, theme string) {
	parts := strings.SplitN(title, " - ", 2)
	date = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		theme = strings.TrimSpace(parts[1])
	}
	return date, theme
}

func parseActivity(period, timeRange, description string) Activity {
	period = strings.ToLower(period)
	description = strings.TrimSpace(description)

	act := Activity{
		Name:     description,
		Category: guessCategory(description),
		Period:   period,
	}
	if places := ExtractPlaces(description); len(places) > 0 {
		act.Location = places[0]
	}

	window, ok := DefaultPeriods[period]
	if !ok {
		window = DefaultPeriods["morning"]
	}
	act.Start = window.Start
	act.Duration = window.End - window.Start

	if m := timeRangeRe.FindStringSubmatch(timeRange); m != nil {
		start, errA := ParseClockLoose(m[1])
		end, errB := ParseClockLoose(m[2])
		if errA == nil && errB == nil && end > start {
			act.Start = start
			act.Duration = end - start
		}
	}
	return act
}

func parseTip(text string, day int) Tip {
	tip := Tip{Day: day}
	if m := tipSourceRe.FindStringSubmatch(text); m != nil {
		tip.Source = strings.TrimSpace(m[1])
		text = strings.TrimSpace(tipSourceRe.ReplaceAllString(text, ""))
	}
	tip.Text = strings.TrimSpace(text)
	return tip
}

var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryMeal, []string{"breakfast", "lunch", "dinner", "restaurant", "cafe", "tapas", "food tour"}},
	{CategoryTransit, []string{"transfer", "train", "flight", "drive", "ferry", "bus to"}},
	{CategoryShopping, []string{"market", "shopping", "bazaar"}},
	{CategoryRest, []string{"rest", "relax", "check in", "check-in"}},
}

func guessCategory(description string) Category {
	lower := strings.ToLower(description)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lower, w) {
				return ck.category
			}
		}
	}
	return CategorySightseeing
}
