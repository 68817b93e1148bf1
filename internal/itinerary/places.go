package itinerary

import (
	"regexp"
	"strings"
)

const placeSuffix = `(?:museum|temple|palace|fort|park|market|restaurant|cafe|gallery|monument|cathedral|church|mosque|square|garden|bridge|tower|castle)`

var (
	placeVerbRe = regexp.MustCompile(`(?i)(?:visit|explore|tour|see|discover|at|to)\s+(?:the\s+)?([A-Z][\w' ]+?\s+` + placeSuffix + `)\b`)
	placeAreaRe = regexp.MustCompile(`(?i)\bin\s+(?:the\s+)?([A-Z][\w' ]+?\s+(?:area|district|neighborhood|quarter))\b`)
	quotedRe    = regexp.MustCompile(`"([^"]+)"`)
)

// ExtractPlaces pulls likely POI names out of a free-text activity
// description: "Visit the Prado Museum", "Lunch at Mercado San Miguel
// market", quoted names. Best-effort; ungrounded extraction errors show
// up as grounding violations, not parse failures.
func ExtractPlaces(description string) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(name string) {
		name = strings.TrimSpace(name)
		if len(name) <= 2 {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}

	for _, re := range []*regexp.Regexp{placeVerbRe, placeAreaRe, quotedRe} {
		for _, m := range re.FindAllStringSubmatch(description, -1) {
			add(m[1])
		}
	}
	return out
}
