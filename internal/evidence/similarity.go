package evidence

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Scorer rates how alike two strings are, 0.0 (unrelated) to 1.0
// (identical). Evaluators take a Scorer so matching can be tuned or
// replaced without touching their control flow.
type Scorer interface {
	Score(a, b string) float64
}

// RatioScorer is the default scorer: a case-insensitive character-level
// sequence-match ratio.
type RatioScorer struct{}

func (RatioScorer) Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		if a == b {
			return 1
		}
		return 0
	}
	if a == b {
		return 1
	}
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "your": {}, "you": {},
	"are": {}, "has": {}, "have": {}, "this": {}, "that": {}, "from": {},
	"its": {}, "can": {}, "will": {}, "not": {},
}

// TokenOverlap measures what fraction of the claim's content words appear
// in the snippet. Used for attributing free-text tips to evidence.
func TokenOverlap(claim, snippet string) float64 {
	claimTokens := tokens(claim)
	if len(claimTokens) == 0 {
		return 0
	}
	snippetTokens := make(map[string]struct{})
	for _, t := range tokens(snippet) {
		snippetTokens[t] = struct{}{}
	}
	matched := 0
	for _, t := range claimTokens {
		if _, ok := snippetTokens[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(claimTokens))
}

func tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}
