package evidence

import "testing"

func TestRatioScorer(t *testing.T) {
	s := RatioScorer{}

	if got := s.Score("Prado Museum", "prado museum"); got != 1 {
		t.Fatalf("case-insensitive identical score = %.2f, want 1", got)
	}
	if got := s.Score("Prado Museum", "Prado Museum tour"); got < 0.7 {
		t.Fatalf("near-identical score = %.2f, want >= 0.7", got)
	}
	if got := s.Score("Prado Museum", "Tokyo Tower"); got > 0.5 {
		t.Fatalf("unrelated score = %.2f, want < 0.5", got)
	}
	if got := s.Score("", ""); got != 1 {
		t.Fatalf("empty-vs-empty = %.2f, want 1", got)
	}
	if got := s.Score("x", ""); got != 0 {
		t.Fatalf("nonempty-vs-empty = %.2f, want 0", got)
	}
}

func TestTokenOverlap(t *testing.T) {
	claim := "Book Prado tickets online ahead"
	snippet := "Buy Prado Museum tickets online in advance to skip lines"
	if got := TokenOverlap(claim, snippet); got < 0.5 {
		t.Fatalf("overlap = %.2f, want >= 0.5", got)
	}
	if got := TokenOverlap(claim, "Weather in May is mild"); got != 0 {
		t.Fatalf("unrelated overlap = %.2f, want 0", got)
	}
	if got := TokenOverlap("", snippet); got != 0 {
		t.Fatalf("empty claim overlap = %.2f, want 0", got)
	}
}

func TestCanonicalize(t *testing.T) {
	entries := []Entry{
		{Source: " search ", Name: " Zoo "},
		{Source: "search", Name: "Zoo"},
		{Source: "rag", Snippet: "A snippet"},
		{Source: "empty"},
	}
	got := Canonicalize(entries)
	if len(got) != 2 {
		t.Fatalf("canonicalized = %d entries, want 2: %+v", len(got), got)
	}
	// Sorted by name: the nameless snippet entry first.
	if got[0].Snippet != "A snippet" || got[1].Name != "Zoo" {
		t.Fatalf("order wrong: %+v", got)
	}
	if got[1].Source != "search" {
		t.Fatalf("source not trimmed: %q", got[1].Source)
	}
}

func TestSourcesSortedDistinct(t *testing.T) {
	s := Set{Entries: []Entry{
		{Source: "wikivoyage"},
		{Source: "search"},
		{Source: "wikivoyage"},
	}}
	got := s.Sources()
	if len(got) != 2 || got[0] != "search" || got[1] != "wikivoyage" {
		t.Fatalf("sources = %v", got)
	}
}
