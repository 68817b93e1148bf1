package evidence

import (
	"sort"
	"strings"
)

// Entry is a single retrieved fact: a POI record from search or a
// passage snippet from retrieval, tagged with its source.
type Entry struct {
	Source   string `yaml:"source" json:"source"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Snippet  string `yaml:"snippet,omitempty" json:"snippet,omitempty"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
}

// Set is the evidence collection an itinerary is checked against.
type Set struct {
	Entries []Entry
}

// Empty reports whether the set carries no usable entries.
func (s Set) Empty() bool {
	return len(s.Entries) == 0
}

// Sources returns the distinct sources in the set, sorted.
func (s Set) Sources() []string {
	seen := make(map[string]struct{}, len(s.Entries))
	var out []string
	for _, e := range s.Entries {
		src := strings.TrimSpace(e.Source)
		if src == "" {
			continue
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// Canonicalize trims, deduplicates, and sorts entries so evaluation is
// deterministic regardless of retrieval order.
func Canonicalize(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		e.Source = strings.TrimSpace(e.Source)
		e.Name = strings.TrimSpace(e.Name)
		e.Snippet = strings.TrimSpace(e.Snippet)
		e.Category = strings.TrimSpace(e.Category)
		if e.Name == "" && e.Snippet == "" {
			continue
		}
		fingerprint := strings.ToLower(e.Name) + "\x00" + strings.ToLower(e.Snippet) + "\x00" + e.Source
		if _, ok := seen[fingerprint]; ok {
			continue
		}
		seen[fingerprint] = struct{}{}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Snippet < b.Snippet
	})

	if len(out) == 0 {
		return nil
	}
	return out
}
