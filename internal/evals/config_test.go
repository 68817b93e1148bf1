package evals

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evals.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
window_start: "07:00"
max_travel_minutes: 45
coverage_ratio: 0.75
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WindowStart != 7*60 {
		t.Fatalf("window start = %s, want 07:00", cfg.WindowStart)
	}
	if cfg.MaxTravel != 45 {
		t.Fatalf("max travel = %d, want 45", cfg.MaxTravel)
	}
	if cfg.CoverageRatio != 0.75 {
		t.Fatalf("coverage ratio = %.2f, want 0.75", cfg.CoverageRatio)
	}

	// Untouched keys keep their defaults.
	def := DefaultConfig()
	if cfg.WindowEnd != def.WindowEnd || cfg.NameSimilarity != def.NameSimilarity {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"inverted window", "window_start: \"21:00\"\nwindow_end: \"09:00\"\n"},
		{"bad clock", "window_start: \"25:99\"\n"},
		{"pacing out of order", "pacing_min: 0.9\npacing_max: 0.2\n"},
		{"similarity out of range", "name_similarity: 1.5\n"},
		{"zero travel", "max_travel_minutes: 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.content)); err == nil {
				t.Fatalf("config %q accepted, want error", tc.content)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
