package itinerary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `version_id: v2
title: Madrid long weekend
days:
  - day: 2
    date: 2026-05-02
    theme: Royal Madrid
    activities:
      - name: Royal Palace
        location: Royal Palace
        category: sightseeing
        start: "10:00"
        duration_minutes: 120
  - day: 1
    date: 2026-05-01
    theme: Old Town
    activities:
      - name: Lunch at Mercado San Miguel
        location: Mercado San Miguel
        category: meal
        start: "13:30"
        duration_minutes: 60
      - name: Prado Museum
        location: Prado Museum
        category: sightseeing
        start: "09:00"
        duration_minutes: 150
        travel_to_next_minutes: 20
tips:
  - day: 1
    text: Book tickets ahead
    source: Wikivoyage - Madrid - See
`

func TestParseDocument(t *testing.T) {
	it, err := ParseDocument([]byte(sampleYAML), "test.yml")
	if err != nil {
		t.Fatal(err)
	}

	if it.VersionID != "v2" {
		t.Fatalf("version = %q, want v2", it.VersionID)
	}
	if len(it.Days) != 2 || it.Days[0].Index != 1 || it.Days[1].Index != 2 {
		t.Fatalf("days not normalized by index: %+v", it.Days)
	}

	day1 := it.Days[0]
	if len(day1.Activities) != 2 {
		t.Fatalf("day 1 activities = %d, want 2", len(day1.Activities))
	}
	if day1.Activities[0].Name != "Prado Museum" {
		t.Fatalf("activities not ordered by start: first is %q", day1.Activities[0].Name)
	}
	if day1.Activities[0].TravelToNext != 20 {
		t.Fatalf("travel_to_next = %d, want 20", int(day1.Activities[0].TravelToNext))
	}
	if day1.Activities[0].Period != "morning" {
		t.Fatalf("period = %q, want morning", day1.Activities[0].Period)
	}

	if len(it.Tips) != 1 || it.Tips[0].Source != "Wikivoyage - Madrid - See" {
		t.Fatalf("tips parsed as %+v", it.Tips)
	}
}

func TestParseDocumentReportsFieldErrors(t *testing.T) {
	doc := `days:
  - day: 1
    activities:
      - name: Broken
        start: "26:00"
      - name: Missing start
`
	_, err := ParseDocument([]byte(doc), "bad.yml")
	if err == nil {
		t.Fatal("expected validation errors")
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Fatalf("errors = %d, want 2: %v", len(verrs), verrs)
	}
}

func TestLoadFileDispatchesOnExtension(t *testing.T) {
	tmp := t.TempDir()

	mdPath := filepath.Join(tmp, "plan.md")
	if err := os.WriteFile(mdPath, []byte("# Day 1: 2026-05-01 - Arrival\n* Morning: Visit the Prado Museum\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	it, err := LoadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(it.Days) != 1 {
		t.Fatalf("markdown days = %d, want 1", len(it.Days))
	}

	ymlPath := filepath.Join(tmp, "plan.yml")
	if err := os.WriteFile(ymlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	it, err = LoadFile(ymlPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(it.Days) != 2 {
		t.Fatalf("yaml days = %d, want 2", len(it.Days))
	}
}

func TestValidateRejectsDuplicateDays(t *testing.T) {
	it := Itinerary{
		Days: []Day{{Index: 1}, {Index: 1}},
	}
	if err := it.Validate(); err == nil {
		t.Fatal("expected duplicate day error")
	}
}
