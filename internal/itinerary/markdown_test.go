package itinerary

import "testing"

const sampleMarkdown = `# Day 1: 2026-05-01 - Old Town
* Morning (9 AM - 12 PM): Visit the Prado Museum
* Afternoon: Lunch at the Mercado San Miguel market
* Evening (6 PM - 9 PM): Tapas in the La Latina neighborhood

# Day 2: 2026-05-02 - Royal Madrid
* Morning: Explore the Royal Palace

**Travel Tips:**
* Book museum tickets online to skip lines [Source: Wikivoyage - Madrid - See]
* Shops close in the mid-afternoon
`

func TestParseMarkdown(t *testing.T) {
	it := ParseMarkdown(sampleMarkdown)

	if len(it.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(it.Days))
	}
	day1 := it.Days[0]
	if day1.Index != 1 || day1.Date != "2026-05-01" || day1.Theme != "Old Town" {
		t.Fatalf("day 1 header parsed as %+v", day1)
	}
	if len(day1.Activities) != 3 {
		t.Fatalf("day 1 activities = %d, want 3", len(day1.Activities))
	}

	morning := day1.Activities[0]
	if morning.Start != 540 || morning.Duration != 180 {
		t.Fatalf("explicit range parsed as start=%d duration=%d", int(morning.Start), int(morning.Duration))
	}
	if morning.Location != "Prado Museum" {
		t.Fatalf("location = %q, want Prado Museum", morning.Location)
	}

	afternoon := day1.Activities[1]
	if afternoon.Start != DefaultPeriods["afternoon"].Start {
		t.Fatalf("period default not applied: start=%d", int(afternoon.Start))
	}
	if afternoon.Category != CategoryMeal {
		t.Fatalf("category = %q, want meal", afternoon.Category)
	}

	if len(it.Tips) != 2 {
		t.Fatalf("tips = %d, want 2", len(it.Tips))
	}
	if it.Tips[0].Source != "Wikivoyage - Madrid - See" {
		t.Fatalf("tip source = %q", it.Tips[0].Source)
	}
	if it.Tips[0].Text != "Book museum tickets online to skip lines" {
		t.Fatalf("tip text = %q", it.Tips[0].Text)
	}
}

func TestParseMarkdownIgnoresNoise(t *testing.T) {
	it := ParseMarkdown("random prose\n\nnothing structured here\n")
	if len(it.Days) != 0 || len(it.Tips) != 0 {
		t.Fatalf("expected empty itinerary, got %+v", it)
	}
}

func TestExtractPlaces(t *testing.T) {
	places := ExtractPlaces(`Visit the Prado Museum, then coffee "Cafe Central" in the La Latina neighborhood`)
	want := map[string]bool{
		"Prado Museum":           true,
		"Cafe Central":           true,
		"La Latina neighborhood": true,
	}
	if len(places) != len(want) {
		t.Fatalf("places = %v", places)
	}
	for _, p := range places {
		if !want[p] {
			t.Fatalf("unexpected place %q in %v", p, places)
		}
	}
}
