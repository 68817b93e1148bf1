package evals

import (
	"reflect"
	"testing"

	"tripcheck/internal/itinerary"
)

func act(name string, start, duration, travel itinerary.Minutes) itinerary.Activity {
	return itinerary.Activity{
		Name:         name,
		Location:     name,
		Category:     itinerary.CategorySightseeing,
		Start:        start,
		Duration:     duration,
		TravelToNext: travel,
		Period:       itinerary.PeriodFor(start),
	}
}

func cleanDay(index int) itinerary.Day {
	return itinerary.Day{
		Index: index,
		Date:  "2026-05-01",
		Activities: []itinerary.Activity{
			act("Prado Museum", 9*60, 120, 15),
			act("Mercado San Miguel", 11*60+30, 90, 10),
			act("Royal Palace", 14*60, 120, 0),
		},
	}
}

func TestFeasibilityCleanItineraryPasses(t *testing.T) {
	it := itinerary.Itinerary{Days: []itinerary.Day{cleanDay(1), cleanDay(2)}}
	v := Feasibility(it, DefaultConfig())

	if v.Status != StatusPass {
		t.Fatalf("status = %s, want pass (violations: %+v)", v.Status, v.Violations)
	}
	if len(v.Violations) != 0 {
		t.Fatalf("violations = %+v, want none", v.Violations)
	}
	if v.Checks == 0 {
		t.Fatal("expected checks to be counted")
	}
}

func TestFeasibilityOutOfWindow(t *testing.T) {
	day := cleanDay(1)
	early := act("Sunrise hike", 6*60, 90, 0)
	day.Activities = append([]itinerary.Activity{early}, day.Activities...)

	v := Feasibility(itinerary.Itinerary{Days: []itinerary.Day{day}}, DefaultConfig())
	if v.Status != StatusFail {
		t.Fatalf("status = %s, want fail", v.Status)
	}

	var outOfWindow []Violation
	for _, viol := range v.Violations {
		if viol.Kind == KindOutOfWindow {
			outOfWindow = append(outOfWindow, viol)
		}
	}
	if len(outOfWindow) != 1 {
		t.Fatalf("OutOfWindow violations = %d, want exactly 1: %+v", len(outOfWindow), v.Violations)
	}
	if outOfWindow[0].Activity != "Sunrise hike" {
		t.Fatalf("violation references %q, want the early activity", outOfWindow[0].Activity)
	}
}

func TestFeasibilityOverlap(t *testing.T) {
	day := itinerary.Day{
		Index: 1,
		Activities: []itinerary.Activity{
			act("Museum", 9*60, 120, 30),
			act("Market", 11*60+15, 60, 0), // museum + travel runs until 11:30
		},
	}
	v := Feasibility(itinerary.Itinerary{Days: []itinerary.Day{day}}, DefaultConfig())
	if v.Status != StatusFail {
		t.Fatalf("status = %s, want fail", v.Status)
	}
	if !hasKind(v.Violations, KindOverlap) {
		t.Fatalf("expected Overlap violation, got %+v", v.Violations)
	}
}

func TestFeasibilityTravelOverrun(t *testing.T) {
	day := cleanDay(1)
	day.Activities[0].TravelToNext = 90

	v := Feasibility(itinerary.Itinerary{Days: []itinerary.Day{day}}, DefaultConfig())
	if !hasKind(v.Violations, KindTravelOverrun) {
		t.Fatalf("expected TravelOverrun, got %+v", v.Violations)
	}
}

func TestFeasibilityTravelOverrunRelativeToRemainder(t *testing.T) {
	day := itinerary.Day{
		Index: 1,
		Activities: []itinerary.Activity{
			act("Museum", 9*60, 240, 0),
			act("Dinner", 19*60, 105, 55), // 55 min travel with 60 min left in the window
			act("Night walk", 20*60+55, 5, 0),
		},
	}
	day.Activities[1].TravelToNext = 55
	v := Feasibility(itinerary.Itinerary{Days: []itinerary.Day{day}}, DefaultConfig())
	if !hasKind(v.Violations, KindTravelOverrun) {
		t.Fatalf("expected relative TravelOverrun, got %+v", v.Violations)
	}
}

func TestFeasibilityPacing(t *testing.T) {
	under := itinerary.Day{
		Index:      1,
		Activities: []itinerary.Activity{act("Quick stop", 10*60, 45, 0)},
	}
	v := Feasibility(itinerary.Itinerary{Days: []itinerary.Day{under}}, DefaultConfig())
	if !hasKind(v.Violations, KindPacingImbalance) {
		t.Fatalf("under-planned day not flagged: %+v", v.Violations)
	}

	packed := itinerary.Day{Index: 1}
	for i := 0; i < 12; i++ {
		packed.Activities = append(packed.Activities,
			act("Stop", itinerary.Minutes(8*60+i*60), 55, 0))
	}
	v = Feasibility(itinerary.Itinerary{Days: []itinerary.Day{packed}}, DefaultConfig())
	if !hasKind(v.Violations, KindPacingImbalance) {
		t.Fatalf("over-packed day not flagged: %+v", v.Violations)
	}
}

func TestFeasibilityChecksCountStable(t *testing.T) {
	clean := itinerary.Itinerary{Days: []itinerary.Day{cleanDay(1)}}
	rushed := itinerary.Itinerary{Days: []itinerary.Day{cleanDay(1)}}
	rushed.Days[0].Activities[1].Duration = 45

	a := Feasibility(clean, DefaultConfig())
	b := Feasibility(rushed, DefaultConfig())
	if !hasKind(b.Violations, KindPacingImbalance) {
		t.Fatalf("short activity not flagged: %+v", b.Violations)
	}
	if a.Checks != b.Checks {
		t.Fatalf("checks = %d vs %d; a violation must not change the count", a.Checks, b.Checks)
	}
}

func TestFeasibilityEmptyDayInformational(t *testing.T) {
	it := itinerary.Itinerary{Days: []itinerary.Day{cleanDay(1), {Index: 2}}}
	v := Feasibility(it, DefaultConfig())

	if !hasKind(v.Violations, KindEmptyDay) {
		t.Fatalf("expected EmptyDay violation, got %+v", v.Violations)
	}
	if v.Status != StatusPass {
		t.Fatalf("status = %s; EmptyDay alone must not fail", v.Status)
	}
}

func TestFeasibilityInsufficientData(t *testing.T) {
	day := cleanDay(1)
	day.Activities[1].Duration = 0

	v := Feasibility(itinerary.Itinerary{Days: []itinerary.Day{day}}, DefaultConfig())
	if v.Status != StatusFail {
		t.Fatalf("status = %s, want fail", v.Status)
	}
	if !hasKind(v.Violations, KindInsufficientData) {
		t.Fatalf("expected InsufficientData, got %+v", v.Violations)
	}
}

func TestFeasibilityDeterministic(t *testing.T) {
	it := itinerary.Itinerary{Days: []itinerary.Day{cleanDay(1), {Index: 2}}}
	cfg := DefaultConfig()
	a := Feasibility(it, cfg)
	b := Feasibility(it, cfg)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("verdicts differ between runs:\n%+v\n%+v", a, b)
	}
}

func hasKind(violations []Violation, kind Kind) bool {
	for _, v := range violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}
