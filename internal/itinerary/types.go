package itinerary

// Category classifies an activity.
type Category string

const (
	CategorySightseeing Category = "sightseeing"
	CategoryMeal        Category = "meal"
	CategoryTransit     Category = "transit"
	CategoryShopping    Category = "shopping"
	CategoryRest        Category = "rest"
	CategoryOther       Category = "other"
)

// Itinerary is a normalized multi-day travel plan.
type Itinerary struct {
	VersionID string
	Title     string
	Days      []Day
	Tips      []Tip
	Source    string
}

// Day holds one day's ordered activities.
type Day struct {
	Index      int
	Date       string
	Theme      string
	Activities []Activity
}

// Activity is a single scheduled item within a day.
// Start and Duration use minutes from midnight; TravelToNext is the
// travel budget to the following activity on the same day.
type Activity struct {
	ID           string
	Name         string
	Location     string
	Category     Category
	Start        Minutes
	Duration     Minutes
	TravelToNext Minutes
	Period       string
}

// Tip is a free-text claim attached to a day (or the whole trip when Day
// is zero), optionally carrying an explicit source citation.
type Tip struct {
	Day    int
	Text   string
	Source string
}

// End returns the activity's finish time, travel excluded.
func (a Activity) End() Minutes {
	return a.Start + a.Duration
}

// Day returns the day with the given index, if present.
func (it Itinerary) Day(index int) (Day, bool) {
	for _, d := range it.Days {
		if d.Index == index {
			return d, true
		}
	}
	return Day{}, false
}

// TotalActivity sums the scheduled activity time for the day.
func (d Day) TotalActivity() Minutes {
	var total Minutes
	for _, a := range d.Activities {
		if a.Duration > 0 {
			total += a.Duration
		}
	}
	return total
}

// TotalTravel sums the inter-activity travel time for the day.
func (d Day) TotalTravel() Minutes {
	var total Minutes
	for _, a := range d.Activities {
		if a.TravelToNext > 0 {
			total += a.TravelToNext
		}
	}
	return total
}

// TipsForDay returns tips attached to the given day plus trip-wide tips.
func (it Itinerary) TipsForDay(index int) []Tip {
	var out []Tip
	for _, t := range it.Tips {
		if t.Day == index || t.Day == 0 {
			out = append(out, t)
		}
	}
	return out
}
