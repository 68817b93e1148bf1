package itinerary

import (
	"fmt"
	"strconv"
	"strings"
)

// Minutes is a duration or a time of day expressed in minutes from
// midnight. All schedule arithmetic happens in this unit.
type Minutes int

const minutesPerDay = 24 * 60

// ParseClock parses a 24-hour "HH:MM" clock string.
func ParseClock(s string) (Minutes, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q: out of range", s)
	}
	return Minutes(h*60 + m), nil
}

// ParseClockLoose parses clock strings as they appear in markdown
// itineraries: "9 AM", "9:30 am", "12 PM", or plain "14:00".
func ParseClockLoose(s string) (Minutes, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	meridiem := ""
	switch {
	case strings.HasSuffix(s, "am"):
		meridiem = "am"
		s = strings.TrimSpace(strings.TrimSuffix(s, "am"))
	case strings.HasSuffix(s, "pm"):
		meridiem = "pm"
		s = strings.TrimSpace(strings.TrimSuffix(s, "pm"))
	}

	h := 0
	m := 0
	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		var err error
		if h, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		if m, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return 0, fmt.Errorf("invalid time %q", s)
		}
	} else {
		var err error
		if h, err = strconv.Atoi(s); err != nil {
			return 0, fmt.Errorf("invalid time %q", s)
		}
	}

	switch meridiem {
	case "am":
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 12 {
			h += 12
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return Minutes(h*60 + m), nil
}

// Clock formats a time of day as 24-hour "HH:MM".
func (m Minutes) Clock() string {
	v := int(m)
	if v < 0 {
		v = 0
	}
	v %= minutesPerDay
	return fmt.Sprintf("%02d:%02d", v/60, v%60)
}

func (m Minutes) String() string {
	return m.Clock()
}

// PeriodWindow is a named slice of the day used when markdown activities
// carry only a period label instead of an explicit time range.
type PeriodWindow struct {
	Start Minutes
	End   Minutes
}

// DefaultPeriods mirrors the period slots the synthesis side emits.
var DefaultPeriods = map[string]PeriodWindow{
	"morning":   {Start: 9 * 60, End: 12 * 60},
	"afternoon": {Start: 14 * 60, End: 17 * 60},
	"evening":   {Start: 18 * 60, End: 22 * 60},
}

// PeriodFor maps a start time onto a period label.
func PeriodFor(start Minutes) string {
	switch {
	case start < 13*60:
		return "morning"
	case start < 1050: // 17:30
		return "afternoon"
	default:
		return "evening"
	}
}
