package itinerary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type rawItinerary struct {
	VersionID string   `yaml:"version_id"`
	Title     string   `yaml:"title"`
	Days      []rawDay `yaml:"days"`
	Tips      []rawTip `yaml:"tips"`
}

type rawDay struct {
	Day        int           `yaml:"day"`
	Date       string        `yaml:"date"`
	Theme      string        `yaml:"theme"`
	Activities []rawActivity `yaml:"activities"`
}

type rawActivity struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Location     string `yaml:"location"`
	Category     string `yaml:"category"`
	Start        string `yaml:"start"`
	Duration     int    `yaml:"duration_minutes"`
	TravelToNext int    `yaml:"travel_to_next_minutes"`
}

type rawTip struct {
	Day    int    `yaml:"day"`
	Text   string `yaml:"text"`
	Source string `yaml:"source"`
}

// LoadFile reads a structured itinerary document. Markdown files are
// parsed with ParseMarkdown; anything else is treated as YAML.
func LoadFile(path string) (Itinerary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Itinerary{}, fmt.Errorf("read itinerary: %w", err)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".md" || ext == ".markdown" {
		it := ParseMarkdown(string(data))
		it.Source = path
		return it, nil
	}
	return ParseDocument(data, path)
}

// ParseDocument unmarshals and validates a YAML itinerary document.
func ParseDocument(data []byte, source string) (Itinerary, error) {
	var raw rawItinerary
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Itinerary{}, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}
	return normalizeRaw(raw, source)
}

func normalizeRaw(raw rawItinerary, source string) (Itinerary, error) {
	var errs ValidationErrors

	it := Itinerary{
		VersionID: strings.TrimSpace(raw.VersionID),
		Title:     strings.TrimSpace(raw.Title),
		Source:    source,
	}

	for di, rd := range raw.Days {
		day := Day{
			Index: rd.Day,
			Date:  strings.TrimSpace(rd.Date),
			Theme: strings.TrimSpace(rd.Theme),
		}
		for ai, ra := range rd.Activities {
			field := fmt.Sprintf("days[%d].activities[%d]", di, ai)
			act := Activity{
				ID:           strings.TrimSpace(ra.ID),
				Name:         strings.TrimSpace(ra.Name),
				Location:     strings.TrimSpace(ra.Location),
				Category:     parseCategory(ra.Category),
				Duration:     Minutes(ra.Duration),
				TravelToNext: Minutes(ra.TravelToNext),
			}
			if strings.TrimSpace(ra.Start) == "" {
				errs = append(errs, ValidationError{
					File:    source,
					Field:   field + ".start",
					Message: "start time is required",
				})
			} else {
				start, err := ParseClock(ra.Start)
				if err != nil {
					errs = append(errs, ValidationError{
						File:    source,
						Field:   field + ".start",
						Message: err.Error(),
					})
				} else {
					act.Start = start
				}
			}
			act.Period = PeriodFor(act.Start)
			day.Activities = append(day.Activities, act)
		}
		it.Days = append(it.Days, day)
	}

	for ti, rt := range raw.Tips {
		text := strings.TrimSpace(rt.Text)
		if text == "" {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fmt.Sprintf("tips[%d].text", ti),
				Message: "tip text is required",
			})
			continue
		}
		it.Tips = append(it.Tips, Tip{
			Day:    rt.Day,
			Text:   text,
			Source: strings.TrimSpace(rt.Source),
		})
	}

	if len(errs) > 0 {
		return Itinerary{}, errs
	}

	it.Normalize()
	if err := it.Validate(); err != nil {
		return Itinerary{}, err
	}
	return it, nil
}

func parseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategorySightseeing:
		return CategorySightseeing
	case CategoryMeal:
		return CategoryMeal
	case CategoryTransit:
		return CategoryTransit
	case CategoryShopping:
		return CategoryShopping
	case CategoryRest:
		return CategoryRest
	case "":
		return CategoryOther
	default:
		return CategoryOther
	}
}
