package evals

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tripcheck/internal/itinerary"
)

// Config carries every tunable threshold the evaluators consult. It is
// passed explicitly into each evaluator call so invocations stay
// deterministic and test-isolated.
type Config struct {
	// Daily active window activities must fit inside.
	WindowStart itinerary.Minutes
	WindowEnd   itinerary.Minutes

	// Fraction of the active window that scheduled activity time must
	// occupy: below PacingMin the day is under-planned, above PacingMax
	// over-packed.
	PacingMin float64
	PacingMax float64

	// Travel between consecutive activities: absolute ceiling, and the
	// maximum fraction of time remaining in the window it may consume.
	MaxTravel          itinerary.Minutes
	TravelRemainderMax float64

	// An activity shorter than this is considered rushed.
	MinActivity itinerary.Minutes

	MaxActivitiesPerDay int

	// Fuzzy-match bar for POI names and for pairing edited activities.
	NameSimilarity float64

	// Minimum token-overlap for attributing a tip to a snippet.
	ClaimSupport float64

	// Evidence entries per referenced POI required before grounding
	// judges pass/fail instead of returning uncertain.
	CoverageRatio float64

	// Scope inference confidence below this makes edit-scope uncertain.
	MinScopeConfidence float64
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		WindowStart:         8 * 60,
		WindowEnd:           21 * 60,
		PacingMin:           0.15,
		PacingMax:           0.85,
		MaxTravel:           60,
		TravelRemainderMax:  0.5,
		MinActivity:         30,
		MaxActivitiesPerDay: 10,
		NameSimilarity:      0.6,
		ClaimSupport:        0.5,
		CoverageRatio:       0.5,
		MinScopeConfidence:  0.5,
	}
}

type rawConfig struct {
	WindowStart         *string  `yaml:"window_start"`
	WindowEnd           *string  `yaml:"window_end"`
	PacingMin           *float64 `yaml:"pacing_min"`
	PacingMax           *float64 `yaml:"pacing_max"`
	MaxTravelMinutes    *int     `yaml:"max_travel_minutes"`
	TravelRemainderMax  *float64 `yaml:"travel_remainder_max"`
	MinActivityMinutes  *int     `yaml:"min_activity_minutes"`
	MaxActivitiesPerDay *int     `yaml:"max_activities_per_day"`
	NameSimilarity      *float64 `yaml:"name_similarity"`
	ClaimSupport        *float64 `yaml:"claim_support"`
	CoverageRatio       *float64 `yaml:"coverage_ratio"`
	MinScopeConfidence  *float64 `yaml:"min_scope_confidence"`
}

// LoadConfig overlays a YAML config file onto the defaults. Absent keys
// keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.WindowStart != nil {
		if cfg.WindowStart, err = itinerary.ParseClock(*raw.WindowStart); err != nil {
			return Config{}, fmt.Errorf("window_start: %w", err)
		}
	}
	if raw.WindowEnd != nil {
		if cfg.WindowEnd, err = itinerary.ParseClock(*raw.WindowEnd); err != nil {
			return Config{}, fmt.Errorf("window_end: %w", err)
		}
	}
	if raw.PacingMin != nil {
		cfg.PacingMin = *raw.PacingMin
	}
	if raw.PacingMax != nil {
		cfg.PacingMax = *raw.PacingMax
	}
	if raw.MaxTravelMinutes != nil {
		cfg.MaxTravel = itinerary.Minutes(*raw.MaxTravelMinutes)
	}
	if raw.TravelRemainderMax != nil {
		cfg.TravelRemainderMax = *raw.TravelRemainderMax
	}
	if raw.MinActivityMinutes != nil {
		cfg.MinActivity = itinerary.Minutes(*raw.MinActivityMinutes)
	}
	if raw.MaxActivitiesPerDay != nil {
		cfg.MaxActivitiesPerDay = *raw.MaxActivitiesPerDay
	}
	if raw.NameSimilarity != nil {
		cfg.NameSimilarity = *raw.NameSimilarity
	}
	if raw.ClaimSupport != nil {
		cfg.ClaimSupport = *raw.ClaimSupport
	}
	if raw.CoverageRatio != nil {
		cfg.CoverageRatio = *raw.CoverageRatio
	}
	if raw.MinScopeConfidence != nil {
		cfg.MinScopeConfidence = *raw.MinScopeConfidence
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the evaluators cannot work with.
func (c Config) Validate() error {
	if c.WindowStart >= c.WindowEnd {
		return fmt.Errorf("active window start %s must precede end %s", c.WindowStart, c.WindowEnd)
	}
	if c.PacingMin < 0 || c.PacingMax > 1 || c.PacingMin >= c.PacingMax {
		return fmt.Errorf("pacing fractions must satisfy 0 <= min < max <= 1 (got %.2f, %.2f)", c.PacingMin, c.PacingMax)
	}
	if c.MaxTravel <= 0 {
		return fmt.Errorf("max_travel_minutes must be positive")
	}
	if c.TravelRemainderMax <= 0 || c.TravelRemainderMax > 1 {
		return fmt.Errorf("travel_remainder_max must be in (0, 1]")
	}
	if c.MaxActivitiesPerDay <= 0 {
		return fmt.Errorf("max_activities_per_day must be positive")
	}
	for name, v := range map[string]float64{
		"name_similarity":      c.NameSimilarity,
		"claim_support":        c.ClaimSupport,
		"coverage_ratio":       c.CoverageRatio,
		"min_scope_confidence": c.MinScopeConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0, 1] (got %.2f)", name, v)
		}
	}
	return nil
}
