package optimizer

import (
	"strings"

	"github.com/tripcast/tripcast/internal/itinerary"
)

// ClassifierConfig holds the classification tables for weather sensitivity.
// Callers can extend or override the tables without code changes.
type ClassifierConfig struct {
	// SensitiveCategories marks categories whose activities cannot move
	// indoors. Categories absent from the map are not sensitive.
	SensitiveCategories map[itinerary.Category]bool

	// Keywords are matched case-insensitively against the activity name.
	// A match marks the activity weather-sensitive regardless of category.
	Keywords []string
}

// DefaultClassifierConfig returns the default classification tables.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		SensitiveCategories: map[itinerary.Category]bool{
			itinerary.CategoryNature:   true,
			itinerary.CategoryBeach:    true,
			itinerary.CategoryMarket:   true,
			itinerary.CategoryHeritage: true,
		},
		Keywords: []string{
			"park",
			"garden",
			"beach",
			"trek",
			"viewpoint",
			"waterfall",
			"outdoor market",
		},
	}
}

// Classifier determines whether activities are weather-sensitive.
// Pure table lookup, deterministic, no side effects.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a new Classifier with the given configuration.
func NewClassifier(config ClassifierConfig) *Classifier {
	if config.SensitiveCategories == nil {
		config.SensitiveCategories = DefaultClassifierConfig().SensitiveCategories
	}
	if config.Keywords == nil {
		config.Keywords = DefaultClassifierConfig().Keywords
	}
	return &Classifier{config: config}
}

// IsOutdoorSensitive reports whether an activity is weather-sensitive:
// its category is in the sensitive table, or its name matches a keyword.
// Museums, malls and other indoor activities can proceed in any weather
// and are never sensitive unless their name says otherwise.
func (c *Classifier) IsOutdoorSensitive(act *itinerary.Activity) bool {
	if c.config.SensitiveCategories[act.Category] {
		return true
	}

	name := strings.ToLower(act.Name)
	for _, kw := range c.config.Keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}

	return false
}
