package models

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Artist is a listener-selected artist.
type Artist struct {
	ID   string `toml:"id" json:"id" validate:"required"`
	Name string `toml:"name" json:"name"`
}

// PopularityMode selects how the popularity range was chosen.
type PopularityMode string

const (
	PopularitySlider   PopularityMode = "slider"
	PopularityCategory PopularityMode = "category"
)

// Popularity is the single active popularity range, inclusive on both ends.
type Popularity struct {
	Mode     PopularityMode `toml:"mode" json:"mode" validate:"omitempty,oneof=slider category"`
	Category string         `toml:"category" json:"category,omitempty" validate:"required_if=Mode category,omitempty,oneof=mainstream popular underground"`
	Min      int            `toml:"min" json:"min" validate:"min=0,max=100,ltefield=Max"`
	Max      int            `toml:"max" json:"max" validate:"min=0,max=100"`
}

// Contains reports whether p lies within [Min, Max].
func (r Popularity) Contains(p int) bool {
	return p >= r.Min && p <= r.Max
}

// SliderPopularity returns the slider range [min, 100].
func SliderPopularity(min int) *Popularity {
	return &Popularity{Mode: PopularitySlider, Min: min, Max: 100}
}

// CategoryPopularity returns the range of a predefined category.
func CategoryPopularity(id string) (*Popularity, error) {
	c, ok := LookupPopularityCategory(id)
	if !ok {
		return nil, fmt.Errorf("%w: unknown popularity category %q", shared.ErrInvalidPreferences, id)
	}
	return &Popularity{Mode: PopularityCategory, Category: c.ID, Min: c.Min, Max: c.Max}, nil
}

// Preferences are the listener's declared constraints. An empty dimension does not constrain.
type Preferences struct {
	Artists    []Artist       `toml:"artists" json:"artists" validate:"unique=ID,dive"`
	Genres     []string       `toml:"genres" json:"genres" validate:"max=5,unique,dive,required"`
	Decades    []string       `toml:"decades" json:"decades" validate:"unique,dive,decade"`
	Mood       map[string]int `toml:"mood" json:"mood,omitempty" validate:"dive,keys,oneof=energy valence danceability acousticness,endkeys,min=0,max=100"`
	Popularity *Popularity    `toml:"popularity" json:"popularity,omitempty" validate:"omitempty"`
}

// ArtistIDs returns artist ids in selection order.
func (p Preferences) ArtistIDs() []string {
	ids := make([]string, len(p.Artists))
	for i, a := range p.Artists {
		ids[i] = a.ID
	}
	return ids
}

// Validate checks the preferences against the accepted shape.
func (p Preferences) Validate() error {
	if err := validateStruct(p); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidPreferences, err)
	}
	return nil
}

// LoadPreferences reads preferences from a TOML file and validates them.
func LoadPreferences(path string) (Preferences, error) {
	var prefs Preferences

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs, fmt.Errorf("failed to read preferences file: %w", err)
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return prefs, fmt.Errorf("%w: failed to parse preferences: %v", shared.ErrInvalidPreferences, err)
	}

	if prefs.Popularity != nil && prefs.Popularity.Mode == PopularityCategory && prefs.Popularity.Max == 0 {
		cat, err := CategoryPopularity(prefs.Popularity.Category)
		if err != nil {
			return prefs, err
		}
		prefs.Popularity = cat
	}

	return prefs, prefs.Validate()
}
