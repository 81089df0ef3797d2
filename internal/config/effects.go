package config

import "fmt"

// EffectsConfig configures the background rain scheduler.
// Geometry is in abstract units; the UI maps them onto terminal cells.
type EffectsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	TickInterval string `yaml:"tick_interval" json:"tick_interval,omitempty"` // e.g. "16ms"
	FadeIn       string `yaml:"fade_in" json:"fade_in,omitempty"`             // opacity ramp after a keystroke

	SpawnProbability   float64 `yaml:"spawn_probability" json:"spawn_probability"`
	FlickerProbability float64 `yaml:"flicker_probability" json:"flicker_probability"`
	MaxDrops           int     `yaml:"max_drops" json:"max_drops"`

	MinLength    int     `yaml:"min_length" json:"min_length"`
	MaxLength    int     `yaml:"max_length" json:"max_length"`
	MinSpeed     float64 `yaml:"min_speed" json:"min_speed"` // units per second
	MaxSpeed     float64 `yaml:"max_speed" json:"max_speed"`
	MaxIntensity int     `yaml:"max_intensity" json:"max_intensity"`

	Width       float64 `yaml:"width" json:"width"`
	Height      float64 `yaml:"height" json:"height"`
	GlyphHeight float64 `yaml:"glyph_height" json:"glyph_height"`
}

func (e EffectsConfig) validate() error {
	if e.SpawnProbability < 0 || e.SpawnProbability > 1 {
		return fmt.Errorf("effects.spawn_probability must be within [0,1], got %v", e.SpawnProbability)
	}
	if e.FlickerProbability < 0 || e.FlickerProbability > 1 {
		return fmt.Errorf("effects.flicker_probability must be within [0,1], got %v", e.FlickerProbability)
	}
	if e.MinLength <= 0 || e.MaxLength < e.MinLength {
		return fmt.Errorf("effects length range [%d,%d] is invalid", e.MinLength, e.MaxLength)
	}
	if e.MinSpeed < 0 || e.MaxSpeed < e.MinSpeed {
		return fmt.Errorf("effects speed range [%v,%v] is invalid", e.MinSpeed, e.MaxSpeed)
	}
	if e.MaxDrops < 0 {
		return fmt.Errorf("effects.max_drops must not be negative, got %d", e.MaxDrops)
	}
	return nil
}
