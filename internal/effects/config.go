package effects

import (
	"time"

	"matrixterm/internal/config"
)

// Glyphs is the character set drops are drawn from.
const Glyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@#$%^&*()_+-=[]{}|;:,.<>?"

// Config holds the rain parameters. Geometry is in abstract units; the
// renderer scales Width x Height onto whatever surface it has.
type Config struct {
	TickInterval       time.Duration
	FadeIn             time.Duration
	SpawnProbability   float64
	FlickerProbability float64
	MaxDrops           int
	MinLength          int
	MaxLength          int
	MinSpeed           float64 // units per second
	MaxSpeed           float64
	MaxIntensity       int
	Width              float64
	Height             float64
	GlyphHeight        float64

	// LogEvery throttles the periodic drop-count log line (in frames).
	LogEvery uint64
}

// DefaultConfig returns the stock rain parameters.
func DefaultConfig() Config {
	return Config{
		TickInterval:       16 * time.Millisecond,
		FadeIn:             200 * time.Millisecond,
		SpawnProbability:   0.3,
		FlickerProbability: 0.1,
		MaxDrops:           20,
		MinLength:          5,
		MaxLength:          15,
		MinSpeed:           50,
		MaxSpeed:           150,
		MaxIntensity:       4,
		Width:              1200,
		Height:             800,
		GlyphHeight:        20,
		LogEvery:           100,
	}
}

// ConfigFrom builds an engine config from the effects section of the
// application config.
func ConfigFrom(cfg *config.Config) Config {
	e := cfg.Effects
	c := DefaultConfig()
	c.TickInterval = cfg.GetTickInterval()
	c.FadeIn = cfg.GetFadeIn()
	c.SpawnProbability = e.SpawnProbability
	c.FlickerProbability = e.FlickerProbability
	c.MaxDrops = e.MaxDrops
	c.MinLength = e.MinLength
	c.MaxLength = e.MaxLength
	c.MinSpeed = e.MinSpeed
	c.MaxSpeed = e.MaxSpeed
	if e.MaxIntensity > 0 {
		c.MaxIntensity = e.MaxIntensity
	}
	if e.Width > 0 {
		c.Width = e.Width
	}
	if e.Height > 0 {
		c.Height = e.Height
	}
	if e.GlyphHeight > 0 {
		c.GlyphHeight = e.GlyphHeight
	}
	return c
}
