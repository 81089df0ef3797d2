// Package effects runs the decorative rain animation. A single scheduler
// goroutine owns every mutation of the drop collection; renderers read
// copies through Snapshot.
package effects

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"matrixterm/internal/logging"
)

// Drop is one falling column of glyphs. Y is the top of the column;
// glyph i is drawn at Y + i*GlyphHeight.
type Drop struct {
	X         float64
	Y         float64
	Glyphs    []rune
	Speed     float64 // units per second
	Intensity int     // 1..MaxIntensity
}

func (d Drop) clone() Drop {
	d.Glyphs = append([]rune(nil), d.Glyphs...)
	return d
}

// Frame is a read-only copy of the rain at one instant.
type Frame struct {
	Drops   []Drop
	Opacity float64 // 0..1, ramps up after a keystroke
}

// Random is the randomness the engine consumes.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option customizes an Engine.
type Option func(*Engine)

// WithRandom replaces the random source.
func WithRandom(r Random) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock replaces the clock used by the scheduler.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// Engine owns the drop collection.
type Engine struct {
	cfg    Config
	rng    Random
	clock  Clock
	glyphs []rune

	// mu guards drops. Only the scheduler (or Tick) writes.
	mu    sync.RWMutex
	drops []Drop

	// scheduler-local state
	lastTick time.Time
	pending  time.Duration

	frames  atomic.Uint64
	skipped atomic.Uint64
	running atomic.Bool
}

// NewEngine creates an idle engine. Call Run or Start to animate it.
func NewEngine(cfg Config, opts ...Option) *Engine {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.LogEvery == 0 {
		cfg.LogEvery = DefaultConfig().LogEvery
	}
	if cfg.MaxIntensity <= 0 {
		cfg.MaxIntensity = 1
	}
	e := &Engine{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		clock:  systemClock{},
		glyphs: []rune(Glyphs),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine parameters.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run animates until ctx is cancelled. It blocks; at most one Run may be
// active per engine.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		logging.EffectsWarn("Run called on an engine that is already running")
		return nil
	}
	defer e.running.Store(false)

	logging.Effects("Rain scheduler started (tick=%s, max=%d)", e.cfg.TickInterval, e.cfg.MaxDrops)
	defer logging.Effects("Rain scheduler stopped after %d frames (%d skipped)", e.frames.Load(), e.skipped.Load())

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	e.lastTick = e.clock.Now()
	e.pending = 0

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.step(e.clock.Now())
		}
	}
}

// Start runs the scheduler in a goroutine. The returned stop function
// cancels it and waits for the goroutine to exit.
func (e *Engine) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// Running reports whether the scheduler goroutine is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// step is one scheduler tick. If a reader holds the lock the tick is
// skipped and its elapsed time is applied on the next tick that runs.
func (e *Engine) step(now time.Time) {
	if elapsed := now.Sub(e.lastTick); elapsed > 0 {
		e.pending += elapsed
	}
	e.lastTick = now

	if !e.mu.TryLock() {
		e.skipped.Add(1)
		return
	}
	dt := e.pending
	e.pending = 0
	e.advance(dt)
	e.mu.Unlock()
}

// Tick advances the animation by dt, waiting for the lock.
// It is for driving the engine without a scheduler (tests, headless use);
// do not call it while Run is active.
func (e *Engine) Tick(dt time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(dt)
}

// advance spawns, moves, flickers and culls. Caller holds e.mu.
func (e *Engine) advance(dt time.Duration) {
	if len(e.drops) < e.cfg.MaxDrops && e.rng.Float64() < e.cfg.SpawnProbability {
		e.drops = append(e.drops, e.spawn())
	}

	secs := dt.Seconds()
	kept := e.drops[:0]
	for _, d := range e.drops {
		d.Y += d.Speed * secs
		for i := range d.Glyphs {
			if e.rng.Float64() < e.cfg.FlickerProbability {
				d.Glyphs[i] = e.randomGlyph()
			}
		}
		if d.Y > e.cfg.Height {
			continue
		}
		kept = append(kept, d)
	}
	// Clear the tail so culled glyph slices can be collected.
	for i := len(kept); i < len(e.drops); i++ {
		e.drops[i] = Drop{}
	}
	e.drops = kept

	frame := e.frames.Add(1)
	if frame%e.cfg.LogEvery == 0 {
		logging.EffectsDebug("Frame %d: %d drops", frame, len(e.drops))
	}
}

func (e *Engine) spawn() Drop {
	length := e.cfg.MinLength
	if span := e.cfg.MaxLength - e.cfg.MinLength; span > 0 {
		length += e.rng.IntN(span + 1)
	}
	glyphs := make([]rune, length)
	for i := range glyphs {
		glyphs[i] = e.randomGlyph()
	}
	return Drop{
		X:         e.rng.Float64() * e.cfg.Width,
		Y:         -float64(length) * e.cfg.GlyphHeight,
		Glyphs:    glyphs,
		Speed:     e.cfg.MinSpeed + e.rng.Float64()*(e.cfg.MaxSpeed-e.cfg.MinSpeed),
		Intensity: 1 + e.rng.IntN(e.cfg.MaxIntensity),
	}
}

func (e *Engine) randomGlyph() rune {
	return e.glyphs[e.rng.IntN(len(e.glyphs))]
}

// Snapshot copies the drops under the read lock. idle is the time since
// the last keystroke: opacity is idle/FadeIn below FadeIn, else 1.
func (e *Engine) Snapshot(idle time.Duration) Frame {
	e.mu.RLock()
	drops := make([]Drop, len(e.drops))
	for i, d := range e.drops {
		drops[i] = d.clone()
	}
	e.mu.RUnlock()

	return Frame{Drops: drops, Opacity: Opacity(idle, e.cfg.FadeIn)}
}

// Opacity maps time since the last keystroke onto [0,1].
func Opacity(idle, fadeIn time.Duration) float64 {
	if fadeIn <= 0 || idle >= fadeIn {
		return 1
	}
	if idle <= 0 {
		return 0
	}
	return float64(idle) / float64(fadeIn)
}

// Count returns the number of live drops.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.drops)
}

// Frames returns how many ticks have been applied.
func (e *Engine) Frames() uint64 {
	return e.frames.Load()
}

// Skipped returns how many scheduler ticks were skipped on contention.
func (e *Engine) Skipped() uint64 {
	return e.skipped.Load()
}
