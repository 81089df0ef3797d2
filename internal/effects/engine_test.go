package effects

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRandom returns the same values forever.
type fixedRandom struct {
	f float64
	n int
}

func (r fixedRandom) Float64() float64 { return r.f }

func (r fixedRandom) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

// manualClock is advanced by hand.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func TestEngine_NoSpawnWhenProbabilityZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnProbability = 0
	e := NewEngine(cfg)

	for i := 0; i < 1000; i++ {
		before := e.Count()
		e.Tick(16 * time.Millisecond)
		assert.LessOrEqual(t, e.Count(), before)
	}
	assert.Equal(t, 0, e.Count())
	assert.Equal(t, uint64(1000), e.Frames())
}

func TestEngine_SpawnRespectsCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnProbability = 1
	e := NewEngine(cfg, WithRandom(fixedRandom{f: 0, n: 0}))

	for i := 0; i < 50; i++ {
		e.Tick(0)
	}
	assert.Equal(t, cfg.MaxDrops, e.Count())
}

func TestEngine_SpawnedDropShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnProbability = 1
	cfg.FlickerProbability = 0
	e := NewEngine(cfg)

	for i := 0; i < cfg.MaxDrops; i++ {
		e.Tick(0)
	}

	frame := e.Snapshot(time.Hour)
	require.Len(t, frame.Drops, cfg.MaxDrops)
	for _, d := range frame.Drops {
		n := len(d.Glyphs)
		assert.GreaterOrEqual(t, n, cfg.MinLength)
		assert.LessOrEqual(t, n, cfg.MaxLength)
		assert.Equal(t, -float64(n)*cfg.GlyphHeight, d.Y, "spawned just above the top edge")
		assert.GreaterOrEqual(t, d.X, 0.0)
		assert.Less(t, d.X, cfg.Width)
		assert.GreaterOrEqual(t, d.Speed, cfg.MinSpeed)
		assert.LessOrEqual(t, d.Speed, cfg.MaxSpeed)
		assert.GreaterOrEqual(t, d.Intensity, 1)
		assert.LessOrEqual(t, d.Intensity, cfg.MaxIntensity)
		for _, g := range d.Glyphs {
			assert.Contains(t, Glyphs, string(g))
		}
	}
}

func TestEngine_RemovedOnCrossingTick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnProbability = 0
	e := NewEngine(cfg)
	e.drops = []Drop{{X: 10, Y: 790, Glyphs: []rune("ABC"), Speed: 100, Intensity: 2}}

	e.Tick(50 * time.Millisecond) // y = 795
	require.Equal(t, 1, e.Count(), "still inside the screen")
	assert.InDelta(t, 795.0, e.Snapshot(0).Drops[0].Y, 1e-9)

	e.Tick(50 * time.Millisecond) // y = 800, not beyond
	require.Equal(t, 1, e.Count())

	e.Tick(50 * time.Millisecond) // y = 805
	assert.Equal(t, 0, e.Count())
}

func TestEngine_Flicker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnProbability = 0
	cfg.FlickerProbability = 1
	e := NewEngine(cfg, WithRandom(fixedRandom{f: 0.5, n: 0}))
	e.drops = []Drop{{Y: 0, Glyphs: []rune("XYZ"), Speed: 0, Intensity: 1}}

	e.Tick(time.Millisecond)
	assert.Equal(t, "AAA", string(e.Snapshot(0).Drops[0].Glyphs))
}

func TestEngine_SkippedTickCarriesElapsed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnProbability = 0
	e := NewEngine(cfg)
	e.drops = []Drop{{Y: 0, Glyphs: []rune("A"), Speed: 1000}}

	t0 := time.Unix(1000, 0)
	e.lastTick = t0

	e.mu.RLock() // a reader is mid-snapshot
	e.step(t0.Add(16 * time.Millisecond))
	e.mu.RUnlock()

	assert.Equal(t, uint64(1), e.Skipped())
	assert.Equal(t, uint64(0), e.Frames())
	assert.Equal(t, 0.0, e.Snapshot(0).Drops[0].Y)

	e.step(t0.Add(32 * time.Millisecond))
	assert.Equal(t, uint64(1), e.Frames())
	assert.InDelta(t, 32.0, e.Snapshot(0).Drops[0].Y, 1e-9, "both intervals applied")
}

func TestEngine_SnapshotIsACopy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnProbability = 0
	e := NewEngine(cfg)
	e.drops = []Drop{{Y: 1, Glyphs: []rune("AB")}}

	frame := e.Snapshot(0)
	frame.Drops[0].Glyphs[0] = 'Z'
	frame.Drops[0].Y = 500

	again := e.Snapshot(0)
	assert.Equal(t, "AB", string(again.Drops[0].Glyphs))
	assert.Equal(t, 1.0, again.Drops[0].Y)
}

func TestOpacity(t *testing.T) {
	fade := 200 * time.Millisecond
	tests := []struct {
		idle time.Duration
		want float64
	}{
		{0, 0},
		{50 * time.Millisecond, 0.25},
		{100 * time.Millisecond, 0.5},
		{200 * time.Millisecond, 1},
		{time.Second, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Opacity(tt.idle, fade), 1e-9, "idle=%s", tt.idle)
	}
	assert.Equal(t, 1.0, Opacity(0, 0), "no fade configured")
}

func TestEngine_FrameCounterIsPerEngine(t *testing.T) {
	a := NewEngine(DefaultConfig())
	b := NewEngine(DefaultConfig())
	a.Tick(0)
	a.Tick(0)
	b.Tick(0)
	assert.Equal(t, uint64(2), a.Frames())
	assert.Equal(t, uint64(1), b.Frames())
}

func TestEngine_StartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickInterval = time.Millisecond
	cfg.SpawnProbability = 1
	e := NewEngine(cfg)

	stop := e.Start(context.Background())
	require.Eventually(t, func() bool { return e.Frames() > 5 }, 2*time.Second, time.Millisecond)
	assert.True(t, e.Running())

	// Readers may snapshot concurrently with the scheduler.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f := e.Snapshot(time.Duration(j) * time.Millisecond)
				assert.LessOrEqual(t, len(f.Drops), cfg.MaxDrops)
			}
		}()
	}
	wg.Wait()

	stop()
	assert.False(t, e.Running())
}

func TestEngine_RunStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickInterval = time.Millisecond
	clock := &manualClock{now: time.Unix(0, 0)}
	e := NewEngine(cfg, WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	require.Eventually(t, e.Running, time.Second, time.Millisecond)
	assert.NoError(t, e.Run(ctx), "second Run is a no-op")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
