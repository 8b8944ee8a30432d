// Package bench measures frame throughput per mode on a headless surface.
package bench

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/fluxsim/internal/engine"
	"github.com/san-kum/fluxsim/internal/particle"
)

type Config struct {
	Modes    []particle.Mode
	Frames   int
	Width    float64
	Height   float64
	Settings engine.Settings
	Seed     int64
	// Clicks is how many pointer presses land per second of synthetic time,
	// so burst and corruption have something to simulate.
	Clicks int
	// Runs > 1 repeats each mode with seeds Seed, Seed+1, ... concurrently.
	Runs int
}

type Result struct {
	Mode       string  `csv:"mode"`
	Seed       int64   `csv:"seed"`
	Frames     int     `csv:"frames"`
	ElapsedMS  float64 `csv:"elapsed_ms"`
	FramesSec  float64 `csv:"frames_per_sec"`
	AvgFrameUS float64 `csv:"avg_frame_us"`
	Peak       int     `csv:"peak"`
	Spawned    int     `csv:"spawned"`
	Culled     int     `csv:"culled"`
	DrawCalls  int     `csv:"draw_calls"`
}

// countingSurface discards draw calls and counts them.
type countingSurface struct {
	w, h  float64
	calls int
}

func (s *countingSurface) Size() (float64, float64) { return s.w, s.h }
func (s *countingSurface) Resize(w, h float64)      { s.w, s.h = w, h }
func (s *countingSurface) FillRect(x, y, w, h float64, color string, alpha float64) {
	s.calls++
}
func (s *countingSurface) FillCircle(x, y, r float64, color string, alpha, glow float64) {
	s.calls++
}
func (s *countingSurface) FillGlyph(x, y float64, ch rune, color string, alpha, glow float64, glowColor string) {
	s.calls++
}

const step = 16 * time.Millisecond

// Run benchmarks each mode in turn. Results are ordered by mode, then seed.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("bench: frames must be positive, got %d", cfg.Frames)
	}
	runs := max(cfg.Runs, 1)
	results := make([]Result, 0, len(cfg.Modes)*runs)
	for _, m := range cfg.Modes {
		rs, err := ensemble(ctx, cfg, m, runs)
		if err != nil {
			return results, fmt.Errorf("bench %s: %w", m, err)
		}
		results = append(results, rs...)
	}
	return results, nil
}

// ensemble runs one loop per seed in parallel. Loops share nothing, so each
// goroutine owns its own loop, surface and rng.
func ensemble(ctx context.Context, cfg Config, m particle.Mode, runs int) ([]Result, error) {
	if runs == 1 {
		r, err := runMode(ctx, cfg, m, cfg.Seed)
		return []Result{r}, err
	}

	results := make([]Result, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = runMode(ctx, cfg, m, cfg.Seed+int64(idx))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func runMode(ctx context.Context, cfg Config, m particle.Mode, seed int64) (Result, error) {
	rng := rand.New(rand.NewSource(seed))
	surface := &countingSurface{w: cfg.Width, h: cfg.Height}
	loop := engine.New(
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithMode(m),
		engine.WithSettings(cfg.Settings),
	)
	if err := loop.StartAt(surface, time.Unix(0, 0)); err != nil {
		return Result{}, err
	}
	defer loop.Stop()

	every := 0
	if cfg.Clicks > 0 {
		every = max(1, int(time.Second/step)/cfg.Clicks)
	}

	start := time.Now()
	err := loop.Drive(ctx, cfg.Frames, step, func(i int) {
		x, y := rng.Float64()*cfg.Width, rng.Float64()*cfg.Height
		loop.MouseMove(x, y)
		if every > 0 && i%every == 0 {
			loop.Click(x, y)
		}
	})
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}

	st := loop.Stats()
	secs := elapsed.Seconds()
	r := Result{
		Mode:      m.String(),
		Seed:      seed,
		Frames:    st.Frames,
		ElapsedMS: float64(elapsed.Microseconds()) / 1000,
		Peak:      st.Peak,
		Spawned:   st.Spawned,
		Culled:    st.Culled,
		DrawCalls: surface.calls,
	}
	if secs > 0 {
		r.FramesSec = float64(st.Frames) / secs
	}
	if st.Frames > 0 {
		r.AvgFrameUS = float64(elapsed.Microseconds()) / float64(st.Frames)
	}
	return r, nil
}

func WriteTable(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tSEED\tFRAMES\tTIME\tFRAMES/SEC\tAVG FRAME\tPEAK\tSPAWNED\tCULLED\tDRAWS")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1fms\t%.0f\t%.1fµs\t%d\t%d\t%d\t%d\n",
			r.Mode, r.Seed, r.Frames, r.ElapsedMS, r.FramesSec, r.AvgFrameUS, r.Peak, r.Spawned, r.Culled, r.DrawCalls)
	}
	return tw.Flush()
}

func WriteCSV(w io.Writer, results []Result) error {
	return gocsv.Marshal(results, w)
}
