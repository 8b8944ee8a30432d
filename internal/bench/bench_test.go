package bench

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/san-kum/fluxsim/internal/engine"
	"github.com/san-kum/fluxsim/internal/particle"
)

func testConfig(modes ...particle.Mode) Config {
	s := engine.DefaultSettings()
	s.Count = 50
	return Config{
		Modes:    modes,
		Frames:   30,
		Width:    320,
		Height:   240,
		Settings: s,
		Seed:     7,
	}
}

func TestRun(t *testing.T) {
	results, err := Run(context.Background(), testConfig(particle.AllModes...))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != len(particle.AllModes) {
		t.Fatalf("expected %d results, got %d", len(particle.AllModes), len(results))
	}
	for i, r := range results {
		if r.Mode != particle.AllModes[i].String() {
			t.Errorf("result %d: expected mode %s, got %s", i, particle.AllModes[i], r.Mode)
		}
		if r.Frames != 30 {
			t.Errorf("%s: expected 30 frames, got %d", r.Mode, r.Frames)
		}
		if r.DrawCalls < r.Frames {
			t.Errorf("%s: expected at least one draw per frame, got %d", r.Mode, r.DrawCalls)
		}
	}
	if results[0].Spawned < 50 {
		t.Errorf("orbit should seed its population, got %d", results[0].Spawned)
	}
}

func TestRunClicks(t *testing.T) {
	cfg := testConfig(particle.Burst)
	r, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if r[0].Spawned != 0 {
		t.Errorf("burst without clicks should stay empty, got %d", r[0].Spawned)
	}

	cfg.Clicks = 4
	r, err = Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if r[0].Spawned == 0 {
		t.Error("expected clicks to spawn burst particles")
	}
}

func TestRunEnsemble(t *testing.T) {
	cfg := testConfig(particle.Orbit, particle.Corruption)
	cfg.Runs = 3
	results, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	for i, r := range results {
		wantSeed := cfg.Seed + int64(i%3)
		if r.Seed != wantSeed {
			t.Errorf("result %d: expected seed %d, got %d", i, wantSeed, r.Seed)
		}
	}
	if results[0].Mode != "orbit" || results[3].Mode != "corruption" {
		t.Errorf("results out of order: %s, %s", results[0].Mode, results[3].Mode)
	}

	single, err := Run(context.Background(), testConfig(particle.Corruption))
	if err != nil {
		t.Fatal(err)
	}
	if single[0].Spawned != results[3].Spawned || single[0].Peak != results[3].Peak {
		t.Errorf("same seed should reproduce population: %+v vs %+v", single[0], results[3])
	}
}

func TestRunRejectsZeroFrames(t *testing.T) {
	cfg := testConfig(particle.Orbit)
	cfg.Frames = 0
	if _, err := Run(context.Background(), cfg); err == nil {
		t.Error("expected error for zero frames")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testConfig(particle.Flow)); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, []Result{{Mode: "rain", Frames: 10, ElapsedMS: 1.5, Peak: 3}})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "MODE") || !strings.HasPrefix(lines[1], "rain") {
		t.Errorf("unexpected table %q", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []Result{{Mode: "push", Seed: 3, Frames: 5, Peak: 9}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "mode,seed,frames,elapsed_ms,frames_per_sec,avg_frame_us,peak,spawned,culled,draw_calls") {
		t.Errorf("unexpected header in %q", out)
	}
	if !strings.Contains(out, "push,3,5,") {
		t.Errorf("missing row in %q", out)
	}
}

func benchmarkMode(b *testing.B, m particle.Mode) {
	cfg := testConfig(m)
	cfg.Frames = 1
	cfg.Clicks = 60
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(context.Background(), cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOrbit(b *testing.B)      { benchmarkMode(b, particle.Orbit) }
func BenchmarkBurst(b *testing.B)      { benchmarkMode(b, particle.Burst) }
func BenchmarkFlow(b *testing.B)       { benchmarkMode(b, particle.Flow) }
func BenchmarkPush(b *testing.B)       { benchmarkMode(b, particle.Push) }
func BenchmarkRain(b *testing.B)       { benchmarkMode(b, particle.Rain) }
func BenchmarkCorruption(b *testing.B) { benchmarkMode(b, particle.Corruption) }
