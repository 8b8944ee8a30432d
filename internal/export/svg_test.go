package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/san-kum/fluxsim/internal/control"
	"github.com/san-kum/fluxsim/internal/particle"
	"github.com/san-kum/fluxsim/internal/skin"
)

func TestWashFadesRecordedOps(t *testing.T) {
	s := NewSVGSurface(100, 100, "#000000")
	s.FillCircle(50, 50, 3, "#ff0000", 1, 0)
	s.FillRect(0, 40, 100, 1, "#00ff41", 0.5)
	if s.Len() != 2 {
		t.Fatalf("expected 2 ops, got %d", s.Len())
	}

	s.FillRect(0, 0, 100, 100, "#111111", 0.5)
	if s.Len() != 2 {
		t.Fatalf("wash should not add an op, got %d", s.Len())
	}
	if s.ops[0].alpha != 0.5 || s.ops[1].alpha != 0.25 {
		t.Errorf("unexpected alphas %v, %v", s.ops[0].alpha, s.ops[1].alpha)
	}
	if s.background != "#111111" {
		t.Errorf("expected background to follow the wash, got %s", s.background)
	}

	for i := 0; i < 5; i++ {
		s.FillRect(0, 0, 100, 100, "#111111", 0.5)
	}
	if s.Len() != 0 {
		t.Errorf("expected faded ops to be dropped, got %d", s.Len())
	}
}

func TestOpaqueWashClears(t *testing.T) {
	s := NewSVGSurface(10, 10, "#000000")
	s.FillCircle(5, 5, 1, "#ffffff", 1, 0)
	s.FillRect(-1, -1, 20, 20, "#222222", 1)
	if s.Len() != 0 || s.background != "#222222" {
		t.Errorf("expected cleared list, got %d ops on %s", s.Len(), s.background)
	}
}

func TestWriteTo(t *testing.T) {
	s := NewSVGSurface(200, 100, "#0a0a1e")
	s.FillCircle(20, 20, 3, "#4ecdc4", 0.8, 10)
	s.FillGlyph(40, 0, 'ア', "#00ff41", 1, 5, "#00ff41")

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}

	out := buf.String()
	for _, want := range []string{"<svg", `width="200"`, "fill:#0a0a1e", "<circle", "fill:#4ecdc4", "url(#glow)", "ア", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, "<circle"); got != 2 {
		t.Errorf("expected core and halo circles, got %d", got)
	}
}

func TestClickSchedule(t *testing.T) {
	got := clickSchedule(3, 100)
	want := []int{0, 33, 66}
	for i, c := range got {
		if c.frame != want[i] || c.click != i {
			t.Errorf("click %d: expected frame %d, got %+v", i, want[i], c)
		}
	}
	if s := clickSchedule(1, 100); s[0].frame != 0 {
		t.Errorf("single click should fire first, got %d", s[0].frame)
	}
}

func TestSnapshot(t *testing.T) {
	var buf bytes.Buffer
	stats, err := Snapshot(context.Background(), &buf, Options{
		Options: control.Options{Skin: skin.Classic, Mode: particle.Burst, Seed: 1},
		Width:   400,
		Height:  300,
		Frames:  10,
		Clicks:  []Point{{200, 200}},
	})
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if stats.Frames != 10 || stats.Spawned != 50 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if !strings.Contains(buf.String(), "<circle") {
		t.Error("expected burst particles in the output")
	}
}

func TestSnapshotRejectsEmptySurface(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Snapshot(context.Background(), &buf, Options{Frames: 1}); err == nil {
		t.Error("expected error for zero size")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestSnapshotCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := Snapshot(ctx, &buf, Options{
		Options: control.Options{Seed: 1},
		Width:   100,
		Height:  100,
		Frames:  5,
	})
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("expected cancellation error, got %v", err)
	}
}
