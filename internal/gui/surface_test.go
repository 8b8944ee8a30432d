package gui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestPremultiply(t *testing.T) {
	c := rl.NewColor(200, 100, 50, 255)

	tests := []struct {
		alpha float64
		want  rl.Color
	}{
		{1, rl.NewColor(200, 100, 50, 255)},
		{0.5, rl.NewColor(100, 50, 25, 128)},
		{0.2, rl.NewColor(40, 20, 10, 51)},
		{0, rl.NewColor(0, 0, 0, 0)},
		{-1, rl.NewColor(0, 0, 0, 0)},
		{3, rl.NewColor(200, 100, 50, 255)},
	}

	for _, tt := range tests {
		if got := premultiply(c, tt.alpha); got != tt.want {
			t.Errorf("premultiply(%v): expected %v, got %v", tt.alpha, tt.want, got)
		}
	}
}

// An opaque texel under a premultiplied wash keeps full alpha, which a
// straight alpha blend would not.
func TestWashKeepsTextureOpaque(t *testing.T) {
	wash := premultiply(rl.NewColor(10, 10, 30, 255), 0.2)
	dst := 255.0
	for i := 0; i < 50; i++ {
		// src*1 + dst*(1-srcAlpha)
		a := float64(wash.A) / 255
		dst = float64(wash.A) + dst*(1-a)
	}
	if dst < 254.5 {
		t.Errorf("expected alpha to stay at 255, got %.1f", dst)
	}
}

func TestPalette(t *testing.T) {
	p := make(palette)
	if got := p.get("#ff0080"); got != rl.NewColor(255, 0, 128, 255) {
		t.Errorf("unexpected colour %v", got)
	}
	if got := p.get("nonsense"); got != rl.White {
		t.Errorf("expected white fallback, got %v", got)
	}
	if len(p) != 2 {
		t.Errorf("expected both tokens cached, got %d", len(p))
	}
}

func TestASCIIGlyph(t *testing.T) {
	if got := asciiGlyph('A'); got != 'A' {
		t.Errorf("ascii should pass through, got %q", got)
	}
	if got := asciiGlyph(0x30A0); got != '!' {
		t.Errorf("expected '!', got %q", got)
	}
}
