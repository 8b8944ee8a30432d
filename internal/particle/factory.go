package particle

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Palette is the fixed colour set particles draw from by default.
var Palette = []string{
	"#ff6b6b", "#4ecdc4", "#45b7d1", "#f7d794",
	"#ff6348", "#1dd1a1", "#ee5a6f", "#c7ecee",
}

const (
	glyphBase  = 0x30A0 // katakana block
	glyphRange = 96
)

// New builds a particle at full opacity. Life is not validated; a particle
// created with life <= 0 is culled on the next frame.
func New(x, y, vx, vy float64, color string, size float64, life int) *Particle {
	return &Particle{
		Pos:     r2.Vec{X: x, Y: y},
		Vel:     r2.Vec{X: vx, Y: vy},
		Size:    size,
		Color:   color,
		Alpha:   1,
		Life:    life,
		MaxLife: life,
	}
}

// NewBurst spawns count particles at equal angular steps around (x, y), each
// with speed in [2,5) plus an upward kick of -5 on vy.
func NewBurst(rng *rand.Rand, x, y float64, count int, colors []string) []*Particle {
	if len(colors) == 0 {
		colors = Palette
	}
	out := make([]*Particle, 0, max(count, 0))
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		speed := 2 + rng.Float64()*3
		color := colors[rng.Intn(len(colors))]
		out = append(out, New(
			x, y,
			math.Cos(angle)*speed,
			math.Sin(angle)*speed-5,
			color,
			2+rng.Float64()*2,
			60+int(rng.Float64()*40),
		))
	}
	return out
}

// RandomColor picks uniformly from Palette.
func RandomColor(rng *rand.Rand) string {
	return Palette[rng.Intn(len(Palette))]
}

// RandomGlyph returns a katakana rune.
func RandomGlyph(rng *rand.Rand) rune {
	return rune(glyphBase + rng.Intn(glyphRange))
}

// NewGlyph seeds a rain column at x, starting somewhere above the visible area.
func NewGlyph(rng *rand.Rand, x, surfaceHeight float64, color string) *Glyph {
	return &Glyph{
		Particle: Particle{
			Pos:     r2.Vec{X: x, Y: rng.Float64()*surfaceHeight - surfaceHeight},
			Vel:     r2.Vec{Y: 2 + rng.Float64()*3},
			Size:    14,
			Color:   color,
			Alpha:   1,
			Life:    1000,
			MaxLife: 1000,
		},
		Char:      RandomGlyph(rng),
		FadeSpeed: 0.02 + rng.Float64()*0.03,
		Tint:      0.8 + rng.Float64()*0.2,
	}
}

// Jitter returns a value uniformly drawn from [-spread/2, spread/2).
func Jitter(rng *rand.Rand, spread float64) float64 {
	return (rng.Float64() - 0.5) * spread
}
