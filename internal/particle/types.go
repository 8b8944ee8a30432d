package particle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a single simulated point. Life counts down in frames; MaxLife
// is fixed at creation and only used to normalise Alpha.
type Particle struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Size    float64
	Color   string
	Alpha   float64
	Life    int
	MaxLife int
}

// Glyph is a falling rain character. It never expires; it wraps back to the
// top of the surface instead.
type Glyph struct {
	Particle
	Char      rune
	FadeSpeed float64
	Tint      float64 // colour intensity in [0.8, 1.0]
}

// X and Y are shorthands used by the drawing code.
func (p *Particle) X() float64 { return p.Pos.X }
func (p *Particle) Y() float64 { return p.Pos.Y }

// lifeRatio is life/maxLife, or 0 for a particle created without a lifetime.
func (p *Particle) lifeRatio() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
