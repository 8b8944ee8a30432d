package particle

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	orbitForce   = 0.5
	orbitDamping = 0.95

	burstGravity = 0.2
	burstDamping = 0.99

	flowGain     = 0.05
	flowDamping  = 0.9
	flowMaxAlpha = 0.8

	pushRadius   = 150.0
	pushStrength = 2.0
	pushDamping  = 0.95

	rainWrap     = 20.0
	rainMinAlpha = 0.3
	rainFlicker  = 0.01

	corruptChance  = 0.1
	corruptJump    = 50.0
	corruptDamping = 0.95
)

// UpdateOrbit pulls the particle toward the pointer at a fixed magnitude.
func UpdateOrbit(p *Particle, mouse r2.Vec) {
	d := r2.Sub(mouse, p.Pos)
	if r2.Norm(d) > 1 {
		angle := math.Atan2(d.Y, d.X)
		p.Vel.X += math.Cos(angle) * orbitForce
		p.Vel.Y += math.Sin(angle) * orbitForce
	}
	p.Vel = r2.Scale(orbitDamping, p.Vel)
	p.Pos = r2.Add(p.Pos, p.Vel)
}

// UpdateBurst applies gravity and burns one frame of life.
func UpdateBurst(p *Particle) {
	p.Vel.Y += burstGravity
	p.Pos = r2.Add(p.Pos, p.Vel)
	p.Vel = r2.Scale(burstDamping, p.Vel)

	p.Life--
	p.Alpha = clamp(p.lifeRatio(), 0, 1)
}

// UpdateFlow accelerates toward the pointer proportionally to the raw
// displacement. Alpha never exceeds 0.8.
func UpdateFlow(p *Particle, mouse r2.Vec) {
	d := r2.Sub(mouse, p.Pos)
	if r2.Norm(d) > 1 {
		p.Vel = r2.Add(p.Vel, r2.Scale(flowGain, d))
	}
	p.Vel = r2.Scale(flowDamping, p.Vel)
	p.Pos = r2.Add(p.Pos, p.Vel)

	p.Life--
	p.Alpha = clamp(p.lifeRatio(), 0, flowMaxAlpha)
}

// UpdatePush shoves the particle away from the pointer inside pushRadius,
// stronger the closer it is.
func UpdatePush(p *Particle, mouse r2.Vec) {
	d := r2.Sub(mouse, p.Pos)
	dist := r2.Norm(d)
	if dist > 0 && dist < pushRadius {
		force := (pushRadius - dist) / pushRadius
		angle := math.Atan2(d.Y, d.X)
		p.Vel.X -= math.Cos(angle) * force * pushStrength
		p.Vel.Y -= math.Sin(angle) * force * pushStrength
	}
	p.Vel = r2.Scale(pushDamping, p.Vel)
	p.Pos = r2.Add(p.Pos, p.Vel)
}

// UpdateRain moves a glyph down by vy*speed and wraps it to the top once it
// has left the surface, re-rolling its character.
func UpdateRain(g *Glyph, rng *rand.Rand, speed, surfaceHeight float64) {
	g.Pos.Y += g.Vel.Y * speed
	if g.Pos.Y > surfaceHeight+rainWrap {
		g.Pos.Y = -rainWrap
		g.Char = RandomGlyph(rng)
	}
}

// FadeRain dims a glyph after it has been drawn. Roughly one frame in a
// hundred it flares back to full brightness with a new character.
func FadeRain(g *Glyph, rng *rand.Rand) {
	g.Alpha = math.Max(rainMinAlpha, g.Alpha-g.FadeSpeed)
	if rng.Float64() < rainFlicker {
		g.Alpha = 1
		g.Char = RandomGlyph(rng)
	}
}

// UpdateCorruption may teleport the particle before moving it. The jump is
// applied first, then the velocity-driven translation, in that order.
func UpdateCorruption(p *Particle, rng *rand.Rand, speed float64) {
	if rng.Float64() < corruptChance {
		p.Pos.X += Jitter(rng, corruptJump)
		p.Pos.Y += Jitter(rng, corruptJump)
	}
	p.Pos = r2.Add(p.Pos, r2.Scale(speed, p.Vel))
	p.Vel = r2.Scale(corruptDamping, p.Vel)

	p.Life--
	p.Alpha = clamp(p.lifeRatio(), 0, 1)
}
