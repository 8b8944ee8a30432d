package engine

import (
	"math"

	"github.com/san-kum/fluxsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	flowEmit  = 3
	flowLife  = 150
	burstSize = 50
	burstLift = 100
	orbitEmit = 30
	glitchHit = 50
)

// MouseMove records the pointer. In flow mode it also paints three particles
// around it.
func (l *Loop) MouseMove(x, y float64) {
	if !l.running {
		return
	}
	l.mouse = r2.Vec{X: x, Y: y}

	if l.mode != particle.Flow {
		return
	}
	for i := 0; i < flowEmit; i++ {
		l.spawn(particle.New(
			x+particle.Jitter(l.rng, 20),
			y+particle.Jitter(l.rng, 20),
			particle.Jitter(l.rng, 2),
			particle.Jitter(l.rng, 2),
			particle.RandomColor(l.rng),
			l.settings.Size,
			flowLife,
		))
	}
}

// Click emits a mode-dependent batch at (x, y). Flow, push and rain ignore it.
func (l *Loop) Click(x, y float64) {
	if !l.running {
		return
	}

	switch l.mode {
	case particle.Burst:
		l.spawn(particle.NewBurst(l.rng, x, y-burstLift, burstSize, l.theme.BurstColors)...)
	case particle.Orbit:
		for i := 0; i < orbitEmit; i++ {
			angle := l.rng.Float64() * 2 * math.Pi
			speed := l.rng.Float64() * 5
			l.spawn(particle.New(
				x, y,
				math.Cos(angle)*speed,
				math.Sin(angle)*speed,
				particle.RandomColor(l.rng),
				l.settings.Size,
				seedLife,
			))
		}
	case particle.Corruption:
		for i := 0; i < glitchHit; i++ {
			l.spawn(particle.New(
				x+particle.Jitter(l.rng, 100),
				y+particle.Jitter(l.rng, 100),
				particle.Jitter(l.rng, 20),
				particle.Jitter(l.rng, 20),
				l.accent(),
				l.settings.Size*(0.5+l.rng.Float64()),
				30+int(l.rng.Float64()*50),
			))
		}
	}
}
