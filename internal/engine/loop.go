// Package engine drives the particle population: it owns the live particles,
// the pointer and the settings snapshot, and runs one update-and-draw cycle
// per display refresh. Hosts call Frame once per refresh and keep
// rescheduling while Running reports true.
package engine

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/fluxsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	cullMargin  = 50.0
	columnWidth = 20.0
	seedLife    = 1000

	corruptSpawnChance    = 0.05
	corruptSpawnCount     = 10
	corruptScanlineChance = 0.1
	scanlineHeight        = 1.0
)

// Loop is the single owning context for the simulation. It is not safe for
// concurrent use; every call happens on the host's frame thread.
type Loop struct {
	surface  Surface
	mode     particle.Mode
	settings Settings
	theme    Theme
	rng      *rand.Rand
	log      *slog.Logger
	onFPS    func(int)
	clock    func() time.Time

	particles []*particle.Particle
	glyphs    []*particle.Glyph
	mouse     r2.Vec

	running   bool
	frames    int
	lastFlush time.Time
	lastFrame time.Time
	fps       int
	stats     Stats
}

// Option configures a Loop.
type Option func(*Loop)

// WithRand sets the random source behind every spawn and update roll.
func WithRand(rng *rand.Rand) Option { return func(l *Loop) { l.rng = rng } }

// WithMode sets the starting mode.
func WithMode(m particle.Mode) Option { return func(l *Loop) { l.mode = m } }

// WithSettings sets the starting settings snapshot.
func WithSettings(s Settings) Option { return func(l *Loop) { l.settings = s } }

// WithTheme sets the colours the loop paints with.
func WithTheme(t Theme) Option { return func(l *Loop) { l.theme = t } }

// WithLogger routes the loop's debug events.
func WithLogger(log *slog.Logger) Option { return func(l *Loop) { l.log = log } }

// WithClock replaces time.Now as the source of the fps epoch.
func WithClock(clock func() time.Time) Option { return func(l *Loop) { l.clock = clock } }

// WithFPSHandler registers the callback that receives one FPS sample per
// wall-clock second.
func WithFPSHandler(fn func(int)) Option { return func(l *Loop) { l.onFPS = fn } }

// New creates a stopped loop. Call Start with a surface to begin.
func New(opts ...Option) *Loop {
	l := &Loop{
		mode:     particle.Orbit,
		settings: DefaultSettings(),
		theme:    DefaultTheme(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if l.log == nil {
		l.log = slog.New(slog.DiscardHandler)
	}
	return l
}

// Start attaches the surface and seeds the population for the current mode.
// A nil surface aborts setup with ErrNoSurface and leaves the loop stopped.
func (l *Loop) Start(s Surface) error {
	if s == nil {
		l.log.Debug("setup aborted", "err", ErrNoSurface)
		return ErrNoSurface
	}
	l.surface = s
	l.running = true
	l.frames = 0
	l.lastFlush = l.clock()
	l.lastFrame = l.lastFlush
	l.reseed()
	w, h := s.Size()
	l.log.Debug("loop started", "mode", l.mode, "width", w, "height", h, "population", len(l.particles))
	return nil
}

// Stop tears the loop down. Frame and input calls become no-ops and Running
// reports false so the host stops scheduling refreshes.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.surface = nil
	l.log.Debug("loop stopped", "stats", l.stats)
}

func (l *Loop) Running() bool { return l.running }

// SetMode switches behaviour. The current population is discarded and
// reseeded for the new mode.
func (l *Loop) SetMode(m particle.Mode) {
	prev := l.mode
	l.mode = m
	if l.running {
		l.reseed()
	}
	l.log.Debug("mode switched", "from", prev, "to", m, "population", len(l.particles), "glyphs", len(l.glyphs))
}

// SetSettings replaces the settings snapshot. The population is kept.
func (l *Loop) SetSettings(s Settings) { l.settings = s }

// Resize resizes the drawing surface without reseeding.
func (l *Loop) Resize(w, h float64) {
	if l.surface == nil {
		return
	}
	l.surface.Resize(w, h)
	l.log.Debug("surface resized", "width", w, "height", h)
}

// Mode is the active mode.
func (l *Loop) Mode() particle.Mode { return l.mode }

// Settings is the snapshot the next frame reads.
func (l *Loop) Settings() Settings { return l.settings }

// Theme is the active palette.
func (l *Loop) Theme() Theme { return l.theme }

// Mouse is the last recorded pointer position.
func (l *Loop) Mouse() r2.Vec { return l.mouse }

// Population counts live particles, not rain glyphs.
func (l *Loop) Population() int { return len(l.particles) }

// GlyphCount counts rain columns.
func (l *Loop) GlyphCount() int { return len(l.glyphs) }

// FPS is the most recent per-second frame count.
func (l *Loop) FPS() int { return l.fps }

// Stats returns the lifetime bookkeeping.
func (l *Loop) Stats() Stats { return l.stats }

// Surface is the attached surface, nil while stopped.
func (l *Loop) Surface() Surface { return l.surface }

// SetTheme swaps the palette without reseeding.
func (l *Loop) SetTheme(t Theme) { l.theme = t }

// FPSHandler replaces the per-second fps callback.
func (l *Loop) FPSHandler(fn func(int)) { l.onFPS = fn }

// Particles exposes the live population. Callers must not retain the slice
// across frames.
func (l *Loop) Particles() []*particle.Particle { return l.particles }

// Glyphs exposes the live rain columns.
func (l *Loop) Glyphs() []*particle.Glyph { return l.glyphs }

// Frame runs one refresh: fps bookkeeping, trail wash, mode extras, then
// update, cull, draw and top-up of the general population.
func (l *Loop) Frame(now time.Time) {
	if !l.running {
		return
	}

	l.lastFrame = now
	l.tickFPS(now)

	w, h := l.surface.Size()
	l.surface.FillRect(0, 0, w, h, l.theme.Background, l.trailAlpha())

	switch l.mode {
	case particle.Rain:
		l.stepRain(h)
	case particle.Corruption:
		l.stepCorruption(w, h)
	}

	l.stepParticles(w, h)

	if l.mode.SteadyState() && len(l.particles) < l.settings.Count {
		l.spawn(particle.New(
			l.rng.Float64()*w, l.rng.Float64()*h, 0, 0,
			particle.RandomColor(l.rng), l.settings.Size, seedLife,
		))
	}

	l.stats.observe(len(l.particles))
}

// Idle keeps the fps window in step with wall time while the host holds
// frames back, so the first sample after a pause covers only the last second.
func (l *Loop) Idle(now time.Time) {
	if !l.running {
		return
	}
	l.lastFrame = now
	l.flushFPS(now)
}

func (l *Loop) tickFPS(now time.Time) {
	l.frames++
	l.flushFPS(now)
}

func (l *Loop) flushFPS(now time.Time) {
	if !now.Before(l.lastFlush.Add(time.Second)) {
		l.fps = l.frames
		if l.onFPS != nil {
			l.onFPS(l.frames)
		}
		l.frames = 0
		l.lastFlush = now
	}
}

// trailAlpha is the opacity of the per-frame wash; higher means shorter trails.
func (l *Loop) trailAlpha() float64 {
	switch l.mode {
	case particle.Flow:
		return l.settings.TrailLength
	case particle.Rain:
		return 0.05
	case particle.Corruption:
		return 0.3
	}
	return 0.2
}

func (l *Loop) stepRain(h float64) {
	for _, g := range l.glyphs {
		particle.UpdateRain(g, l.rng, l.settings.Speed, h)
		l.surface.FillGlyph(g.Pos.X, g.Pos.Y, g.Char, g.Color, g.Alpha*g.Tint,
			l.settings.GlowIntensity, l.theme.RainColor)
		particle.FadeRain(g, l.rng)
	}
}

func (l *Loop) stepCorruption(w, h float64) {
	if l.rng.Float64() < corruptSpawnChance {
		x, y := l.rng.Float64()*w, l.rng.Float64()*h
		for i := 0; i < corruptSpawnCount; i++ {
			l.spawn(particle.New(
				x+particle.Jitter(l.rng, 50),
				y+particle.Jitter(l.rng, 50),
				particle.Jitter(l.rng, 10),
				particle.Jitter(l.rng, 10),
				l.accent(),
				l.settings.Size,
				20+int(l.rng.Float64()*30),
			))
		}
	}
	if l.rng.Float64() < corruptScanlineChance {
		l.surface.FillRect(0, l.rng.Float64()*h, w, scanlineHeight, l.theme.Accents[0], 0.1)
	}
}

func (l *Loop) stepParticles(w, h float64) {
	survivors := l.particles[:0]
	for _, p := range l.particles {
		l.update(p)
		if Cull(p, w, h) {
			l.stats.Culled++
			continue
		}
		l.surface.FillCircle(p.Pos.X, p.Pos.Y, p.Size, p.Color, p.Alpha, l.settings.GlowIntensity)
		survivors = append(survivors, p)
	}
	clear(l.particles[len(survivors):])
	l.particles = survivors
}

func (l *Loop) update(p *particle.Particle) {
	switch l.mode {
	case particle.Orbit:
		particle.UpdateOrbit(p, l.mouse)
		p.Vel = r2.Scale(l.settings.Speed, p.Vel)
	case particle.Burst:
		particle.UpdateBurst(p)
	case particle.Flow:
		particle.UpdateFlow(p, l.mouse)
	case particle.Push:
		particle.UpdatePush(p, l.mouse)
	case particle.Corruption:
		particle.UpdateCorruption(p, l.rng, l.settings.Speed)
	}
}

// Cull reports whether p should leave the population: more than 50 units off
// any edge of a w×h surface, or out of life. The margin itself is kept.
func Cull(p *particle.Particle, w, h float64) bool {
	return p.Pos.X < -cullMargin ||
		p.Pos.X > w+cullMargin ||
		p.Pos.Y < -cullMargin ||
		p.Pos.Y > h+cullMargin ||
		p.Life <= 0
}

func (l *Loop) reseed() {
	clear(l.particles)
	l.particles = l.particles[:0]
	l.glyphs = nil

	w, h := l.surface.Size()
	switch l.mode {
	case particle.Burst, particle.Corruption:
	case particle.Rain:
		columns := max(int(w/columnWidth), 0)
		l.glyphs = make([]*particle.Glyph, 0, columns)
		for i := 0; i < columns; i++ {
			l.glyphs = append(l.glyphs, particle.NewGlyph(l.rng, float64(i)*columnWidth, h, l.theme.RainColor))
		}
	default:
		for i := 0; i < l.settings.Count; i++ {
			l.spawn(particle.New(
				l.rng.Float64()*w, l.rng.Float64()*h,
				particle.Jitter(l.rng, 2), particle.Jitter(l.rng, 2),
				particle.RandomColor(l.rng), l.settings.Size, seedLife,
			))
		}
	}
}

func (l *Loop) spawn(ps ...*particle.Particle) {
	l.particles = append(l.particles, ps...)
	l.stats.Spawned += len(ps)
}

func (l *Loop) accent() string {
	if l.rng.Float64() > 0.5 {
		return l.theme.Accents[0]
	}
	return l.theme.Accents[1]
}
