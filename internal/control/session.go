package control

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/fluxsim/internal/config"
	"github.com/san-kum/fluxsim/internal/engine"
	"github.com/san-kum/fluxsim/internal/particle"
	"github.com/san-kum/fluxsim/internal/skin"
)

// Options are the start-up choices every host shares.
type Options struct {
	Skin     skin.Skin
	Mode     particle.Mode
	Settings config.Settings
	Seed     int64
	Logger   *slog.Logger
}

// withDefaults fills zero values: cyberpunk skin, the skin's default
// settings, the skin's first mode when the requested one is not offered, and
// a time-based seed.
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if len(o.Skin.Modes) == 0 {
		o.Skin = skin.Cyberpunk
	}
	if o.Settings == (config.Settings{}) {
		o.Settings = o.Skin.Defaults
	}
	if !o.Skin.Supports(o.Mode) {
		o.Mode = o.Skin.Modes[0].Mode
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// Session is the interactive state a host drives: the loop plus the mode
// selector, skin choice, settings panel and pause flag. Hosts translate their
// own key and pointer events into Session calls.
type Session struct {
	Loop     *engine.Loop
	Skin     skin.Skin
	Settings config.Settings
	Slider   int
	Paused   bool
	Panel    bool

	// OnSkin lets a host repaint its own chrome after a skin change.
	OnSkin func(skin.Skin)

	log *slog.Logger
}

func NewSession(opts Options, extra ...engine.Option) *Session {
	opts = opts.withDefaults()
	s := &Session{
		Skin:     opts.Skin,
		Settings: opts.Settings.Clamp(),
		log:      opts.Logger,
	}
	base := []engine.Option{
		engine.WithRand(rand.New(rand.NewSource(opts.Seed))),
		engine.WithMode(opts.Mode),
		engine.WithSettings(s.Settings.Engine()),
		engine.WithTheme(opts.Skin.Theme),
		engine.WithLogger(opts.Logger),
	}
	s.Loop = engine.New(append(base, extra...)...)
	return s
}

// Frame advances the loop unless paused. A paused frame only moves the fps
// window along.
func (s *Session) Frame(now time.Time) {
	if s.Paused {
		s.Loop.Idle(now)
		return
	}
	s.Loop.Frame(now)
}

// SelectMode picks the nth (0-based) mode of the skin's selector. It
// reports false when the skin has no such entry.
func (s *Session) SelectMode(n int) bool {
	m, ok := s.Skin.Index(n)
	if ok {
		s.Loop.SetMode(m)
	}
	return ok
}

func (s *Session) NextMode() { s.Loop.SetMode(s.Skin.Next(s.Loop.Mode())) }

// Reseed discards the population and seeds the current mode again.
func (s *Session) Reseed() { s.Loop.SetMode(s.Loop.Mode()) }

func (s *Session) TogglePause() { s.Paused = !s.Paused }

func (s *Session) TogglePanel() { s.Panel = !s.Panel }

// CycleSkin moves to the next skin. A mode the new skin does not offer
// falls back to its first mode.
func (s *Session) CycleSkin() {
	idx := 0
	for i, sk := range skin.Skins {
		if sk.Name == s.Skin.Name {
			idx = (i + 1) % len(skin.Skins)
		}
	}
	s.Skin = skin.Skins[idx]
	s.Loop.SetTheme(s.Skin.Theme)
	if !s.Skin.Supports(s.Loop.Mode()) {
		s.Loop.SetMode(s.Skin.Modes[0].Mode)
	}
	if s.OnSkin != nil {
		s.OnSkin(s.Skin)
	}
	s.log.Debug("skin switched", "skin", s.Skin.Name)
}

// MoveSlider changes the focused slider while the panel is open.
func (s *Session) MoveSlider(dir int) {
	if !s.Panel {
		return
	}
	s.Slider = max(0, min(len(config.Sliders)-1, s.Slider+dir))
}

// Nudge steps the focused slider while the panel is open and hands the new
// snapshot to the loop.
func (s *Session) Nudge(dir int) {
	if !s.Panel {
		return
	}
	s.Settings = s.Settings.Step(s.Slider, dir)
	s.Loop.SetSettings(s.Settings.Engine())
}

// SetSlider focuses slider i and sets it to v, for hosts with direct
// manipulation widgets.
func (s *Session) SetSlider(i int, v float64) {
	if i < 0 || i >= len(config.Sliders) {
		return
	}
	s.Slider = i
	s.Settings = s.Settings.Set(i, v)
	s.Loop.SetSettings(s.Settings.Engine())
}

// ApplyPreset loads a named preset for the current mode.
func (s *Session) ApplyPreset(name string) bool {
	p, ok := config.GetPreset(s.Loop.Mode().String(), name)
	if !ok {
		return false
	}
	s.Settings = p.Clamp()
	s.Loop.SetSettings(s.Settings.Engine())
	return true
}

// Pointer forwards pointer motion.
func (s *Session) Pointer(x, y float64) { s.Loop.MouseMove(x, y) }

// Press is a primary-button press: the pointer moves there, then clicks.
func (s *Session) Press(x, y float64) {
	s.Loop.MouseMove(x, y)
	s.Loop.Click(x, y)
}
