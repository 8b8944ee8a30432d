// Package skin holds the presentation variants of the sandbox. A skin picks
// the palette, mode labels and default settings a host starts with; it never
// changes how particles behave.
package skin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/fluxsim/internal/config"
	"github.com/san-kum/fluxsim/internal/engine"
	"github.com/san-kum/fluxsim/internal/particle"
)

type ModeLabel struct {
	Mode        particle.Mode
	Name        string
	Icon        string
	Description string
}

type Skin struct {
	Name  string
	Title string
	Modes []ModeLabel
	Theme engine.Theme

	Primary     lipgloss.Color
	Secondary   lipgloss.Color
	Accent      lipgloss.Color
	Muted       lipgloss.Color
	Text        lipgloss.Color
	PanelBorder lipgloss.Border

	Defaults config.Settings
}

var labPalette = []string{"#00ff41", "#00d4ff", "#ff00ff", "#ffff00"}

func labTheme(background string) engine.Theme {
	return engine.Theme{
		Background:  background,
		BurstColors: labPalette,
		Accents:     [2]string{"#00ff41", "#ff0080"},
		RainColor:   "#00ff41",
	}
}

func labels(names, icons, descriptions []string) []ModeLabel {
	out := make([]ModeLabel, len(names))
	for i := range names {
		out[i] = ModeLabel{Mode: particle.AllModes[i], Name: names[i], Icon: icons[i]}
		if descriptions != nil {
			out[i].Description = descriptions[i]
		}
	}
	return out
}

var (
	Classic = Skin{
		Name:  "classic",
		Title: "Particle Playground",
		Modes: labels(
			[]string{"Gravity Well", "Fireworks", "Paint Flow", "Repulsion Field"},
			[]string{"◎", "✺", "≈", "↯"},
			[]string{"Particles orbit your cursor", "Click to launch fireworks", "Flowing liquid paint effect", "Push particles away"},
		),
		Theme:       engine.DefaultTheme(),
		Primary:     lipgloss.Color("#a855f7"),
		Secondary:   lipgloss.Color("#ec4899"),
		Accent:      lipgloss.Color("#4ecdc4"),
		Muted:       lipgloss.Color("#666688"),
		Text:        lipgloss.Color("#ffffff"),
		PanelBorder: lipgloss.RoundedBorder(),
		Defaults:    config.DefaultSettings(),
	}

	Cyberpunk = Skin{
		Name:  "cyberpunk",
		Title: "PARTICLE_SYS v2.0",
		Modes: labels(
			[]string{"GRAVITY_WELL", "FIREWORKS", "PAINT_FLOW", "REPULSION", "MATRIX_RAIN", "GLITCH_MODE"},
			[]string{"◉", "✦", "▓", "◈", "█", "▒"},
			[]string{"> gravitational pull", "> explosive release", "> fluid dynamics", "> force field", "> digital rain", "> signal corruption"},
		),
		Theme:       labTheme("#000000"),
		Primary:     lipgloss.Color("#00ff41"),
		Secondary:   lipgloss.Color("#00d4ff"),
		Accent:      lipgloss.Color("#ff0080"),
		Muted:       lipgloss.Color("#005500"),
		Text:        lipgloss.Color("#00ff41"),
		PanelBorder: lipgloss.NormalBorder(),
		Defaults:    config.DefaultSettings(),
	}

	Neon = Skin{
		Name:  "neon",
		Title: "NEON CITY",
		Modes: labels(
			[]string{"Gravity", "Fireworks", "Paint", "Repulsion", "Matrix", "Glitch"},
			[]string{"⬡", "⬢", "⬣", "⬢", "⬡", "⬣"},
			nil,
		),
		Theme:       labTheme("#0a0014"),
		Primary:     lipgloss.Color("#ff00ff"),
		Secondary:   lipgloss.Color("#00ffff"),
		Accent:      lipgloss.Color("#ffff00"),
		Muted:       lipgloss.Color("#664488"),
		Text:        lipgloss.Color("#ffffff"),
		PanelBorder: lipgloss.DoubleBorder(),
		Defaults:    config.Settings{Count: 250, Speed: 1.2, Size: 3, Glow: 25, Trail: 0.2},
	}

	Arcade = Skin{
		Name:  "arcade",
		Title: "PARTICLE PARTY!",
		Modes: labels(
			[]string{"Gravity Orb", "Boom Boom", "Rainbow Paint", "Force Field", "Code Rain", "Glitch Party"},
			[]string{"★", "✹", "✎", "⚡", "♣", "✨"},
			nil,
		),
		Theme:       labTheme("#1a1040"),
		Primary:     lipgloss.Color("#facc15"),
		Secondary:   lipgloss.Color("#f87171"),
		Accent:      lipgloss.Color("#c084fc"),
		Muted:       lipgloss.Color("#9ca3af"),
		Text:        lipgloss.Color("#ffffff"),
		PanelBorder: lipgloss.ThickBorder(),
		Defaults:    config.Settings{Count: 300, Speed: 1.5, Size: 4, Glow: 10, Trail: 0.2},
	}

	Zen = Skin{
		Name:  "zen",
		Title: "particles",
		Modes: labels(
			[]string{"Orbit", "Burst", "Flow", "Push", "Rain", "Shift"},
			[]string{"○", "◇", "∿", "◁", "⋮", "◌"},
			[]string{"Gentle attraction", "Celebrate life", "Liquid motion", "Soft resistance", "Digital zen", "Embrace chaos"},
		),
		Theme:       labTheme("#0f172a"),
		Primary:     lipgloss.Color("#e2e8f0"),
		Secondary:   lipgloss.Color("#94a3b8"),
		Accent:      lipgloss.Color("#7dd3fc"),
		Muted:       lipgloss.Color("#64748b"),
		Text:        lipgloss.Color("#f8fafc"),
		PanelBorder: lipgloss.RoundedBorder(),
		Defaults:    config.Settings{Count: 150, Speed: 0.6, Size: 3, Glow: 8, Trail: 0.1},
	}

	Synthwave = Skin{
		Name:  "synthwave",
		Title: "SYNTHWAVE",
		Modes: labels(
			[]string{"GRAVITY", "BURST", "FLOW", "PUSH", "RAIN", "GLITCH"},
			[]string{"▶", "◆", "▼", "◀", "▲", "◈"},
			nil,
		),
		Theme:       labTheme("#2d1b4e"),
		Primary:     lipgloss.Color("#ff00ff"),
		Secondary:   lipgloss.Color("#00ffff"),
		Accent:      lipgloss.Color("#ffd60a"),
		Muted:       lipgloss.Color("#ff006e"),
		Text:        lipgloss.Color("#ffffff"),
		PanelBorder: lipgloss.DoubleBorder(),
		Defaults:    config.Settings{Count: 200, Speed: 1, Size: 3, Glow: 20, Trail: 0.3},
	}

	Skins = []Skin{Classic, Cyberpunk, Neon, Arcade, Zen, Synthwave}
)

// ErrUnknownSkin is wrapped by Get when no skin matches.
var ErrUnknownSkin = errors.New("unknown skin")

// Get returns a skin by name, case-insensitively.
func Get(name string) (Skin, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range Skins {
		if s.Name == name {
			return s, nil
		}
	}
	return Skin{}, fmt.Errorf("%w: %s", ErrUnknownSkin, name)
}

func Names() []string {
	names := make([]string, len(Skins))
	for i, s := range Skins {
		names[i] = s.Name
	}
	return names
}

// Supports reports whether the skin offers m in its mode selector.
func (s Skin) Supports(m particle.Mode) bool {
	for _, l := range s.Modes {
		if l.Mode == m {
			return true
		}
	}
	return false
}

// Label returns the skin's label for m, or the canonical mode name when the
// skin does not list it.
func (s Skin) Label(m particle.Mode) ModeLabel {
	for _, l := range s.Modes {
		if l.Mode == m {
			return l
		}
	}
	return ModeLabel{Mode: m, Name: m.String()}
}

// Next returns the mode after m in the skin's selector order, wrapping.
func (s Skin) Next(m particle.Mode) particle.Mode {
	if len(s.Modes) == 0 {
		return m
	}
	for i, l := range s.Modes {
		if l.Mode == m {
			return s.Modes[(i+1)%len(s.Modes)].Mode
		}
	}
	return s.Modes[0].Mode
}

// Index returns the nth selectable mode (0-based), used by number keys.
func (s Skin) Index(n int) (particle.Mode, bool) {
	if n < 0 || n >= len(s.Modes) {
		return 0, false
	}
	return s.Modes[n].Mode, true
}
