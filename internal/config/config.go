package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/fluxsim/internal/engine"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSkin     = "cyberpunk"
	DefaultMode     = "orbit"
	DefaultCount    = 200
	DefaultSpeed    = 1.0
	DefaultSize     = 3.0
	DefaultGlow     = 15.0
	DefaultTrail    = 0.2
	DefaultScale    = 8.0
	DefaultTUIFPS   = 60
	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultGUIFPS   = 60
	DefaultLogLevel = "info"
)

type Config struct {
	Skin     string    `yaml:"skin"`
	Mode     string    `yaml:"mode"`
	Seed     int64     `yaml:"seed"`
	Settings Settings  `yaml:"settings"`
	TUI      TUIConfig `yaml:"tui"`
	GUI      GUIConfig `yaml:"gui"`
	Log      LogConfig `yaml:"log"`
}

// Settings is the slider-backed parameter set.
type Settings struct {
	Count int     `yaml:"count" json:"count"`
	Speed float64 `yaml:"speed" json:"speed"`
	Size  float64 `yaml:"size" json:"size"`
	Glow  float64 `yaml:"glow" json:"glow"`
	Trail float64 `yaml:"trail" json:"trail"`
}

type TUIConfig struct {
	Scale float64 `yaml:"scale"` // surface units per half-block dot
	FPS   int     `yaml:"fps"`
}

type GUIConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type LogConfig struct {
	File   string `yaml:"file"`
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

func DefaultSettings() Settings {
	return Settings{
		Count: DefaultCount,
		Speed: DefaultSpeed,
		Size:  DefaultSize,
		Glow:  DefaultGlow,
		Trail: DefaultTrail,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Skin:     DefaultSkin,
		Mode:     DefaultMode,
		Settings: DefaultSettings(),
		TUI: TUIConfig{
			Scale: DefaultScale,
			FPS:   DefaultTUIFPS,
		},
		GUI: GUIConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultGUIFPS,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Engine converts to the loop's settings record.
func (s Settings) Engine() engine.Settings {
	return engine.Settings{
		Count:         s.Count,
		Speed:         s.Speed,
		Size:          s.Size,
		GlowIntensity: s.Glow,
		TrailLength:   s.Trail,
	}
}

// Slider describes one settings control: its bounds and step.
type Slider struct {
	Name string
	Min  float64
	Max  float64
	Step float64
}

// Sliders are the settings panel controls, in display order.
var Sliders = []Slider{
	{"count", 50, 500, 10},
	{"speed", 0.1, 3, 0.1},
	{"size", 1, 8, 0.5},
	{"glow", 0, 30, 1},
	{"trail", 0, 1, 0.05},
}

func (s Settings) get(i int) float64 {
	switch i {
	case 0:
		return float64(s.Count)
	case 1:
		return s.Speed
	case 2:
		return s.Size
	case 3:
		return s.Glow
	default:
		return s.Trail
	}
}

func (s *Settings) set(i int, v float64) {
	switch i {
	case 0:
		s.Count = int(math.Round(v))
	case 1:
		s.Speed = v
	case 2:
		s.Size = v
	case 3:
		s.Glow = v
	default:
		s.Trail = v
	}
}

// Value returns the current value of slider i.
func (s Settings) Value(i int) float64 { return s.get(i) }

// Clamp pins every field into its slider range. The engine never does this;
// it is the settings panel's job.
func (s Settings) Clamp() Settings {
	for i, sl := range Sliders {
		s.set(i, math.Max(sl.Min, math.Min(sl.Max, s.get(i))))
	}
	return s
}

// Step nudges slider i by dir steps, snapping to the step grid and clamping.
func (s Settings) Step(i, dir int) Settings {
	if i < 0 || i >= len(Sliders) {
		return s
	}
	return s.Set(i, s.get(i)+float64(dir)*Sliders[i].Step)
}

// Set puts slider i at v, snapped to the step grid and clamped.
func (s Settings) Set(i int, v float64) Settings {
	if i < 0 || i >= len(Sliders) {
		return s
	}
	sl := Sliders[i]
	v = math.Round((v-sl.Min)/sl.Step)*sl.Step + sl.Min
	// trim float noise from the step arithmetic
	v = math.Round(v*1000) / 1000
	s.set(i, v)
	return s.Clamp()
}
