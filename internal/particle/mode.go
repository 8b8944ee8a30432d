package particle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode indicates a mode name that matches no mode or alias.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects the force law and lifecycle rule for the whole population.
type Mode int

const (
	Orbit Mode = iota
	Burst
	Flow
	Push
	Rain
	Corruption
)

var modeNames = [...]string{
	Orbit:      "orbit",
	Burst:      "burst",
	Flow:       "flow",
	Push:       "push",
	Rain:       "rain",
	Corruption: "corruption",
}

// aliases from the behaviour names the modes were first shipped under.
var modeAliases = map[string]Mode{
	"gravity":   Orbit,
	"fireworks": Burst,
	"paint":     Flow,
	"repulsion": Push,
	"matrix":    Rain,
	"glitch":    Corruption,
}

// AllModes lists every mode in selector order.
var AllModes = []Mode{Orbit, Burst, Flow, Push, Rain, Corruption}

// BaseModes are the modes of the base product, without rain and corruption.
var BaseModes = []Mode{Orbit, Burst, Flow, Push}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts canonical names and the legacy aliases, case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	if m, ok := modeAliases[name]; ok {
		return m, nil
	}
	return Orbit, fmt.Errorf("%w: %s", ErrUnknownMode, s)
}

// SteadyState reports whether the mode tops its population up every frame.
func (m Mode) SteadyState() bool {
	switch m {
	case Orbit, Flow, Push:
		return true
	}
	return false
}

// MarshalText lets modes round-trip through YAML and flags by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
