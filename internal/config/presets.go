package config

import "sort"

var Presets = map[string]map[string]Settings{
	"orbit": {
		"calm":   {Count: 150, Speed: 0.6, Size: 2.5, Glow: 10, Trail: 0.2},
		"swarm":  {Count: 500, Speed: 1.0, Size: 2, Glow: 8, Trail: 0.2},
		"comets": {Count: 80, Speed: 1.4, Size: 5, Glow: 25, Trail: 0.2},
	},
	"burst": {
		"festival": {Count: 200, Speed: 1, Size: 3, Glow: 20, Trail: 0.2},
	},
	"flow": {
		"ink":        {Count: 200, Speed: 1, Size: 4, Glow: 0, Trail: 0.05},
		"watercolor": {Count: 300, Speed: 1, Size: 6, Glow: 12, Trail: 0.1},
		"neon":       {Count: 200, Speed: 1, Size: 3, Glow: 30, Trail: 0.4},
	},
	"push": {
		"field":   {Count: 400, Speed: 1, Size: 2, Glow: 10, Trail: 0.2},
		"marbles": {Count: 120, Speed: 1, Size: 7, Glow: 5, Trail: 0.2},
	},
	"rain": {
		"drizzle":  {Count: 200, Speed: 0.5, Size: 3, Glow: 8, Trail: 0.2},
		"downpour": {Count: 200, Speed: 2.5, Size: 3, Glow: 20, Trail: 0.2},
	},
	"corruption": {
		"static":   {Count: 200, Speed: 0.4, Size: 2, Glow: 5, Trail: 0.2},
		"meltdown": {Count: 200, Speed: 3, Size: 5, Glow: 30, Trail: 0.2},
	},
}

func GetPreset(mode, preset string) (Settings, bool) {
	modePresets, ok := Presets[mode]
	if !ok {
		return Settings{}, false
	}
	s, ok := modePresets[preset]
	return s, ok
}

// ListPresets returns preset names for mode in sorted order.
func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
