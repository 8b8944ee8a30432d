package engine

// Surface is the drawing API a host hands to the loop. Coordinates are in
// surface units; colours are "#rrggbb" tokens.
type Surface interface {
	Size() (w, h float64)
	Resize(w, h float64)
	FillRect(x, y, w, h float64, color string, alpha float64)
	FillCircle(x, y, r float64, color string, alpha, glow float64)
	FillGlyph(x, y float64, ch rune, color string, alpha, glow float64, glowColor string)
}

// Settings is the tunable parameter record. The loop re-reads it every frame
// and does not validate it.
type Settings struct {
	Count         int
	Speed         float64
	Size          float64
	GlowIntensity float64
	TrailLength   float64
}

// DefaultSettings matches the slider positions a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		Count:         200,
		Speed:         1,
		Size:          3,
		GlowIntensity: 15,
		TrailLength:   0.2,
	}
}

// Theme carries the colours the loop paints with. Skins supply their own.
type Theme struct {
	Background  string
	BurstColors []string
	Accents     [2]string
	RainColor   string
}

// DefaultTheme is the base product's palette.
func DefaultTheme() Theme {
	return Theme{
		Background:  "#0a0a1e",
		BurstColors: []string{"#ff6b6b", "#4ecdc4", "#45b7d1", "#f7d794", "#ff6348"},
		Accents:     [2]string{"#00ff41", "#ff0080"},
		RainColor:   "#00ff41",
	}
}
