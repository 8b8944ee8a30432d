package gui

import (
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

const glyphFontSize = 32

// fonts with katakana coverage, tried in order
var glyphFonts = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"C:\\Windows\\Fonts\\msgothic.ttc",
}

// textureSurface draws into an off-screen render texture that persists
// between frames, so the loop's translucent wash leaves trails. Every draw
// call must happen between rl.BeginTextureMode and rl.EndTextureMode.
type textureSurface struct {
	target rl.RenderTexture2D
	w, h   int32
	bg     rl.Color

	font rl.Font
	kana bool

	colors palette
	blend  rl.BlendMode
}

func newTextureSurface(w, h int32, background string, fontPath string) *textureSurface {
	s := &textureSurface{colors: make(palette), blend: rl.BlendAlpha}
	s.bg = s.colors.get(background)
	s.font, s.kana = loadGlyphFont(fontPath)
	s.alloc(w, h)
	return s
}

func loadGlyphFont(preferred string) (rl.Font, bool) {
	codepoints := make([]rune, 0, 96)
	for r := rune(0x30A0); r < 0x3100; r++ {
		codepoints = append(codepoints, r)
	}
	candidates := glyphFonts
	if preferred != "" {
		candidates = append([]string{preferred}, glyphFonts...)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		font := rl.LoadFontEx(path, glyphFontSize, codepoints)
		rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
		return font, true
	}
	return rl.GetFontDefault(), false
}

func (s *textureSurface) alloc(w, h int32) {
	s.w, s.h = max(w, 1), max(h, 1)
	s.target = rl.LoadRenderTexture(s.w, s.h)
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(s.bg)
	rl.EndTextureMode()
}

func (s *textureSurface) unload() {
	rl.UnloadRenderTexture(s.target)
	if s.kana {
		rl.UnloadFont(s.font)
	}
}

func (s *textureSurface) setBackground(hex string) { s.bg = s.colors.get(hex) }

func (s *textureSurface) Size() (w, h float64) { return float64(s.w), float64(s.h) }

// Resize reallocates the texture. The old trail buffer is discarded.
func (s *textureSurface) Resize(w, h float64) {
	if int32(w) == s.w && int32(h) == s.h {
		return
	}
	rl.UnloadRenderTexture(s.target)
	s.alloc(int32(w), int32(h))
}

// Shapes are drawn with premultiplied colours so the texture stays opaque and
// trails fade at the wash rate.
func (s *textureSurface) setBlend(m rl.BlendMode) {
	if s.blend != m {
		rl.BeginBlendMode(m)
		s.blend = m
	}
}

// endFrame restores the default blend mode; call it before EndTextureMode.
func (s *textureSurface) endFrame() {
	rl.EndBlendMode()
	s.blend = rl.BlendAlpha
}

func (s *textureSurface) FillRect(x, y, w, h float64, color string, alpha float64) {
	s.setBlend(rl.BlendAlphaPremultiply)
	rl.DrawRectangleRec(
		rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)),
		premultiply(s.colors.get(color), alpha),
	)
}

func (s *textureSurface) FillCircle(x, y, r float64, color string, alpha, glow float64) {
	s.setBlend(rl.BlendAlphaPremultiply)
	c := s.colors.get(color)
	if glow > 0 {
		rl.DrawCircleGradient(int32(x), int32(y), float32(r+glow),
			premultiply(c, alpha*0.35), premultiply(c, 0))
	}
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(r), premultiply(c, alpha))
}

// FillGlyph stays on straight alpha: font texels carry coverage in alpha only.
func (s *textureSurface) FillGlyph(x, y float64, ch rune, color string, alpha, glow float64, glowColor string) {
	s.setBlend(rl.BlendAlpha)
	if !s.kana {
		ch = asciiGlyph(ch)
	}
	pos := rl.NewVector2(float32(x), float32(y))
	size := float32(14)
	if glow > 0 {
		halo := rl.NewVector2(pos.X+size/2, pos.Y+size/2)
		rl.DrawCircleGradient(int32(halo.X), int32(halo.Y), float32(glow),
			rl.Fade(s.colors.get(glowColor), float32(alpha*0.25)), rl.Fade(s.colors.get(glowColor), 0))
	}
	rl.DrawTextCodepoint(s.font, ch, pos, size, rl.Fade(s.colors.get(color), float32(alpha)))
}

func premultiply(c rl.Color, alpha float64) rl.Color {
	a := max(0, min(1, alpha))
	return rl.NewColor(
		uint8(float64(c.R)*a+0.5),
		uint8(float64(c.G)*a+0.5),
		uint8(float64(c.B)*a+0.5),
		uint8(a*255+0.5),
	)
}

// palette caches parsed "#rrggbb" tokens. Unparseable tokens draw white.
type palette map[string]rl.Color

func (p palette) get(hex string) rl.Color {
	if c, ok := p[hex]; ok {
		return c
	}
	c, ok := parseColor(hex)
	if !ok {
		c = rl.White
	}
	p[hex] = c
	return c
}

func parseColor(hex string) (rl.Color, bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return rl.Color{}, false
	}
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255), true
}

// asciiGlyph folds katakana onto printable ASCII for fonts without them.
func asciiGlyph(ch rune) rune {
	if ch < 0x30A0 || ch > 0x30FF {
		return ch
	}
	return '!' + (ch-0x30A0)%94
}
