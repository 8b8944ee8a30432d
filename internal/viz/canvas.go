package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Half-block cells: each terminal cell shows two vertically stacked dots,
// the upper as the foreground of '▀' and the lower as its background.
const upperHalf = "▀"

// glyphs below this visibility are dropped from the cell layer
const glyphCutoff = 0.05

type glyphCell struct {
	ch    rune
	color colorful.Color
	alpha float64
}

// Canvas is a colour framebuffer addressed in logical surface units. One dot
// spans Scale units in both axes, so a cols×rows terminal area is
// cols·Scale wide and rows·2·Scale tall.
type Canvas struct {
	Cols, Rows int
	Scale      float64

	dots   [][]colorful.Color
	glyphs [][]glyphCell
	bg     colorful.Color
	parsed map[string]colorful.Color
}

func NewCanvas(cols, rows int, scale float64, background string) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	c := &Canvas{Scale: scale, parsed: make(map[string]colorful.Color)}
	c.bg, _ = c.color(background)
	c.ResizeCells(cols, rows)
	return c
}

// ResizeCells reallocates the buffer for a new terminal area and clears it.
func (c *Canvas) ResizeCells(cols, rows int) {
	c.Cols, c.Rows = max(cols, 0), max(rows, 0)
	c.dots = make([][]colorful.Color, c.Rows*2)
	for i := range c.dots {
		c.dots[i] = make([]colorful.Color, c.Cols)
	}
	c.glyphs = make([][]glyphCell, c.Rows)
	for i := range c.glyphs {
		c.glyphs[i] = make([]glyphCell, c.Cols)
	}
	c.Clear()
}

// Size reports the logical surface size.
func (c *Canvas) Size() (w, h float64) {
	return float64(c.Cols) * c.Scale, float64(c.Rows*2) * c.Scale
}

// Resize takes logical units and snaps them to whole cells.
func (c *Canvas) Resize(w, h float64) {
	c.ResizeCells(int(w/c.Scale), int(h/(2*c.Scale)))
}

// SetBackground changes the colour Clear resets to.
func (c *Canvas) SetBackground(hex string) {
	if col, ok := c.color(hex); ok {
		c.bg = col
	}
}

func (c *Canvas) Clear() {
	for _, row := range c.dots {
		for x := range row {
			row[x] = c.bg
		}
	}
	for _, row := range c.glyphs {
		clear(row)
	}
}

// CellToLogical maps a terminal cell to the logical point at its centre.
func (c *Canvas) CellToLogical(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * c.Scale, (float64(row)*2 + 1) * c.Scale
}

// Dot returns the colour at dot coordinates, or false when out of range.
func (c *Canvas) Dot(dx, dy int) (colorful.Color, bool) {
	if dy < 0 || dy >= len(c.dots) || dx < 0 || dx >= c.Cols {
		return colorful.Color{}, false
	}
	return c.dots[dy][dx], true
}

// Glyph returns the rune drawn in a cell, or 0.
func (c *Canvas) Glyph(col, row int) rune {
	if row < 0 || row >= c.Rows || col < 0 || col >= c.Cols {
		return 0
	}
	return c.glyphs[row][col].ch
}

func (c *Canvas) FillRect(x, y, w, h float64, color string, alpha float64) {
	col, ok := c.color(color)
	if !ok || alpha <= 0 {
		return
	}
	x0, y0 := c.toDot(x), c.toDot(y)
	x1, y1 := c.toDot(x+w), c.toDot(y+h)
	if y1 == y0 {
		y1++
	}
	for dy := max(y0, 0); dy < min(y1, len(c.dots)); dy++ {
		for dx := max(x0, 0); dx < min(x1, c.Cols); dx++ {
			c.blend(dx, dy, col, alpha)
		}
	}

	// the wash fades glyph cells the same way it fades dots
	for row := max(y0/2, 0); row < min((y1+1)/2, c.Rows); row++ {
		for cx := max(x0, 0); cx < min(x1, c.Cols); cx++ {
			g := &c.glyphs[row][cx]
			if g.ch == 0 {
				continue
			}
			g.color = g.color.BlendRgb(col, alpha)
			g.alpha *= 1 - alpha
			if g.alpha < glyphCutoff {
				*g = glyphCell{}
			}
		}
	}
}

func (c *Canvas) FillCircle(x, y, r float64, color string, alpha, glow float64) {
	col, ok := c.color(color)
	if !ok || alpha <= 0 {
		return
	}
	cx, cy := x/c.Scale, y/c.Scale
	rd := math.Max(r/c.Scale, 0.5)
	halo := rd + glow/c.Scale

	for dy := int(math.Floor(cy - halo)); dy <= int(math.Ceil(cy+halo)); dy++ {
		for dx := int(math.Floor(cx - halo)); dx <= int(math.Ceil(cx+halo)); dx++ {
			d := math.Hypot(float64(dx)+0.5-cx, float64(dy)+0.5-cy)
			switch {
			case d <= rd:
				c.blend(dx, dy, col, alpha)
			case d <= halo:
				falloff := 1 - (d-rd)/(halo-rd)
				c.blend(dx, dy, col, alpha*0.3*falloff)
			}
		}
	}
}

func (c *Canvas) FillGlyph(x, y float64, ch rune, color string, alpha, glow float64, glowColor string) {
	col, ok := c.color(color)
	if !ok || alpha <= 0 {
		return
	}
	cx, row := int(math.Floor(x/c.Scale)), int(math.Floor(y/(2*c.Scale)))
	if row < 0 || row >= c.Rows || cx < 0 || cx >= c.Cols {
		return
	}
	c.glyphs[row][cx] = glyphCell{ch: narrow(ch), color: col, alpha: math.Min(alpha, 1)}

	if glow > 0 {
		if gc, ok := c.color(glowColor); ok {
			a := math.Min(alpha*glow/60, 0.5)
			c.blend(cx, row*2, gc, a)
			c.blend(cx, row*2+1, gc, a)
		}
	}
}

// String renders the buffer with lipgloss, merging runs of identical cells.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Rows; row++ {
		var (
			run     strings.Builder
			runFg   string
			runBg   string
			started bool
		)
		flush := func() {
			if !started {
				return
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(runFg)).
				Background(lipgloss.Color(runBg)).
				Render(run.String()))
			run.Reset()
		}

		for x := 0; x < c.Cols; x++ {
			top, bot := c.dots[row*2][x], c.dots[row*2+1][x]
			fg, bg, text := top.Clamped().Hex(), bot.Clamped().Hex(), upperHalf
			if g := c.glyphs[row][x]; g.ch != 0 {
				base := top.BlendRgb(bot, 0.5)
				fg = base.BlendRgb(g.color, g.alpha).Clamped().Hex()
				bg = base.Clamped().Hex()
				text = string(g.ch)
			}
			if !started || fg != runFg || bg != runBg {
				flush()
				runFg, runBg, started = fg, bg, true
			}
			run.WriteString(text)
		}
		flush()
		if row < c.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *Canvas) blend(dx, dy int, col colorful.Color, alpha float64) {
	if dy < 0 || dy >= len(c.dots) || dx < 0 || dx >= c.Cols {
		return
	}
	c.dots[dy][dx] = c.dots[dy][dx].BlendRgb(col, math.Min(alpha, 1))
}

func (c *Canvas) toDot(v float64) int {
	return int(math.Floor(v / c.Scale))
}

// color parses and caches "#rrggbb" tokens. Unparseable colours draw nothing.
func (c *Canvas) color(hex string) (colorful.Color, bool) {
	if col, ok := c.parsed[hex]; ok {
		return col, true
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	c.parsed[hex] = col
	return col, true
}

// narrow folds full-width katakana onto the half-width block so every glyph
// fits in one terminal cell.
func narrow(ch rune) rune {
	if ch >= 0x30A0 && ch <= 0x30FF {
		return 0xFF66 + (ch-0x30A0)%56
	}
	return ch
}
