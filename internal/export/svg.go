package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

const (
	// ops fainter than this are dropped from the display list
	opCutoff = 0.1
	maxOps   = 20000
	glyphPx  = 14
)

type opKind int

const (
	opRect opKind = iota
	opCircle
	opGlyph
)

type op struct {
	kind       opKind
	x, y, w, h float64
	color      string
	alpha      float64
	glow       float64
	ch         rune
	glowColor  string
}

// SVGSurface records draw calls as a display list and writes it out as an
// SVG document. A wash over the whole surface fades everything already
// recorded instead of stacking another layer, so the list stays close to
// what a persistent framebuffer would show.
type SVGSurface struct {
	w, h       float64
	background string
	ops        []op
}

func NewSVGSurface(w, h float64, background string) *SVGSurface {
	return &SVGSurface{w: w, h: h, background: background}
}

func (s *SVGSurface) Size() (w, h float64) { return s.w, s.h }

// Resize drops the recorded frame.
func (s *SVGSurface) Resize(w, h float64) {
	s.w, s.h = w, h
	s.ops = s.ops[:0]
}

func (s *SVGSurface) Len() int { return len(s.ops) }

func (s *SVGSurface) FillRect(x, y, w, h float64, color string, alpha float64) {
	if x <= 0 && y <= 0 && x+w >= s.w && y+h >= s.h {
		s.wash(color, alpha)
		return
	}
	s.push(op{kind: opRect, x: x, y: y, w: w, h: h, color: color, alpha: alpha})
}

func (s *SVGSurface) FillCircle(x, y, r float64, color string, alpha, glow float64) {
	s.push(op{kind: opCircle, x: x, y: y, w: r, color: color, alpha: alpha, glow: glow})
}

func (s *SVGSurface) FillGlyph(x, y float64, ch rune, color string, alpha, glow float64, glowColor string) {
	s.push(op{kind: opGlyph, x: x, y: y, ch: ch, color: color, alpha: alpha, glow: glow, glowColor: glowColor})
}

func (s *SVGSurface) wash(color string, alpha float64) {
	if alpha >= 1 {
		s.background = color
		s.ops = s.ops[:0]
		return
	}
	keep := s.ops[:0]
	for _, o := range s.ops {
		o.alpha *= 1 - alpha
		if o.alpha >= opCutoff {
			keep = append(keep, o)
		}
	}
	s.ops = keep
	s.background = color
}

func (s *SVGSurface) push(o op) {
	if o.alpha < opCutoff {
		return
	}
	if len(s.ops) >= maxOps {
		s.ops = append(s.ops[:0], s.ops[len(s.ops)-maxOps/2:]...)
	}
	s.ops = append(s.ops, o)
}

// WriteTo renders the display list.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	width, height := int(math.Round(s.w)), int(math.Round(s.h))

	doc := svg.New(cw)
	doc.Start(width, height)
	doc.Def()
	doc.Filter("glow")
	doc.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic"}, 4, 4)
	doc.Fend()
	doc.DefEnd()

	doc.Rect(0, 0, width, height, "fill:"+s.background)
	for _, o := range s.ops {
		switch o.kind {
		case opRect:
			doc.Rect(round(o.x), round(o.y), max(round(o.w), 1), max(round(o.h), 1), fill(o.color, o.alpha))
		case opCircle:
			if o.glow > 0 {
				doc.Circle(round(o.x), round(o.y), max(round(o.w+o.glow/2), 1),
					fill(o.color, o.alpha*0.35)+";filter:url(#glow)")
			}
			doc.Circle(round(o.x), round(o.y), max(round(o.w), 1), fill(o.color, o.alpha))
		case opGlyph:
			style := fill(o.color, o.alpha) + fmt.Sprintf(";font-family:monospace;font-size:%dpx", glyphPx)
			if o.glow > 0 {
				style += ";filter:url(#glow)"
			}
			doc.Text(round(o.x), round(o.y)+glyphPx, string(o.ch), style)
		}
	}
	doc.End()
	return cw.n, cw.err
}

func fill(color string, alpha float64) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.3f", color, math.Min(alpha, 1))
}

func round(v float64) int { return int(math.Round(v)) }

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
