// Package export renders the sandbox headlessly. Snapshot drives the loop on
// a synthetic clock with scripted pointer input and writes the last frame as
// SVG.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/san-kum/fluxsim/internal/control"
	"github.com/san-kum/fluxsim/internal/engine"
)

// Point is a scripted pointer position in surface units.
type Point struct{ X, Y float64 }

type Options struct {
	control.Options
	Width  float64
	Height float64
	Frames int
	Step   time.Duration // synthetic frame interval, 16ms by default

	// Pointer, when set, is where the pointer rests before the first frame.
	Pointer *Point
	// Clicks fire in order, spread evenly over the run; the first fires
	// before frame 0.
	Clicks []Point
}

var epoch = time.Unix(0, 0)

// Snapshot runs the loop for opts.Frames frames and writes the final frame
// to w. It returns the loop's stats.
func Snapshot(ctx context.Context, w io.Writer, opts Options) (engine.Stats, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return engine.Stats{}, fmt.Errorf("snapshot: invalid size %vx%v", opts.Width, opts.Height)
	}
	if opts.Step <= 0 {
		opts.Step = 16 * time.Millisecond
	}

	s := control.NewSession(opts.Options)
	surface := NewSVGSurface(opts.Width, opts.Height, s.Skin.Theme.Background)
	if err := s.Loop.StartAt(surface, epoch); err != nil {
		return engine.Stats{}, err
	}
	defer s.Loop.Stop()

	if opts.Pointer != nil {
		s.Pointer(opts.Pointer.X, opts.Pointer.Y)
	}

	schedule := clickSchedule(len(opts.Clicks), opts.Frames)
	err := s.Loop.Drive(ctx, opts.Frames, opts.Step, func(i int) {
		for len(schedule) > 0 && schedule[0].frame == i {
			p := opts.Clicks[schedule[0].click]
			s.Press(p.X, p.Y)
			schedule = schedule[1:]
		}
	})
	if err != nil {
		return s.Loop.Stats(), fmt.Errorf("snapshot: %w", err)
	}

	if _, err := surface.WriteTo(w); err != nil {
		return s.Loop.Stats(), fmt.Errorf("snapshot: write svg: %w", err)
	}
	return s.Loop.Stats(), nil
}

type scheduledClick struct{ click, frame int }

// clickSchedule spreads n clicks over frames, starting at frame 0.
func clickSchedule(n, frames int) []scheduledClick {
	out := make([]scheduledClick, n)
	for i := range out {
		f := 0
		if n > 1 && frames > 1 {
			f = i * (frames - 1) / n
		}
		out[i] = scheduledClick{click: i, frame: f}
	}
	return out
}
