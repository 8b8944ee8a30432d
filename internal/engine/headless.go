package engine

import (
	"context"
	"time"
)

// Drive runs n frames back to back on a synthetic clock that advances by
// step per frame. before, when non-nil, runs ahead of frame i and is where
// scripted input goes. Cancellation is checked between frames.
func (l *Loop) Drive(ctx context.Context, n int, step time.Duration, before func(i int)) error {
	if !l.running {
		return ErrStopped
	}
	now := l.lastFrame
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if before != nil {
			before(i)
		}
		now = now.Add(step)
		l.Frame(now)
	}
	return nil
}

// StartAt is Start with an explicit epoch for the fps accumulator, used by
// headless hosts that drive the loop on a synthetic clock.
func (l *Loop) StartAt(s Surface, epoch time.Time) error {
	clock := l.clock
	l.clock = func() time.Time { return epoch }
	defer func() { l.clock = clock }()
	return l.Start(s)
}
