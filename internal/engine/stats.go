package engine

import "log/slog"

// Stats accumulates population bookkeeping over the loop's lifetime.
type Stats struct {
	Frames  int
	Spawned int
	Culled  int
	Peak    int
}

func (s *Stats) observe(population int) {
	s.Frames++
	if population > s.Peak {
		s.Peak = population
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Int("spawned", s.Spawned),
		slog.Int("culled", s.Culled),
		slog.Int("peak", s.Peak),
	)
}
