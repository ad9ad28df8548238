package glimmer

import (
	"log/slog"
	"time"
)

// frameStats holds per-frame timing and draw metrics.
// Only logged when Renderer.debug is true.
type frameStats struct {
	on                 bool
	start, updated     time.Time
	updateDur, drawDur time.Duration
	drawn, culled      int
}

// begin resets the counters for a new frame.
func (s *frameStats) begin(on bool) {
	*s = frameStats{on: on}
	if on {
		s.start = time.Now()
	}
}

// mark ends the update phase.
func (s *frameStats) mark() {
	if s.on {
		s.updated = time.Now()
		s.updateDur = s.updated.Sub(s.start)
	}
}

// end ends the draw phase and logs the frame.
func (s *frameStats) end(state string) {
	if !s.on {
		return
	}
	s.drawDur = time.Since(s.updated)
	Logger().Debug("glimmer: frame",
		slog.String("state", state),
		slog.Duration("update", s.updateDur),
		slog.Duration("draw", s.drawDur),
		slog.Duration("total", s.updateDur+s.drawDur),
		slog.Int("drawn", s.drawn),
		slog.Int("culled", s.culled))
}
