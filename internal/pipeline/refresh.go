package pipeline

// refresh.go provides the background refresh scheduler. It recomputes the
// table on a fixed cadence so cached reads stay warm past the primary TTL.
// Individual refresh failures are logged and never stop the loop.

import (
	"context"
	"time"
)

// StartRefreshScheduler periodically recomputes the table and repopulates
// both cache tiers. The first refresh runs one interval after start; use
// preload-on-start for boot-time warming. The scheduler stops when the
// context is cancelled. An interval of zero or less disables it.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.log.Info("refresh scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			res := s.Preload(ctx)
			if res.Success {
				s.log.Info("scheduled refresh complete",
					"message", res.Message,
					"duration_ms", res.DurationMs,
				)
			} else {
				s.log.Warn("scheduled refresh failed", "message", res.Message)
			}
		}
	}
}
