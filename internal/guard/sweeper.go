package guard

import (
	"context"
	"time"

	"github.com/jonesrussell/companion-safety/internal/logger"
)

const defaultSweepInterval = 10 * time.Minute

// Sweeper periodically evicts expired guard entries. It runs independently
// of request handling; admission only contends with it for the guard mutex
// during the removal pass itself.
type Sweeper struct {
	guard    *Guard
	interval time.Duration
	log      logger.Logger
}

// NewSweeper creates a sweeper for the given guard.
func NewSweeper(g *Guard, interval time.Duration, log logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{guard: g, interval: interval, log: log}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("guard sweeper started", logger.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("guard sweeper stopped")
			return
		case <-ticker.C:
			removed := s.guard.Sweep()
			if removed > 0 {
				cooldowns, sessions := s.guard.Stats()
				s.log.Debug("guard sweep complete",
					logger.Int("removed", removed),
					logger.Int("cooldown_entries", cooldowns),
					logger.Int("session_entries", sessions))
			}
		}
	}
}
