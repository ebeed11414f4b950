package sweep

import (
	"context"
	"log/slog"
	"time"

	"fieldwatch/internal/events"
	"fieldwatch/internal/metrics"
	"fieldwatch/internal/store"
)

// Sweeper periodically marks silent robots disconnected and, after a
// longer silence, evicts their records entirely. Stale transitions are
// reported to observers exactly once; evictions are not reported — a
// consumer that cares diffs successive snapshots.
type Sweeper struct {
	store          *store.Store
	observers      *events.Registry
	connectTimeout time.Duration
	evictTimeout   time.Duration
	interval       time.Duration
	logger         *slog.Logger
}

// New creates a sweeper. evictTimeout must exceed connectTimeout; the
// config layer validates that before we get here.
func New(st *store.Store, observers *events.Registry, connectTimeout, evictTimeout, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:          st,
		observers:      observers,
		connectTimeout: connectTimeout,
		evictTimeout:   evictTimeout,
		interval:       interval,
		logger:         logger.With("component", "sweep"),
	}
}

// Start runs sweeps on the configured interval until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper running", "connect_timeout", s.connectTimeout, "evict_timeout", s.evictTimeout)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweepOnce(time.Now())
		}
	}
}

func (s *Sweeper) sweepOnce(now time.Time) {
	stale := s.store.MarkStale(now.Add(-s.connectTimeout))
	for _, rec := range stale {
		metrics.DisconnectsTotal.Inc()
		s.logger.Info("robot disconnected", "robot_id", rec.RobotID, "last_seen", rec.LastSeen)
		s.observers.Notify(rec.RobotID, rec)
	}

	evicted := s.store.EvictBefore(now.Add(-s.evictTimeout))
	for _, id := range evicted {
		metrics.EvictionsTotal.Inc()
		s.logger.Info("robot evicted", "robot_id", id)
	}

	if len(stale) > 0 || len(evicted) > 0 {
		metrics.RobotsKnown.Set(float64(s.store.Len()))
		metrics.RobotsConnected.Set(float64(s.store.ConnectedCount()))
	}
}
