package events

import (
	"log/slog"
	"sync"

	"fieldwatch/internal/metrics"
	"fieldwatch/internal/telemetry"
)

// Observer receives every record change: upserts from the ingestion loop
// and stale transitions from the sweeper. rec.Connected distinguishes the
// two. Observers run synchronously on the notifying goroutine and must
// not block for long.
type Observer func(id int, rec telemetry.Record)

// Registry holds the ordered observer list. Observers are registered at
// startup and live for the process lifetime; there is no unregister.
type Registry struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *slog.Logger
}

// NewRegistry creates an empty observer registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger.With("component", "observers"),
	}
}

// Register appends an observer. Notification order is registration order.
func (r *Registry) Register(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, obs)
}

// Notify calls every observer in order. A panicking observer is logged
// and isolated; the remaining observers still run.
func (r *Registry) Notify(id int, rec telemetry.Record) {
	r.mu.RLock()
	observers := r.observers
	r.mu.RUnlock()

	for _, obs := range observers {
		r.call(obs, id, rec)
	}
}

func (r *Registry) call(obs Observer, id int, rec telemetry.Record) {
	defer func() {
		if p := recover(); p != nil {
			metrics.ObserverPanicsTotal.Inc()
			r.logger.Error("observer panicked", "robot_id", id, "panic", p)
		}
	}()
	obs(id, rec)
}
