package store

import (
	"log/slog"
	"sync"
	"time"

	"fieldwatch/internal/telemetry"
)

// Store holds the latest record per robot id. It is shared between the
// ingestion loop and the liveness sweeper; every access goes through the
// mutex so snapshots are always internally consistent.
type Store struct {
	mu     sync.RWMutex
	robots map[int]*telemetry.Record
	logger *slog.Logger
}

// New creates an empty store.
func New(logger *slog.Logger) *Store {
	return &Store{
		robots: make(map[int]*telemetry.Record),
		logger: logger.With("component", "store"),
	}
}

// Upsert creates the record on first sight of an id, merges the update
// into it, stamps last-seen and marks it connected. The returned copy is
// the consistent view callers hand to observers.
func (s *Store) Upsert(id int, upd telemetry.Update, now time.Time) telemetry.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.robots[id]
	if !ok {
		fresh := telemetry.NewRecord(id)
		rec = &fresh
		s.robots[id] = rec
		s.logger.Info("robot registered", "robot_id", id)
	}

	upd.Apply(rec)
	rec.LastSeen = now
	rec.Connected = true
	return *rec
}

// Snapshot returns a copy of every record, safe to iterate while the
// store keeps changing underneath.
func (s *Store) Snapshot() map[int]telemetry.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int]telemetry.Record, len(s.robots))
	for id, rec := range s.robots {
		out[id] = *rec
	}
	return out
}

// ConnectedSnapshot returns copies of only the records currently marked
// connected.
func (s *Store) ConnectedSnapshot() map[int]telemetry.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int]telemetry.Record)
	for id, rec := range s.robots {
		if rec.Connected {
			out[id] = *rec
		}
	}
	return out
}

// ConnectedCount returns how many records are currently marked connected.
func (s *Store) ConnectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, rec := range s.robots {
		if rec.Connected {
			n++
		}
	}
	return n
}

// Len returns the number of records, connected or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.robots)
}

// Remove deletes a record unconditionally.
func (s *Store) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.robots, id)
}

// MarkStale flips Connected off for every connected record last seen
// before the cutoff and returns copies of the flipped records. Records
// already disconnected are skipped, so each transition is reported once.
func (s *Store) MarkStale(cutoff time.Time) []telemetry.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flipped []telemetry.Record
	for _, rec := range s.robots {
		if rec.Connected && rec.LastSeen.Before(cutoff) {
			rec.Connected = false
			flipped = append(flipped, *rec)
		}
	}
	return flipped
}

// EvictBefore removes every record last seen before the cutoff and
// returns their ids.
func (s *Store) EvictBefore(cutoff time.Time) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []int
	for id, rec := range s.robots {
		if rec.LastSeen.Before(cutoff) {
			delete(s.robots, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
