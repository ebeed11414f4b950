package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"fieldwatch/internal/config"
	"fieldwatch/internal/events"
	"fieldwatch/internal/ingest"
	"fieldwatch/internal/store"
	"fieldwatch/internal/sweep"
	"fieldwatch/internal/telemetry"
)

// ErrNotImplemented marks the command-send placeholder. Robots cannot be
// commanded yet; the method exists so callers have a stable name to wire
// against.
var ErrNotImplemented = errors.New("dashboard: command sending not implemented")

// Core ties the store, observer registry, UDP listener and liveness
// sweeper together behind the surface consumers use: register observers,
// start, stop, read snapshots.
type Core struct {
	store     *store.Store
	observers *events.Registry
	listener  *ingest.Listener
	sweeper   *sweep.Sweeper
	logger    *slog.Logger

	cancel context.CancelFunc
}

// New builds a core from configuration. Nothing is bound or running
// until Start.
func New(cfg *config.Config, logger *slog.Logger) *Core {
	st := store.New(logger)
	observers := events.NewRegistry(logger)
	return &Core{
		store:     st,
		observers: observers,
		listener:  ingest.New(cfg.Listen, st, observers, logger),
		sweeper:   sweep.New(st, observers, cfg.ConnectTimeout, cfg.EvictTimeout, cfg.SweepInterval, logger),
		logger:    logger.With("component", "dashboard"),
	}
}

// RegisterObserver adds a callback invoked on every record update and
// every stale transition. Register before Start; the set then lives as
// long as the process.
func (c *Core) RegisterObserver(obs events.Observer) {
	c.observers.Register(obs)
}

// Start binds the telemetry socket and launches the sweeper. On a bind
// failure nothing is left running.
func (c *Core) Start() error {
	if err := c.listener.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.sweeper.Start(ctx)

	c.logger.Info("dashboard core started")
	return nil
}

// Stop shuts down the listener and sweeper. Best effort: background work
// is given a bounded wait, then Stop returns regardless.
func (c *Core) Stop() {
	c.listener.Stop()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.logger.Info("dashboard core stopped")
}

// Halted delivers the terminal error if ingestion dies on a socket error.
func (c *Core) Halted() <-chan error {
	return c.listener.Halted()
}

// Addr returns the bound telemetry address while running.
func (c *Core) Addr() string {
	return c.listener.Addr()
}

// Robots returns a consistent snapshot of every known robot.
func (c *Core) Robots() map[int]telemetry.Record {
	return c.store.Snapshot()
}

// ConnectedRobots returns the snapshot filtered to connected robots.
func (c *Core) ConnectedRobots() map[int]telemetry.Record {
	return c.store.ConnectedSnapshot()
}

// SendCommand is a placeholder for driving robots from the dashboard.
func (c *Core) SendCommand(addr string, command map[string]any) error {
	return ErrNotImplemented
}
