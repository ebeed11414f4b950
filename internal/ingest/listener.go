package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"fieldwatch/internal/events"
	"fieldwatch/internal/metrics"
	"fieldwatch/internal/store"
	"fieldwatch/internal/telemetry"
)

// maxDatagram matches what robots send; anything larger is truncated by
// the read and almost always dropped as a structural decode failure.
const maxDatagram = 4096

// readTimeout bounds each blocking receive so Stop is observed promptly.
const readTimeout = time.Second

// ErrAlreadyRunning is returned by Start when the listener is running.
var ErrAlreadyRunning = errors.New("ingest: already running")

// Listener owns the UDP socket and drives datagram → decode → upsert →
// notify. A hard receive error terminates the loop and is surfaced on
// Halted.
type Listener struct {
	addr      string
	store     *store.Store
	observers *events.Registry
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	conn    *net.UDPConn
	done    chan struct{}

	halted chan error
}

// New creates a listener bound to nothing yet. addr is a UDP listen
// address such as ":8080".
func New(addr string, st *store.Store, observers *events.Registry, logger *slog.Logger) *Listener {
	return &Listener{
		addr:      addr,
		store:     st,
		observers: observers,
		logger:    logger.With("component", "ingest"),
		halted:    make(chan error, 1),
	}
}

// Start binds the socket and launches the receive loop. A bind failure
// leaves the listener stopped.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return ErrAlreadyRunning
	}

	udpAddr, err := net.ResolveUDPAddr("udp", l.addr)
	if err != nil {
		return fmt.Errorf("ingest: resolve %s: %w", l.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("ingest: bind %s: %w", l.addr, err)
	}

	l.conn = conn
	l.running = true
	l.done = make(chan struct{})
	go l.receive(conn, l.done)

	l.logger.Info("listening for telemetry", "addr", conn.LocalAddr().String())
	return nil
}

// Addr returns the bound address, or "" when stopped. Useful when the
// configured port is 0.
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return ""
	}
	return l.conn.LocalAddr().String()
}

// Halted delivers the terminal error if the receive loop dies on a
// socket error while running.
func (l *Listener) Halted() <-chan error {
	return l.halted
}

// Stop closes the socket and waits briefly for the loop to exit. Safe to
// call when already stopped.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	conn := l.conn
	done := l.done
	l.conn = nil
	l.mu.Unlock()

	conn.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		l.logger.Warn("receive loop did not exit in time")
	}
	l.logger.Info("ingest stopped")
}

func (l *Listener) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Listener) receive(conn *net.UDPConn, done chan struct{}) {
	defer close(done)

	buf := make([]byte, maxDatagram)
	for l.isRunning() {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, sender, err := conn.ReadFromUDP(buf)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				continue
			}
			if l.isRunning() {
				l.logger.Error("receive failed, ingestion halted", "error", err)
				l.halted <- fmt.Errorf("ingest: receive: %w", err)
			}
			return
		}
		l.handle(buf[:n], sender)
	}
}

func (l *Listener) handle(payload []byte, sender *net.UDPAddr) {
	id, upd, err := telemetry.Decode(payload)
	if err != nil {
		metrics.DatagramsTotal.WithLabelValues(metrics.ResultDecodeError).Inc()
		l.logger.Warn("dropping undecodable datagram", "sender", sender.String(), "error", err)
		return
	}

	rec := l.store.Upsert(id, upd, time.Now())
	metrics.DatagramsTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.RobotsKnown.Set(float64(l.store.Len()))
	metrics.RobotsConnected.Set(float64(l.store.ConnectedCount()))
	l.observers.Notify(id, rec)
}
