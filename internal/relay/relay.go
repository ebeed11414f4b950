// Package relay republishes fleet notifications onto NATS so consumers
// off the pitch network (analytics, recorders) can follow the fleet
// without speaking the robots' UDP wire format.
package relay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"fieldwatch/internal/config"
	"fieldwatch/internal/events"
	"fieldwatch/internal/telemetry"
)

// Event type names carried in the envelope.
const (
	TypeRobotUpdated      = "robot.updated"
	TypeRobotDisconnected = "robot.disconnected"
)

// Envelope is the standardised message published per notification.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEnvelope creates an envelope with a generated id and current time.
func NewEnvelope(eventType, source string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Subject returns the NATS subject for a robot event type, e.g.
// fieldwatch.robot.3.updated.
func Subject(robotID int, eventType string) string {
	return fmt.Sprintf("fieldwatch.robot.%d.%s", robotID, strings.TrimPrefix(eventType, "robot."))
}

// Client publishes fleet notifications to NATS.
type Client struct {
	nc     *nats.Conn
	source string
	logger *slog.Logger
}

// Connect dials NATS with logging reconnect handlers. source tags every
// envelope with the publishing daemon's identity.
func Connect(cfg config.Relay, source string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name(source),
		nats.Timeout(cfg.ConnectTimeout),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("relay disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("relay reconnected")
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("relay connect: %w", err)
	}

	return &Client{
		nc:     nc,
		source: source,
		logger: logger.With("component", "relay"),
	}, nil
}

// Observer returns the callback to register with the fleet core. Publish
// failures are logged and swallowed; the relay never disturbs ingestion.
func (c *Client) Observer() events.Observer {
	return func(id int, rec telemetry.Record) {
		eventType := TypeRobotUpdated
		if !rec.Connected {
			eventType = TypeRobotDisconnected
		}
		if err := c.publish(id, eventType, rec); err != nil {
			c.logger.Warn("publish failed", "robot_id", id, "type", eventType, "error", err)
		}
	}
}

func (c *Client) publish(id int, eventType string, rec telemetry.Record) error {
	env, err := NewEnvelope(eventType, c.source, rec)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return c.nc.Publish(Subject(id, eventType), data)
}

// Close drains and closes the NATS connection.
func (c *Client) Close() error {
	if c.nc != nil {
		return c.nc.Drain()
	}
	return nil
}
