package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net"
	"time"
)

// FleetConfig configures the traffic generator.
type FleetConfig struct {
	Robots int     // number of simulated robots
	TeamID int
	Target string  // host:port of the dashboard's UDP listener
	Rate   float64 // datagrams per robot per second
}

// Fleet simulates several robots sharing one bouncing ball and streams
// their telemetry to a dashboard over UDP.
type Fleet struct {
	cfg    FleetConfig
	robots []*Robot
	rng    *rand.Rand
	logger *slog.Logger

	ballX, ballY   float64
	ballVX, ballVY float64
}

// NewFleet creates the simulated robots with randomized starting state.
func NewFleet(cfg FleetConfig, logger *slog.Logger) *Fleet {
	if cfg.Robots <= 0 {
		cfg.Robots = 3
	}
	if cfg.TeamID == 0 {
		cfg.TeamID = 1
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	f := &Fleet{
		cfg:    cfg,
		rng:    rng,
		logger: logger.With("component", "sim"),
		ballVX: rng.Float64()*2 - 1,
		ballVY: rng.Float64()*2 - 1,
	}
	for i := 0; i < cfg.Robots; i++ {
		f.robots = append(f.robots, NewRobot(i, cfg.TeamID, rng))
	}
	return f
}

// Run streams telemetry until ctx is cancelled.
func (f *Fleet) Run(ctx context.Context) error {
	conn, err := net.Dial("udp", f.cfg.Target)
	if err != nil {
		return fmt.Errorf("sim: dial %s: %w", f.cfg.Target, err)
	}
	defer conn.Close()

	f.logger.Info("simulator running", "robots", len(f.robots), "target", f.cfg.Target, "rate_hz", f.cfg.Rate)

	interval := time.Duration(float64(time.Second) / f.cfg.Rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			f.logger.Info("simulator stopped")
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			f.step(dt, conn)
		}
	}
}

func (f *Fleet) step(dt float64, conn net.Conn) {
	f.stepBall(dt)

	for _, robot := range f.robots {
		robot.Step(dt, f.ballX, f.ballY)
		data, err := json.Marshal(robot.Payload(len(f.robots) - 1))
		if err != nil {
			f.logger.Error("marshal payload", "robot_id", robot.id, "error", err)
			continue
		}
		if _, err := conn.Write(data); err != nil {
			f.logger.Warn("send failed", "robot_id", robot.id, "error", err)
		}
	}
}

// stepBall applies the toy ball physics: drift, boundary bounces with
// energy loss, drag, and the occasional random kick.
func (f *Fleet) stepBall(dt float64) {
	f.ballX += f.ballVX * dt
	f.ballY += f.ballVY * dt

	if math.Abs(f.ballX) > 4.0 {
		f.ballVX *= -0.8
		f.ballX = math.Copysign(4.0, f.ballX)
	}
	if math.Abs(f.ballY) > 2.5 {
		f.ballVY *= -0.8
		f.ballY = math.Copysign(2.5, f.ballY)
	}

	f.ballVX *= 0.99
	f.ballVY *= 0.99

	if f.rng.Float64() < 0.01 {
		f.ballVX = f.rng.Float64()*4 - 2
		f.ballVY = f.rng.Float64()*4 - 2
	}
}
