package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fieldwatch/internal/sim"
	"fieldwatch/internal/telemetry"
)

var (
	adminURL string
	format   string
)

func main() {
	root := &cobra.Command{
		Use:   "fieldwatch",
		Short: "Fieldwatch CLI — inspect the robot fleet and drive the simulator",
	}

	root.PersistentFlags().StringVar(&adminURL, "admin", "", "admin API URL (default http://localhost:9090)")
	root.PersistentFlags().StringVar(&format, "format", "table", "output format: table or json")

	robotsCmd := robotsListCmd()
	robotsCmd.AddCommand(robotsConnectedCmd())

	root.AddCommand(
		robotsCmd,
		statusCmd(),
		simulateCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func getAdminURL() string {
	if adminURL != "" {
		return adminURL
	}
	if v := os.Getenv("FIELDWATCH_ADMIN"); v != "" {
		return v
	}
	return "http://localhost:9090"
}

func apiGet(path string) ([]byte, error) {
	resp, err := http.Get(getAdminURL() + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func printRobots(data []byte) error {
	if format == "json" {
		fmt.Println(string(data))
		return nil
	}
	var robots []telemetry.Record
	_ = json.Unmarshal(data, &robots) //nolint:errcheck // non-JSON → empty table is fine
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTEAM\tSTATE\tPOSE\tBALL\tROLE\tCONNECTED")
	for _, r := range robots {
		ball := "-"
		if r.BallDetected {
			ball = fmt.Sprintf("%.1f,%.1f", r.BallX, r.BallY)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%.1f,%.1f,%.2f\t%s\t%s\t%t\n",
			r.RobotID, r.RobotName, r.TeamID, r.GameState,
			r.PoseX, r.PoseY, r.PoseTheta, ball, r.Role, r.Connected)
	}
	return w.Flush()
}

func robotsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "robots",
		Short: "List all known robots",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiGet("/admin/robots")
			if err != nil {
				return err
			}
			return printRobots(data)
		},
	}
}

func robotsConnectedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connected",
		Short: "List only connected robots",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiGet("/admin/robots/connected")
			if err != nil {
				return err
			}
			return printRobots(data)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dashboard health",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiGet("/admin/health")
			if err != nil {
				return err
			}
			if format == "json" {
				fmt.Println(string(data))
				return nil
			}
			var health struct {
				Status          string `json:"status"`
				Uptime          string `json:"uptime"`
				RobotsKnown     int    `json:"robots_known"`
				RobotsConnected int    `json:"robots_connected"`
			}
			if err := json.Unmarshal(data, &health); err != nil {
				return err
			}
			fmt.Printf("status: %s\nuptime: %s\nrobots: %d known, %d connected\n",
				health.Status, health.Uptime, health.RobotsKnown, health.RobotsConnected)
			return nil
		},
	}
}

func simulateCmd() *cobra.Command {
	var (
		robots int
		teamID int
		target string
		rate   float64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Stream simulated robot telemetry to a dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			fleet := sim.NewFleet(sim.FleetConfig{
				Robots: robots,
				TeamID: teamID,
				Target: target,
				Rate:   rate,
			}, logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("simulating %d robots → %s (Ctrl+C to stop)\n", robots, target)
			return fleet.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&robots, "robots", 3, "number of robots to simulate")
	cmd.Flags().IntVar(&teamID, "team", 1, "team id reported by the robots")
	cmd.Flags().StringVar(&target, "target", "127.0.0.1:8080", "dashboard UDP address")
	cmd.Flags().Float64Var(&rate, "rate", 10, "datagrams per robot per second")
	return cmd
}
