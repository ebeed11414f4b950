package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"fieldwatch/internal/telemetry"
)

// Fleet is the read-only view the admin API serves. *dashboard.Core
// satisfies it.
type Fleet interface {
	Robots() map[int]telemetry.Record
	ConnectedRobots() map[int]telemetry.Record
}

// Server is the read-only admin API: robot snapshots and a health
// summary for polling consumers (CLI, dashboards).
type Server struct {
	fleet   Fleet
	logger  *slog.Logger
	startAt time.Time
}

// NewServer creates the admin server.
func NewServer(fleet Fleet, logger *slog.Logger) *Server {
	return &Server{
		fleet:   fleet,
		logger:  logger.With("component", "admin"),
		startAt: time.Now(),
	}
}

// Handler returns the admin API handler. Metrics are mounted separately
// by the daemon.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/robots", s.handleRobots)
	mux.HandleFunc("/admin/robots/connected", s.handleConnected)
	mux.HandleFunc("/admin/health", s.handleHealth)
	return mux
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, sortedRecords(s.fleet.Robots()))
}

func (s *Server) handleConnected(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, sortedRecords(s.fleet.ConnectedRobots()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	all := s.fleet.Robots()
	connected := 0
	for _, rec := range all {
		if rec.Connected {
			connected++
		}
	}
	writeJSON(w, map[string]any{
		"status":           "ok",
		"uptime":           time.Since(s.startAt).Round(time.Second).String(),
		"robots_known":     len(all),
		"robots_connected": connected,
	})
}

// sortedRecords flattens a snapshot into an id-ordered list so output is
// stable for tables and diffs.
func sortedRecords(snapshot map[int]telemetry.Record) []telemetry.Record {
	out := make([]telemetry.Record, 0, len(snapshot))
	for _, rec := range snapshot {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RobotID < out[j].RobotID })
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
