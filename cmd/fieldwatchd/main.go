package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldwatch/internal/admin"
	"fieldwatch/internal/config"
	"fieldwatch/internal/dashboard"
	"fieldwatch/internal/metrics"
	"fieldwatch/internal/relay"
)

func main() {
	configPath := flag.String("config", "./fieldwatch.yaml", "path to config file")
	port := flag.Int("port", 0, "UDP telemetry port (overrides config)")
	connectTimeout := flag.Duration("connect-timeout", 0, "robot connect timeout (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Listen = fmt.Sprintf(":%d", *port)
	}
	if *connectTimeout != 0 {
		cfg.ConnectTimeout = *connectTimeout
	}
	if err := config.Validate(cfg); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("config loaded", "listen", cfg.Listen, "admin", cfg.AdminListen,
		"connect_timeout", cfg.ConnectTimeout, "evict_timeout", cfg.EvictTimeout)

	core := dashboard.New(cfg, logger)

	// Optional NATS relay.
	var rly *relay.Client
	if cfg.Relay.URL != "" {
		hostname, _ := os.Hostname()
		rly, err = relay.Connect(cfg.Relay, "fieldwatchd@"+hostname, logger)
		if err != nil {
			logger.Error("failed to connect relay", "error", err)
			os.Exit(1)
		}
		core.RegisterObserver(rly.Observer())
		logger.Info("relay enabled", "url", cfg.Relay.URL)
	}

	if err := core.Start(); err != nil {
		logger.Error("failed to start", "error", err)
		if rly != nil {
			rly.Close()
		}
		os.Exit(1)
	}

	// Admin + metrics HTTP server.
	adminSrv := admin.NewServer(core, logger)
	mux := http.NewServeMux()
	mux.Handle("/admin/", adminSrv.Handler())
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:         cfg.AdminListen,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info("admin server starting", "addr", cfg.AdminListen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig)
	case err := <-core.Halted():
		logger.Error("ingestion halted", "error", err)
		exitCode = 1
	}

	core.Stop()
	srv.Close()
	if rly != nil {
		rly.Close()
	}

	fmt.Println("fieldwatchd stopped")
	os.Exit(exitCode)
}
