// Command dashboard runs the sleep analysis dashboard daemon.
//
// The daemon polls the backend for the latest wearable reading (heart rate,
// temperature, motion), keeps a bounded chart history, runs the dosha quiz,
// persists the quiz result and last sleep condition, and requests diet or
// prediction recommendations. Everything is exposed over a JSON/HTML HTTP API
// for any UI, with Prometheus metrics and a gRPC health endpoint.
//
// Usage:
//
//	dashboard \
//	  -backend-url=http://localhost:10000 \
//	  -interval=5s \
//	  -storage=redis -redis-addr=localhost:6379
//
// Environment variables:
//
//	BACKEND_URL      - Backend base URL (default: http://localhost:10000)
//	LISTEN           - HTTP listen address (default: :8090)
//	GRPC_LISTEN      - gRPC health listen address, empty disables (default: :50052)
//	POLL_INTERVAL    - Polling interval (default: 5s)
//	HISTORY_CAPACITY - Chart history size (default: 20)
//	ON_POLL_ERROR    - reset or keep (default: reset)
//	RECOMMEND_MODE   - diet or predict (default: diet)
//	STORAGE          - memory or redis (default: memory)
//	LOG_LEVEL        - Logging level: debug, info, warn, error (default: info)
//	LOG_FORMAT       - Logging format: text, json (default: text)
//
// A .env file in the working directory is loaded first if present.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cli/browser"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MarutiHaval05/Sleep-Analysis1/cmd/dashboard/config"
	"github.com/MarutiHaval05/Sleep-Analysis1/cmd/dashboard/logger"
	"github.com/MarutiHaval05/Sleep-Analysis1/cmd/dashboard/metrics"
	"github.com/MarutiHaval05/Sleep-Analysis1/cmd/dashboard/router"
	"github.com/MarutiHaval05/Sleep-Analysis1/cmd/dashboard/store"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/dosha"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/httpx"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/monitor"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/recommend"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/sensor"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/tls"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	cfg := config.ParseFlags()

	log := logger.New(cfg)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("starting sleep analysis dashboard",
		"version", version,
		"backend_url", cfg.BackendURL,
		"interval", cfg.Interval,
		"storage", cfg.Storage,
		"recommend_mode", cfg.RecommendMode,
	)

	kv, err := store.New(cfg, log)
	if err != nil {
		log.Error("failed to create store", "error", err)
		os.Exit(1)
	}
	if closer, ok := kv.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error("failed to close store", "error", err)
			}
		}()
	}

	backendClient, err := httpx.NewClient(cfg.BackendTLS, cfg.RequestTimeout)
	if err != nil {
		log.Error("failed to create backend client", "error", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	mon := monitor.New(&sensor.HTTPSource{
		BaseURL:    cfg.BackendURL,
		Path:       cfg.SensorPath,
		HTTPClient: backendClient,
	}, monitor.Options{
		Interval:        cfg.Interval,
		HistoryCapacity: cfg.History,
		Policy:          monitor.Policy(cfg.OnPollError),
		Store:           kv,
		Recorder:        m,
		Logger:          log.With("component", "monitor"),
	})

	mode, _ := recommend.ParseMode(cfg.RecommendMode)
	advisor := recommend.NewAdvisor(
		mode,
		recommend.NewClient(cfg.BackendURL,
			recommend.WithHTTPClient(backendClient),
			recommend.WithPaths(cfg.DietPath, cfg.PredictPath),
		),
		kv,
		mon,
		cfg.Subject,
		log.With("component", "recommend"),
	)

	handler := router.SetupRoutes(router.Deps{
		Dashboard:   mon,
		Classifier:  dosha.NewClassifier(kv, log.With("component", "quiz")),
		Store:       kv,
		Advisor:     advisor,
		Metrics:     m,
		CORSOrigins: splitOrigins(cfg.CORSOrigins),
		Logger:      log,
	})
	httpServer := httpx.NewServer(cfg.Listen, handler, log)

	if cfg.TLS.Enabled {
		tlsConfig, err := tls.NewServerTLSConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.CAFile)
		if err != nil {
			log.Error("failed to load TLS configuration", "error", err)
			os.Exit(1)
		}
		httpServer.SetTLSConfig(tlsConfig)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("poll loop failed", "error", err)
		}
	}()

	serverErr := make(chan error, 2)
	go func() {
		if cfg.TLS.Enabled {
			serverErr <- httpServer.StartTLS()
			return
		}
		serverErr <- httpServer.Start()
	}()

	grpcServer, healthServer := newGRPCServer(mon)
	if cfg.GRPCListen != "" {
		lis, err := net.Listen("tcp", cfg.GRPCListen)
		if err != nil {
			log.Error("failed to listen", "address", cfg.GRPCListen, "error", err)
			os.Exit(1)
		}
		go func() {
			log.Info("grpc health server listening", "address", cfg.GRPCListen)
			if err := grpcServer.Serve(lis); err != nil {
				serverErr <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	if cfg.OpenBrowser {
		url := dashboardURL(cfg.Listen, cfg.TLS.Enabled)
		if err := browser.OpenURL(url); err != nil {
			log.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			log.Error("server failed", "error", err)
		}
	}

	log.Info("shutting down")
	cancel()

	healthServer.Shutdown()
	grpcServer.GracefulStop()

	if err := httpServer.Stop(10 * time.Second); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("shutdown complete")
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// dashboardURL is the chart page for a listen address such as ":8090".
func dashboardURL(listen string, secure bool) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		host, port = listen, ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	scheme := "http"
	if secure {
		scheme = "https"
	}
	if port == "" {
		return fmt.Sprintf("%s://%s/api/dashboard/chart", scheme, host)
	}
	return fmt.Sprintf("%s://%s/api/dashboard/chart", scheme, net.JoinHostPort(host, port))
}
