// Package config provides configuration parsing for the dashboard daemon.
//
// Values come from command-line flags, then environment variables, then
// defaults. An optional .env file in the working directory is loaded into the
// environment before flags are parsed; variables already set in the process
// environment win over the file.
//
// Example usage:
//
//	cfg := config.ParseFlags()
//	if err := cfg.Validate(); err != nil {
//		// exit 1
//	}
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/history"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/recommend"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/sensor"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/storage"
	"github.com/MarutiHaval05/Sleep-Analysis1/pkg/tls"
)

// Poll error policies.
const (
	OnErrorReset = "reset"
	OnErrorKeep  = "keep"
)

// Config holds all dashboard configuration.
type Config struct {
	Listen      string
	GRPCListen  string
	LogFormat   string
	LogLevel    string
	OpenBrowser bool
	CORSOrigins string

	BackendURL     string
	SensorPath     string
	PredictPath    string
	DietPath       string
	Interval       time.Duration
	RequestTimeout time.Duration
	History        int
	OnPollError    string
	RecommendMode  string
	Subject        string

	Storage       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// TLS configures the HTTP listener.
	TLS tls.Config
	// BackendTLS configures connections to the backend.
	BackendTLS tls.Config
}

// ParseFlags parses command-line flags and environment variables into a Config.
func ParseFlags() *Config {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":8090"), "HTTP listen address")
	flag.StringVar(&cfg.GRPCListen, "grpc-listen", getEnv("GRPC_LISTEN", ":50052"), "gRPC health listen address (empty disables)")
	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.BoolVar(&cfg.OpenBrowser, "open-browser", getEnvBool("OPEN_BROWSER", false), "Open the dashboard chart in a browser on start")
	flag.StringVar(&cfg.CORSOrigins, "cors-origins", getEnv("CORS_ORIGINS", "*"), "Comma-separated allowed CORS origins")

	flag.StringVar(&cfg.BackendURL, "backend-url", getEnv("BACKEND_URL", "http://localhost:10000"), "Backend base URL")
	flag.StringVar(&cfg.SensorPath, "sensor-path", getEnv("SENSOR_PATH", sensor.DefaultPath), "Latest sensor reading path")
	flag.StringVar(&cfg.PredictPath, "predict-path", getEnv("PREDICT_PATH", recommend.DefaultPredictPath), "Prediction path")
	flag.StringVar(&cfg.DietPath, "diet-path", getEnv("DIET_PATH", recommend.DefaultDietPath), "Diet recommendation path")
	flag.DurationVar(&cfg.Interval, "interval", getEnvDuration("POLL_INTERVAL", 5*time.Second), "Polling interval")
	flag.DurationVar(&cfg.RequestTimeout, "request-timeout", getEnvDuration("REQUEST_TIMEOUT", 10*time.Second), "Backend request timeout")
	flag.IntVar(&cfg.History, "history", getEnvInt("HISTORY_CAPACITY", history.DefaultCapacity), "Chart history capacity")
	flag.StringVar(&cfg.OnPollError, "on-poll-error", getEnv("ON_POLL_ERROR", OnErrorReset), "Poll failure policy: reset or keep")
	flag.StringVar(&cfg.RecommendMode, "recommend-mode", getEnv("RECOMMEND_MODE", string(recommend.ModeDiet)), "Recommendation mode: diet or predict")
	flag.StringVar(&cfg.Subject, "subject", getEnv("SUBJECT", "anonymous"), "Subject id sent with predictions")

	flag.StringVar(&cfg.Storage, "storage", getEnv("STORAGE", "memory"), "Storage backend: memory or redis")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis server address")
	flag.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	flag.IntVar(&cfg.RedisDB, "redis-db", getEnvInt("REDIS_DB", 0), "Redis database number")
	flag.StringVar(&cfg.RedisPrefix, "redis-prefix", getEnv("REDIS_PREFIX", storage.DefaultKeyPrefix), "Redis key prefix")

	flag.BoolVar(&cfg.TLS.Enabled, "tls-enabled", getEnvBool("TLS_ENABLED", false), "Enable TLS for HTTP server")
	flag.StringVar(&cfg.TLS.CertFile, "tls-cert-file", getEnv("TLS_CERT_FILE", ""), "TLS certificate file")
	flag.StringVar(&cfg.TLS.KeyFile, "tls-key-file", getEnv("TLS_KEY_FILE", ""), "TLS private key file")
	flag.StringVar(&cfg.TLS.CAFile, "tls-ca-file", getEnv("TLS_CA_FILE", ""), "TLS CA certificate file for client verification")

	flag.BoolVar(&cfg.BackendTLS.Enabled, "backend-tls-enabled", getEnvBool("BACKEND_TLS_ENABLED", false), "Use custom TLS settings for the backend")
	flag.StringVar(&cfg.BackendTLS.CertFile, "backend-tls-cert-file", getEnv("BACKEND_TLS_CERT_FILE", ""), "Client certificate for the backend")
	flag.StringVar(&cfg.BackendTLS.KeyFile, "backend-tls-key-file", getEnv("BACKEND_TLS_KEY_FILE", ""), "Client key for the backend")
	flag.StringVar(&cfg.BackendTLS.CAFile, "backend-tls-ca-file", getEnv("BACKEND_TLS_CA_FILE", ""), "CA certificate trusted for the backend")

	flag.Parse()

	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid backend url %q", c.BackendURL)
	}
	if c.Listen == "" {
		return errors.New("listen address cannot be empty")
	}
	if c.Interval <= 0 {
		return errors.New("interval must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be > 0")
	}
	if c.History <= 0 {
		return errors.New("history capacity must be > 0")
	}
	if c.OnPollError != OnErrorReset && c.OnPollError != OnErrorKeep {
		return fmt.Errorf("invalid on-poll-error %q (must be reset or keep)", c.OnPollError)
	}
	if _, err := recommend.ParseMode(c.RecommendMode); err != nil {
		return err
	}
	switch c.Storage {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("redis address cannot be empty")
		}
		if c.RedisDB < 0 {
			return errors.New("redis database number must be >= 0")
		}
	default:
		return fmt.Errorf("invalid storage %q (must be memory or redis)", c.Storage)
	}
	if err := c.TLS.ValidateServer(); err != nil {
		return fmt.Errorf("tls: %w", err)
	}
	if err := c.BackendTLS.ValidateClient(); err != nil {
		return fmt.Errorf("backend tls: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
