package config

import (
	"flag"
	"os"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "environment variable set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "from-env",
			want:         "from-env",
		},
		{
			name:         "environment variable not set",
			key:          "NONEXISTENT_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		want         int
	}{
		{name: "valid integer", envValue: "42", defaultValue: 10, want: 42},
		{name: "invalid integer", envValue: "not-a-number", defaultValue: 10, want: 10},
		{name: "not set", defaultValue: 99, want: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TEST_INT", tt.envValue)
			}
			if got := getEnvInt("TEST_INT", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     time.Duration
	}{
		{name: "valid duration", envValue: "2s", want: 2 * time.Second},
		{name: "invalid duration", envValue: "soon", want: 5 * time.Second},
		{name: "not set", want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TEST_DURATION", tt.envValue)
			}
			if got := getEnvDuration("TEST_DURATION", 5*time.Second); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	for value, want := range map[string]bool{"true": true, "1": true, "false": false, "yes": false} {
		t.Setenv("TEST_BOOL", value)
		if got := getEnvBool("TEST_BOOL", !want); got != want {
			t.Errorf("getEnvBool(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestConfig_Defaults(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	os.Args = []string{"cmd"}

	cfg := ParseFlags()

	if cfg.Listen != ":8090" {
		t.Errorf("Listen = %q, want %q", cfg.Listen, ":8090")
	}
	if cfg.GRPCListen != ":50052" {
		t.Errorf("GRPCListen = %q, want %q", cfg.GRPCListen, ":50052")
	}
	if cfg.BackendURL != "http://localhost:10000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.SensorPath != "/api/sensor/latest" {
		t.Errorf("SensorPath = %q", cfg.SensorPath)
	}
	if cfg.Interval != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", cfg.Interval)
	}
	if cfg.History != 20 {
		t.Errorf("History = %d, want 20", cfg.History)
	}
	if cfg.OnPollError != OnErrorReset {
		t.Errorf("OnPollError = %q, want %q", cfg.OnPollError, OnErrorReset)
	}
	if cfg.RecommendMode != "diet" {
		t.Errorf("RecommendMode = %q, want diet", cfg.RecommendMode)
	}
	if cfg.Storage != "memory" {
		t.Errorf("Storage = %q, want memory", cfg.Storage)
	}
	if cfg.RedisPrefix != "sleepanalysis:kv:" {
		t.Errorf("RedisPrefix = %q", cfg.RedisPrefix)
	}
	if cfg.LogFormat != "text" || cfg.LogLevel != "info" {
		t.Errorf("log = %q/%q, want text/info", cfg.LogFormat, cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestConfig_CustomValues(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	t.Setenv("SUBJECT", "from-env")
	t.Setenv("POLL_INTERVAL", "3s")

	os.Args = []string{
		"cmd",
		"-listen=:9090",
		"-backend-url=https://sleep.example.com",
		"-interval=1s",
		"-history=50",
		"-on-poll-error=keep",
		"-recommend-mode=predict",
		"-storage=redis",
		"-redis-addr=redis:6379",
		"-redis-db=2",
		"-log-format=json",
	}

	cfg := ParseFlags()

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Interval != time.Second {
		t.Errorf("Interval = %v, flag should win over env", cfg.Interval)
	}
	if cfg.Subject != "from-env" {
		t.Errorf("Subject = %q, want from-env", cfg.Subject)
	}
	if cfg.History != 50 || cfg.OnPollError != OnErrorKeep || cfg.RecommendMode != "predict" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Storage != "redis" || cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis = %q %q %d", cfg.Storage, cfg.RedisAddr, cfg.RedisDB)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func validConfig() *Config {
	return &Config{
		Listen:         ":8090",
		BackendURL:     "http://localhost:10000",
		Interval:       5 * time.Second,
		RequestTimeout: 10 * time.Second,
		History:        20,
		OnPollError:    OnErrorReset,
		RecommendMode:  "diet",
		Storage:        "memory",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad backend url", func(c *Config) { c.BackendURL = "localhost" }},
		{"ftp backend", func(c *Config) { c.BackendURL = "ftp://host" }},
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"zero interval", func(c *Config) { c.Interval = 0 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero history", func(c *Config) { c.History = 0 }},
		{"bad policy", func(c *Config) { c.OnPollError = "retry" }},
		{"bad mode", func(c *Config) { c.RecommendMode = "both" }},
		{"bad storage", func(c *Config) { c.Storage = "sqlite" }},
		{"redis no addr", func(c *Config) { c.Storage = "redis" }},
		{"redis negative db", func(c *Config) { c.Storage = "redis"; c.RedisAddr = "x:1"; c.RedisDB = -1 }},
		{"tls without cert", func(c *Config) { c.TLS.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config error = %v", err)
	}
}
