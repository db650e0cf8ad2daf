// Package config provides environment-driven configuration for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the HTTP server and database settings.
type ServerConfig struct {
	Port            int
	DatabaseURL     string
	AllowedOrigin   string
	RequestsPerMin  int
	ShutdownTimeout time.Duration
}

// NewServerConfig builds the server configuration from environment variables.
// DATABASE_URL is required; PORT defaults to 8080, RATE_LIMIT_PER_MINUTE to
// 120 and SHUTDOWN_TIMEOUT_SECONDS to 10.
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	port, err := envInt("PORT", 8080)
	if err != nil {
		return nil, err
	}

	perMin, err := envInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}

	shutdownSecs, err := envInt("SHUTDOWN_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	config := &ServerConfig{
		Port:            port,
		DatabaseURL:     databaseURL,
		AllowedOrigin:   os.Getenv("CORS_ALLOWED_ORIGIN"), // empty means allow any
		RequestsPerMin:  perMin,
		ShutdownTimeout: time.Duration(shutdownSecs) * time.Second,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.RequestsPerMin < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got: %d", c.RequestsPerMin)
	}
	if c.ShutdownTimeout < time.Second {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be at least 1 second")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envInt(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return value, nil
}
