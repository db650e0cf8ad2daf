package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
// The default per-client limit comes from the server config so the serve
// command has a single knob for it.
func LoadConfig(defaultLimit int) *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Auth endpoints are throttled hardest; writes get a moderate cap; reads fall
// through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/auth/register", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/auth/login", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/api/auth/password", Method: "PUT", Limit: 20, Window: time.Hour, Burst: 5},

		{Path: "/api/companies", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/companies/", Method: "PATCH", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/companies/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/companies/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/contacts", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/contacts/", Method: "PATCH", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/contacts/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/contacts/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/addresses/", Method: "PATCH", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/addresses/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/emails/", Method: "PATCH", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/emails/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/phones/", Method: "PATCH", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/phones/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/field-definitions", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/field-definitions/", Method: "PATCH", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/field-definitions/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
