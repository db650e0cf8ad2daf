package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(configs ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: configs,
	}
}

func TestLimiter_BurstExhaustion(t *testing.T) {
	limiter := NewLimiter(testConfig(
		EndpointConfig{Path: "/api/auth/login", Method: "POST", Limit: 60, Window: time.Hour, Burst: 3},
	))
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("1.2.3.4", "/api/auth/login", "POST")
		assert.True(t, allowed, "request %d should be within burst", i+1)
		assert.Equal(t, 60, info.Limit)
	}

	allowed, info := limiter.Allow("1.2.3.4", "/api/auth/login", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(testConfig(
		EndpointConfig{Path: "/api/companies", Method: "POST", Limit: 120, Window: time.Minute, Burst: 1},
	))
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.2.3.4", "/api/companies", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4", "/api/companies", "POST")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("5.6.7.8", "/api/companies", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Refill(t *testing.T) {
	limiter := NewLimiter(testConfig(
		// 100 tokens/second refill keeps the test fast
		EndpointConfig{Path: "/api/companies", Method: "POST", Limit: 100, Window: time.Second, Burst: 1},
	))
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.2.3.4", "/api/companies", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4", "/api/companies", "POST")
	require.False(t, allowed)

	time.Sleep(50 * time.Millisecond)

	allowed, _ = limiter.Allow("1.2.3.4", "/api/companies", "POST")
	assert.True(t, allowed, "bucket should refill after the wait")
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 1000; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/api/auth/login", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	cfg := testConfig(
		EndpointConfig{Path: "/api/auth/login", Method: "POST", Limit: 60, Window: time.Hour, Burst: 1},
	)
	cfg.Whitelist["10.0.0.1"] = true
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/api/auth/login", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Blacklist["10.0.0.2"] = true
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	allowed, info := limiter.Allow("10.0.0.2", "/api/companies", "GET")
	assert.False(t, allowed)
	assert.False(t, info.Allowed)
}

func TestLimiter_FallsBackToDefaultLimit(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	allowed, info := limiter.Allow("1.2.3.4", "/api/companies", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantNil   bool
		wantLimit int
	}{
		{name: "health is unlimited", path: "/health", method: "GET", wantLimit: 0},
		{name: "exact match", path: "/api/auth/login", method: "POST", wantLimit: 60},
		{name: "prefix match on id path", path: "/api/companies/123", method: "PATCH", wantLimit: 120},
		{name: "nested sub-entity create", path: "/api/companies/123/emails", method: "POST", wantLimit: 120},
		{name: "method mismatch", path: "/api/auth/login", method: "GET", wantNil: true},
		{name: "unmatched read", path: "/api/companies", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := LoadConfig(600)
	assert.False(t, cfg.Enabled)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	// The default limit is the caller's knob, not an env var of this package.
	cfg := LoadConfig(120)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 120, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["10.0.0.1"])
	assert.True(t, cfg.Whitelist["10.0.0.2"])
	assert.NotEmpty(t, cfg.EndpointConfigs)
}
