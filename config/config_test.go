package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SOLVER_TIMEOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.Solver.Timeout)
	assert.Equal(t, "/api/solve_network", cfg.Solver.NetworkPath)
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SOLVER_TIMEOUT", "30s")
	t.Setenv("SOLVER_RATE_LIMIT", "2.5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Solver.Timeout)
	assert.Equal(t, 2.5, cfg.Solver.RateLimit)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.UsesRedis())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SOLVER_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Solver.Timeout)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: "8080"},
		Solver:  SolverConfig{BaseURL: "http://solver", Timeout: time.Second},
		Session: SessionConfig{TTL: time.Hour},
	}
	require.NoError(t, cfg.Validate())

	cfg.Solver.RateLimit = -1
	assert.Error(t, cfg.Validate())

	cfg.Solver.RateLimit = 0
	cfg.Solver.BaseURL = ""
	assert.Error(t, cfg.Validate())
}
