package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Solver  SolverConfig
	Redis   RedisConfig
	Session SessionConfig
	App     AppConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type SolverConfig struct {
	BaseURL       string
	LinearPath    string
	TransportPath string
	NetworkPath   string
	Timeout       time.Duration
	RateLimit     float64
	RateBurst     int
}

// RedisConfig selects the session store; an empty Addr keeps sessions in memory
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	TTL       time.Duration
	SweepSpec string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Solver: SolverConfig{
			BaseURL:       getEnv("SOLVER_BASE_URL", "http://localhost:8000"),
			LinearPath:    getEnv("SOLVER_LINEAR_PATH", "/api/solve_linear"),
			TransportPath: getEnv("SOLVER_TRANSPORT_PATH", "/api/solve_transport"),
			NetworkPath:   getEnv("SOLVER_NETWORK_PATH", "/api/solve_network"),
			Timeout:       getEnvAsDuration("SOLVER_TIMEOUT", 90*time.Second),
			RateLimit:     getEnvAsFloat("SOLVER_RATE_LIMIT", 5),
			RateBurst:     getEnvAsInt("SOLVER_RATE_BURST", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTL:       getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SweepSpec: getEnv("SESSION_SWEEP_SPEC", "0 */5 * * * *"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Solver.BaseURL == "" {
		return fmt.Errorf("SOLVER_BASE_URL is required")
	}

	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("SOLVER_TIMEOUT must be positive")
	}

	if c.Solver.RateLimit < 0 {
		return fmt.Errorf("SOLVER_RATE_LIMIT must not be negative")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

// UsesRedis reports whether sessions are kept in Redis
func (c *Config) UsesRedis() bool {
	return c.Redis.Addr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
