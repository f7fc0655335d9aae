package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPlannerURL   = "https://app.elasticroute.com/api"
	DefaultDashboardURL = "https://app.elasticroute.com/api/v1"
)

type LoggerConfig struct {
	Level  string
	Format string
	File   string
}

type Config struct {
	APIKey string
	// DefaultAPIKey is the fallback when APIKey is blank.
	DefaultAPIKey string

	PlannerURL   string
	DashboardURL string
	Timeout      time.Duration

	// Client-side throttling; zero RequestsPerSecond disables it.
	RequestsPerSecond float64
	Burst             int
	MaxAttempts       int

	// SolutionStore is a DSN: postgres://, redis:// or a SQLite file path.
	SolutionStore string
	SolutionTTL   time.Duration
	DatabaseURL   string

	Port   string
	Logger LoggerConfig
}

// Load reads configuration from the environment, after loading .env if one
// exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIKey:            Get("ELASTICROUTE_API_KEY", ""),
		DefaultAPIKey:     Get("ELASTICROUTE_DEFAULT_API_KEY", ""),
		PlannerURL:        Get("ELASTICROUTE_PLANNER_URL", DefaultPlannerURL),
		DashboardURL:      Get("ELASTICROUTE_DASHBOARD_URL", DefaultDashboardURL),
		Timeout:           GetDuration("ELASTICROUTE_TIMEOUT", 60*time.Second),
		RequestsPerSecond: GetFloat("RATE_RPS", 0),
		Burst:             GetInt("RATE_BURST", 1),
		MaxAttempts:       GetInt("HTTP_MAX_ATTEMPTS", 1),
		SolutionStore:     Get("SOLUTION_STORE", "solutions.db"),
		SolutionTTL:       GetDuration("SOLUTION_TTL", 7*24*time.Hour),
		DatabaseURL:       Get("DATABASE_URL", ""),
		Port:              Get("PORT", "8080"),
		Logger: LoggerConfig{
			Level:  Get("LOG_LEVEL", "info"),
			Format: Get("LOG_FORMAT", "text"),
			File:   Get("LOG_FILE", ""),
		},
	}
}

func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(Get(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(Get(key, ""))
	if err != nil {
		return fallback
	}
	return d
}
