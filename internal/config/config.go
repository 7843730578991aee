package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port         string
	AppEnv       string
	LogLevel     string
	PublicURL    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	API       APIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// APIConfig points at the flight booking REST API and the OAuth broker.
type APIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	OAuthBrokerURL string
	MaxRetries     int
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Store      string // "redis" or "memory"
	Secure     bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RateLimitConfig caps outbound requests per endpoint group, in requests
// per second.
type RateLimitConfig struct {
	SearchRPS  float64
	BookingRPS float64
	AuthRPS    float64
	ContactRPS float64
	Burst      int
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		PublicURL:    getEnv("PUBLIC_URL", "http://localhost:8080"),
		ReadTimeout:  getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:  getDurationEnv("IDLE_TIMEOUT", 60*time.Second),

		API: APIConfig{
			BaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8001/api"), "/"),
			Timeout:        getDurationEnv("API_TIMEOUT", 10*time.Second),
			OAuthBrokerURL: getEnv("OAUTH_BROKER_URL", "https://auth.emergentagent.com"),
			MaxRetries:     getIntEnv("API_MAX_RETRIES", 2),
		},

		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "change-me-in-production"),
			CookieName: getEnv("SESSION_COOKIE", "fb_session"),
			TTL:        getDurationEnv("SESSION_TTL", 2*time.Hour),
			Store:      strings.ToLower(getEnv("SESSION_STORE", "redis")),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		Cache: CacheConfig{
			Enabled: getBoolEnv("SEARCH_CACHE_ENABLED", true),
			TTL:     getDurationEnv("SEARCH_CACHE_TTL", 5*time.Minute),
		},

		RateLimit: RateLimitConfig{
			SearchRPS:  getFloatEnv("RATE_LIMIT_SEARCH_RPS", 10),
			BookingRPS: getFloatEnv("RATE_LIMIT_BOOKING_RPS", 5),
			AuthRPS:    getFloatEnv("RATE_LIMIT_AUTH_RPS", 5),
			ContactRPS: getFloatEnv("RATE_LIMIT_CONTACT_RPS", 2),
			Burst:      getIntEnv("RATE_LIMIT_BURST", 10),
		},
	}

	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port
	cfg.Session.Secure = cfg.IsProduction()

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}
