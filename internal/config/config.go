package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment. It is
// loaded once at startup; nothing else in the process touches os.Getenv.
type Config struct {
	Env             string
	Port            string
	MongoURI        string
	JWTSecret       []byte
	TokenTTL        time.Duration
	CORSOrigin      string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

const (
	defaultPort            = "5000"
	defaultTokenTTL        = 24 * time.Hour
	defaultCORSOrigin      = "http://localhost:5173"
	defaultRateLimitMax    = 300
	defaultRateLimitWindow = 15 * time.Minute
)

// Load reads the configuration from the environment. MONGODB_URI and
// JWT_SECRET are required; a missing value is an error the caller should
// treat as fatal.
func Load() (*Config, error) {
	uri := strings.TrimSpace(os.Getenv("MONGODB_URI"))
	if uri == "" {
		return nil, fmt.Errorf("missing required environment variable: MONGODB_URI")
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("missing required environment variable: JWT_SECRET")
	}

	cfg := &Config{
		Env:             strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))),
		Port:            defaultPort,
		MongoURI:        uri,
		JWTSecret:       []byte(secret),
		TokenTTL:        defaultTokenTTL,
		CORSOrigin:      defaultCORSOrigin,
		RateLimitMax:    defaultRateLimitMax,
		RateLimitWindow: defaultRateLimitWindow,
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}

	if v := strings.TrimSpace(os.Getenv("JWT_EXPIRES_IN")); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %q", v)
		}
		cfg.TokenTTL = ttl
	}

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGIN")); v != "" {
		cfg.CORSOrigin = v
	}

	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.RateLimitMax = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.RateLimitWindow = time.Duration(parsed) * time.Second
		}
	}

	return cfg, nil
}

// Production reports whether the server runs in production mode. Error
// responses are stripped of diagnostic detail and request logging is
// disabled when true.
func (c *Config) Production() bool {
	return c.Env == "production"
}
