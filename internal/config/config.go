// Package config loads runtime settings from the environment (optionally
// seeded from .env files) and the app's JSON configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the CLI and the endpoint server.
type Config struct {
	DBPath            string
	PostgresDSN       string
	Addr              string
	TokenSecret       string
	AllowLegacyTokens bool
	CloudEndpoint     string
	CloudToken        string
	StatsTTL          time.Duration
	LogLevel          string
	LogFormat         string
	CORSOrigins       []string
}

// InLambda reports whether we run inside AWS Lambda.
func InLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// DefaultDBPath is ~/.matchstats/matches.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".matchstats", "matches.db")
}

// Load reads .env and .env.local (outside Lambda; existing variables win)
// and then the environment.
func Load() (Config, error) {
	if !InLambda() {
		for _, f := range []string{".env", ".env.local"} {
			if _, err := os.Stat(f); err == nil {
				if err := godotenv.Load(f); err != nil {
					return Config{}, fmt.Errorf("load %s: %w", f, err)
				}
			}
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	c := Config{
		DBPath:        get("MATCHSTATS_DB"),
		PostgresDSN:   get("POSTGRES_DSN"),
		Addr:          get("ADDR"),
		TokenSecret:   get("TOKEN_SECRET"),
		CloudEndpoint: get("CLOUD_ENDPOINT"),
		CloudToken:    get("CLOUD_TOKEN"),
		LogLevel:      get("LOG_LEVEL"),
		LogFormat:     get("LOG_FORMAT"),
		StatsTTL:      5 * time.Minute,
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}

	if raw := get("ALLOW_LEGACY_TOKENS"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c, fmt.Errorf("ALLOW_LEGACY_TOKENS: %w", err)
		}
		c.AllowLegacyTokens = v
	}
	if raw := get("STATS_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return c, fmt.Errorf("STATS_TTL: %w", err)
		}
		if d <= 0 {
			return c, fmt.Errorf("STATS_TTL must be positive, got %s", raw)
		}
		c.StatsTTL = d
	}
	for _, o := range strings.Split(get("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSOrigins = append(c.CORSOrigins, o)
		}
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	return c, nil
}
