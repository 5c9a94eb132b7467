// Package config loads server settings from the environment (optionally seeded
// from a .env file) and puzzle settings from an optional YAML file.
package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"bovpuzzle/internal/log"
)

const (
	defaultPort       = "8080"
	defaultSessionTTL = 2 * time.Hour
)

// Config holds the server's runtime options.
type Config struct {
	Port         string        // PORT
	BaseURL      string        // BASE_URL, used for absolute links
	LogLevel     log.Level     // LOG_LEVEL
	SettingsPath string        // PUZZLE_SETTINGS, YAML file; empty means built-in defaults
	SessionTTL   time.Duration // SESSION_TTL, idle sessions older than this are dropped
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads the optional env files (".env" when none are given) and then the environment.
// A missing env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "load env file %s", file)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup function shaped like os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		Port:       defaultPort,
		LogLevel:   log.LevelInfo,
		SessionTTL: defaultSessionTTL,
	}
	if v, ok := nonEmpty(lookup, "PORT"); ok {
		if _, err := strconv.Atoi(v); err != nil {
			return cfg, errors.Wrap(err, "PORT must be a number")
		}
		cfg.Port = v
	}
	if v, ok := nonEmpty(lookup, "BASE_URL"); ok {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := nonEmpty(lookup, "LOG_LEVEL"); ok {
		cfg.LogLevel = log.LevelFromString(v)
	}
	if v, ok := nonEmpty(lookup, "PUZZLE_SETTINGS"); ok {
		cfg.SettingsPath = v
	}
	if v, ok := nonEmpty(lookup, "SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return cfg, errors.Wrap(err, "SESSION_TTL must be a duration")
		}
		if ttl > 0 {
			cfg.SessionTTL = ttl
		}
	}
	return cfg, nil
}

func nonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
