// Package config loads the folio command's settings from the environment,
// optionally seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/xraph/folio/numbering"
)

// Environment variable names.
const (
	EnvDBDriver     = "FOLIO_DB_DRIVER"
	EnvDBDSN        = "FOLIO_DB_DSN"
	EnvNumbering    = "FOLIO_NUMBERING"
	EnvAllowOrphans = "FOLIO_ALLOW_ORPHANS"
	EnvLogLevel     = "FOLIO_LOG_LEVEL"
	EnvLogFormat    = "FOLIO_LOG_FORMAT"
)

// Config holds the command configuration.
type Config struct {
	DBDriver     string
	DBDSN        string
	Numbering    numbering.Policy
	AllowOrphans bool

	LogLevel  string
	LogFormat string
}

// Load reads .env (when present) and then the process environment.
// Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() (Config, error) {
	policy, err := numbering.ParsePolicy(getenv(EnvNumbering, ""))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", EnvNumbering, err)
	}
	orphans, err := getenvBool(EnvAllowOrphans, false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBDriver:     strings.ToLower(getenv(EnvDBDriver, "sqlite")),
		DBDSN:        getenv(EnvDBDSN, "folio.db"),
		Numbering:    policy,
		AllowOrphans: orphans,
		LogLevel:     strings.ToLower(getenv(EnvLogLevel, "warn")),
		LogFormat:    strings.ToLower(getenv(EnvLogFormat, "text")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("config: %s: unsupported driver %q", EnvDBDriver, c.DBDriver)
	}
	if c.DBDriver != "memory" && c.DBDSN == "" {
		return fmt.Errorf("config: %s is required for driver %q", EnvDBDSN, c.DBDriver)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: %s: unsupported format %q", EnvLogFormat, c.LogFormat)
	}
	return nil
}

// Logger builds the slog logger described by the config, writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
	}
	return level, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
