// Package config loads process configuration from BIZDESK_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"github.com/alexanderramin/bizdesk/internal/db"
)

// StderrLog is the BIZDESK_LOG_FILE value that sends logs to stderr.
const StderrLog = "-"

type Config struct {
	// DBPath defaults to ~/.bizdesk/bizdesk.db. ":memory:" opens a
	// throwaway database.
	DBPath string `env:"BIZDESK_DB"`

	// LogFile defaults to ~/.bizdesk/bizdesk.log.
	LogFile  string        `env:"BIZDESK_LOG_FILE"`
	LogLevel zapcore.Level `env:"BIZDESK_LOG_LEVEL" envDefault:"info"`

	// ReadOnly rejects every mutation at the gateway.
	ReadOnly bool `env:"BIZDESK_READ_ONLY" envDefault:"false"`

	// LogCalls logs successful use cases at info instead of debug.
	LogCalls bool `env:"BIZDESK_LOG_CALLS" envDefault:"false"`
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom reads configuration from environ instead of the process
// environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" || cfg.LogFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolving home directory: %w", err)
		}
		dir := filepath.Join(home, ".bizdesk")
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "bizdesk.db")
		}
		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(dir, "bizdesk.log")
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("BIZDESK_DB must not be blank")
	}
	if c.DBPath != db.MemoryPath && strings.HasSuffix(c.DBPath, string(filepath.Separator)) {
		return fmt.Errorf("BIZDESK_DB %q is a directory, expected a file path", c.DBPath)
	}
	if c.LogLevel < zapcore.DebugLevel || c.LogLevel > zapcore.ErrorLevel {
		return fmt.Errorf("BIZDESK_LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
