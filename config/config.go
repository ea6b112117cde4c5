// Package config loads runtime settings for the MEL binaries from the
// environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ywgi/AirForceMELGenerator/factory"
	"github.com/ywgi/AirForceMELGenerator/policy"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Port            int           `env:"MEL_PORT"             envDefault:"8080"`
	Ruleset         string        `env:"MEL_RULESET"          envDefault:"FY2025"`
	RulesFile       string        `env:"MEL_RULES_FILE"`
	LogLevel        string        `env:"MEL_LOG_LEVEL"        envDefault:"info"`
	CORSOrigins     []string      `env:"MEL_CORS_ORIGINS"     envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"MEL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the Config read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger builds a text logger at LogLevel writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// Registry returns the preset rulesets plus the one defined in RulesFile,
// and checks that Ruleset names a registered version.
func (c Config) Registry() (*policy.Registry, error) {
	registry := policy.DefaultRegistry()
	if c.RulesFile != "" {
		if err := LoadRulesFile(registry, c.RulesFile); err != nil {
			return nil, err
		}
	}
	if _, err := registry.Lookup(c.Ruleset); err != nil {
		return nil, fmt.Errorf("default ruleset: %w", err)
	}
	return registry, nil
}

// LoadRulesFile parses a JSON ruleset file and registers it. "extends" is
// resolved against the rulesets already in registry.
func LoadRulesFile(registry *policy.Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	rs, err := factory.NewRulesetFactory(registry).ParseRuleset(data)
	if err != nil {
		return fmt.Errorf("rules file %s: %w", path, err)
	}
	return registry.Register(rs)
}
