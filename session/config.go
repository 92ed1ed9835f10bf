package session

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is a session-admission-time default set, grounded on the
// teacher's database.ParseGeneratorConfig (database/database.go):
// decode a small known-fields YAML document into a struct, same
// KnownFields(true) strictness so a typo'd key fails loudly instead of
// being silently ignored.
type Config struct {
	DefaultDatabase  string        `yaml:"default_database"`
	ExplainDefault   bool          `yaml:"explain_default"`
	StatementTimeout time.Duration `yaml:"-"`
}

type rawConfig struct {
	DefaultDatabase  string `yaml:"default_database"`
	ExplainDefault   bool   `yaml:"explain_default"`
	StatementTimeout string `yaml:"statement_timeout"`
}

// ParseConfigFile reads path and decodes it into a Config, the session
// package's analogue of the teacher's ParseGeneratorConfig; an empty path
// returns the zero Config, same as the teacher's empty-configFile case.
func ParseConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("session: read config: %w", err)
	}
	return parseConfigBytes(buf)
}

func parseConfigBytes(buf []byte) (Config, error) {
	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return Config{}, fmt.Errorf("session: decode config: %w", err)
	}

	cfg := Config{
		DefaultDatabase: raw.DefaultDatabase,
		ExplainDefault:  raw.ExplainDefault,
	}
	if raw.StatementTimeout != "" {
		d, err := time.ParseDuration(raw.StatementTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("session: statement_timeout: %w", err)
		}
		cfg.StatementTimeout = d
	}
	slog.Debug("session config loaded",
		"default_database", cfg.DefaultDatabase,
		"explain_default", cfg.ExplainDefault,
		"statement_timeout", cfg.StatementTimeout)
	return cfg, nil
}
