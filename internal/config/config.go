// Package config provides the session configuration for trial response
// capture.
//
// A Session value is assembled once at experiment start from defaults, an
// optional TOML or YAML file, and TRIALKEY_* environment variables (in that
// precedence order), then handed to the listener registry as an immutable
// value. There is no live reload: the case mode and reaction-time floor
// must not change under a running trial.
package config

import (
	"fmt"
	"path/filepath"
)

// Session holds the experiment-wide input settings.
type Session struct {
	// CaseSensitive controls key comparison. When false (the default),
	// "A" and "a" are the same response.
	CaseSensitive bool `toml:"case_sensitive" yaml:"case_sensitive"`

	// MinimumRT is the session-wide reaction-time floor in milliseconds.
	// Responses faster than this are ignored unless a listener overrides
	// the floor at registration.
	MinimumRT float64 `toml:"minimum_rt" yaml:"minimum_rt"`
}

// Default returns the default session configuration.
func Default() Session {
	return Session{
		CaseSensitive: false,
		MinimumRT:     0,
	}
}

// Load builds a Session from defaults, the given file (TOML or YAML, chosen
// by extension; empty path or missing file is fine), and the environment.
func Load(path string) (Session, error) {
	cfg := Default()

	if path != "" {
		var loader FileLoader
		switch filepath.Ext(path) {
		case ".toml":
			loader = NewTOMLLoader(path)
		case ".yaml", ".yml":
			loader = NewYAMLLoader(path)
		default:
			return cfg, fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
		}

		if err := loader.Load(&cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if cfg.MinimumRT < 0 {
		return cfg, fmt.Errorf("minimum_rt must not be negative, got %f", cfg.MinimumRT)
	}

	return cfg, nil
}
