package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables recognized by applyEnv. The prefix convention
// follows the binary name.
const (
	EnvCaseSensitive = "TRIALKEY_CASE_SENSITIVE"
	EnvMinimumRT     = "TRIALKEY_MINIMUM_RT"
)

// applyEnv overlays environment variables onto cfg. Unset variables leave
// the current value alone; empty string counts as set.
func applyEnv(cfg *Session) error {
	if val, ok := os.LookupEnv(EnvCaseSensitive); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvCaseSensitive, val, err)
		}
		cfg.CaseSensitive = b
	}

	if val, ok := os.LookupEnv(EnvMinimumRT); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvMinimumRT, val, err)
		}
		cfg.MinimumRT = f
	}

	return nil
}
