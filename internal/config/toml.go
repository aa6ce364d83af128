package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// parseTOML reads the .ccheck.toml fallback format:
//
//	[clang]
//	executable = "/usr/bin/clang"
//	include_dirs = ["vendor/include"]
//	timeout_sec = 30
//
//	[analysis]
//	dedup_window = 1
//	external = true
//	format = "text"
func parseTOML(content []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return cfg, nil
}
