package config

import (
	"os"
	"time"

	"github.com/standardbeagle/ccheck/internal/cerrors"
)

// DefaultConfigFile is the KDL config looked up next to the analyzed
// sources. A .ccheck.toml fallback is also accepted.
const (
	DefaultConfigFile     = ".ccheck.kdl"
	DefaultTOMLConfigFile = ".ccheck.toml"
)

type Config struct {
	Clang    Clang
	Analysis Analysis
	Watch    Watch
}

type Clang struct {
	// Executable is the external toolchain location; resolved against
	// PATH when not absolute.
	Executable string `toml:"executable"`
	// IncludeDirs is the ordered include-search list passed to both
	// the preprocessing step and the external pass (-I).
	IncludeDirs []string `toml:"include_dirs"`
	// TimeoutSec bounds the external invocation; expiry degrades the
	// external pass to "no opinion".
	TimeoutSec int `toml:"timeout_sec"`
}

type Analysis struct {
	// DedupWindow is the line tolerance when collapsing matching
	// findings from the two passes.
	DedupWindow int `toml:"dedup_window"`
	// External toggles the cross-checking pass entirely.
	External bool `toml:"external"`
	// Format selects report rendering: "text" or "json".
	Format string `toml:"format"`
}

type Watch struct {
	DebounceMs int `toml:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Clang: Clang{
			Executable: "clang",
			TimeoutSec: 30,
		},
		Analysis: Analysis{
			DedupWindow: 0,
			External:    true,
			Format:      "text",
		},
		Watch: Watch{
			DebounceMs: 300,
		},
	}
}

// Load reads configuration from path. An empty path tries
// .ccheck.kdl then .ccheck.toml in the working directory and falls
// back to defaults when neither exists; an explicit path that does
// not exist is an error.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path, true)
	}
	if cfg, err := loadFile(DefaultConfigFile, false); cfg != nil || err != nil {
		return cfg, err
	}
	if cfg, err := loadFile(DefaultTOMLConfigFile, false); cfg != nil || err != nil {
		return cfg, err
	}
	return Default(), nil
}

func loadFile(path string, required bool) (*Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if required {
			return nil, cerrors.NewConfigError("config", path, "file not found")
		}
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.NewConfigError("config", path, err.Error())
	}
	if isTOML(path) {
		return parseTOML(content)
	}
	return parseKDL(string(content))
}

func isTOML(path string) bool {
	return len(path) > 5 && path[len(path)-5:] == ".toml"
}

// Timeout returns the configured external-tool timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Clang.TimeoutSec) * time.Second
}

// DebounceInterval returns the watch-mode debounce as a duration.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// Validate rejects configurations that cannot drive a run.
func (c *Config) Validate() error {
	if c.Clang.Executable == "" {
		return cerrors.NewConfigError("clang.executable", "", "must not be empty")
	}
	if c.Clang.TimeoutSec <= 0 {
		return cerrors.NewConfigError("clang.timeout_sec", "", "must be positive")
	}
	if c.Analysis.DedupWindow < 0 {
		return cerrors.NewConfigError("analysis.dedup_window", "", "must not be negative")
	}
	switch c.Analysis.Format {
	case "text", "json":
	default:
		return cerrors.NewConfigError("analysis.format", c.Analysis.Format, `must be "text" or "json"`)
	}
	for _, dir := range c.Clang.IncludeDirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return cerrors.NewConfigError("clang.include_dirs", dir, "not a directory")
		}
	}
	return nil
}
