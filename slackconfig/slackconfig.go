// Package slackconfig loads the small set of tunables a deployer of this
// library can reasonably want to override: the default map size hint, the
// load factor that triggers map growth, whether lockers default to the
// debug-tracing variant, and the log level used when they do.
package slackconfig

import (
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"libslack/slackerr"
)

// LogLevel controls verbosity of the debug Locker's tracing output.
type LogLevel int

const (
	// Silent disables debug-locker tracing entirely.
	Silent LogLevel = iota
	// Debug logs a line before and after every lock operation.
	Debug
)

func (l LogLevel) String() string {
	switch l {
	case Silent:
		return "SILENT"
	case Debug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a config-file string into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch s {
	case "SILENT", "":
		return Silent, nil
	case "DEBUG":
		return Debug, nil
	default:
		return Silent, slackerr.New(slackerr.Invalid, "slackconfig", "parse_log_level", "unknown log level %q", s)
	}
}

// Config is the YAML-loadable tunable set for this module.
type Config struct {
	// MapSizeHint seeds hashmap.New's initial bucket count (rounded up to
	// the nearest prime in the bucket-size table). Zero means "use the
	// library default" (the smallest table size, 11).
	MapSizeHint int `yaml:"map_size_hint"`

	// GrowthLoadFactor overrides the 2.0 load factor threshold from
	// spec.md §4.2, primarily so tests can force growth sooner without
	// inserting thousands of keys. Zero means "use the default of 2.0".
	GrowthLoadFactor float64 `yaml:"growth_load_factor"`

	// DebugLockers is the debug-locker switch. This package only loads it;
	// no constructor in this module reads it, so a Locker is wrapped in
	// locker.NewDebug only where the caller does so itself.
	DebugLockers bool `yaml:"debug_lockers"`

	// LogLevelName selects the debug Locker's verbosity; parsed into
	// LogLevel by Validate.
	LogLevelName string   `yaml:"log_level"`
	LogLevel     LogLevel `yaml:"-"`

	// Environment names the deployment environment ("development",
	// "production", "test", ...); checked by IsDevelopment.
	Environment string `yaml:"environment"`
}

// Default returns the library's built-in defaults.
func Default() Config {
	return Config{
		MapSizeHint:      11,
		GrowthLoadFactor: 2.0,
		DebugLockers:     false,
		LogLevelName:     "SILENT",
		LogLevel:         Silent,
		Environment:      "development",
	}
}

// IsDevelopment reports whether Environment is "development" (matched
// case-insensitively).
func (c Config) IsDevelopment() bool {
	return strings.ToLower(c.Environment) == "development"
}

// Load reads and validates a YAML config from r, starting from Default()
// so a partial YAML document only overrides what it mentions.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, slackerr.Wrap(slackerr.Invalid, "slackconfig", "load", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile opens path and loads it via Load.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, slackerr.Wrap(slackerr.Invalid, "slackconfig", "load_file", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the config for internal consistency and resolves
// LogLevelName into LogLevel.
func (c *Config) Validate() error {
	if c.MapSizeHint < 0 {
		return slackerr.New(slackerr.Invalid, "slackconfig", "validate", "map_size_hint must be >= 0, got %d", c.MapSizeHint)
	}
	if c.GrowthLoadFactor < 0 {
		return slackerr.New(slackerr.Invalid, "slackconfig", "validate", "growth_load_factor must be >= 0, got %v", c.GrowthLoadFactor)
	}
	if c.GrowthLoadFactor == 0 {
		c.GrowthLoadFactor = 2.0
	}
	lvl, err := ParseLogLevel(c.LogLevelName)
	if err != nil {
		return err
	}
	c.LogLevel = lvl
	return nil
}
