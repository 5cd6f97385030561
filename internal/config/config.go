// Package config loads runtime settings for the staff tracker from the
// environment and builds the process logger.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the MCP server and the CLI commands.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `env:"STAFF_MCP_LOG_LEVEL" envDefault:"info"`

	// EdgeThreshold is the luma difference that marks a mask edge.
	EdgeThreshold int `env:"STAFF_MCP_EDGE_THRESHOLD" envDefault:"40"`

	// MatchTolerance is the association gate in rows.
	MatchTolerance float32 `env:"STAFF_MCP_MATCH_TOLERANCE" envDefault:"1.2"`

	// MinStaffLength hides staves seen in fewer columns from reports.
	MinStaffLength int `env:"STAFF_MCP_MIN_STAFF_LENGTH" envDefault:"1"`
}

// Load parses Config from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses Config from the given variables instead of the process
// environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the tracker cannot run with.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if err := CheckThreshold(c.EdgeThreshold); err != nil {
		return fmt.Errorf("edge threshold: %w", err)
	}
	if err := CheckTolerance(c.MatchTolerance); err != nil {
		return fmt.Errorf("match tolerance: %w", err)
	}
	if err := CheckMinLength(c.MinStaffLength); err != nil {
		return fmt.Errorf("min staff length: %w", err)
	}
	return nil
}

// CheckThreshold rejects edge thresholds outside the 8-bit luma range.
func CheckThreshold(v int) error {
	if v < 0 || v > 255 {
		return fmt.Errorf("%d outside 0..255", v)
	}
	return nil
}

// CheckTolerance rejects match tolerances that are not positive, NaN
// included.
func CheckTolerance(v float32) error {
	if !(v > 0) {
		return fmt.Errorf("must be positive, got %g", v)
	}
	return nil
}

// CheckMinLength rejects negative report filters.
func CheckMinLength(v int) error {
	if v < 0 {
		return fmt.Errorf("must not be negative, got %d", v)
	}
	return nil
}

// Level returns the configured slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Logger returns a text logger writing to w at the configured level. An
// unparseable level falls back to info.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
