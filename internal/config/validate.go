package config

import (
	"fmt"
	"log/slog"
	"net/url"

	"qrtx/internal/circuit"
	"qrtx/internal/preview"
)

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Simulator.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("simulator.base_url must be an absolute URL, got %q", c.Simulator.BaseURL)
	}
	if c.Simulator.Timeout < 0 {
		return fmt.Errorf("simulator.timeout must not be negative, got %s", c.Simulator.Timeout)
	}
	if q := c.Circuit.DefaultQubits; q < 1 || q > circuit.MaxQubits {
		return fmt.Errorf("circuit.default_qubits must be between 1 and %d, got %d", circuit.MaxQubits, q)
	}
	if q := c.Preview.MaxQubits; q < 0 || q > preview.LimitQubits {
		return fmt.Errorf("preview.max_qubits must be between 0 and %d, got %d", preview.LimitQubits, q)
	}
	if _, err := c.Preview.Angle(); err != nil {
		return fmt.Errorf("preview.rotation_angle: %w", err)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.History.Path == "" {
		return fmt.Errorf("history.path is required")
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputTable, OutputJSON, c.Output)
	}
	return nil
}

// Angle parses RotationAngle.
func (p PreviewConfig) Angle() (float64, error) {
	return circuit.ParseAngle(p.RotationAngle)
}

// SlogLevel parses Level (debug, info, warn or error).
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return lvl, nil
}
