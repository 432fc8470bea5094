// Package config loads qrtx settings from defaults, a YAML file, the environment
// and command-line flags.
package config

import "time"

// Defaults used when nothing else sets a key.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultQubits        = 5
	DefaultHistoryPath   = ".qrtx/history.db"
	DefaultLogLevel      = "info"
	DefaultPreviewQubits = 12
	DefaultRotationAngle = "pi/2"
	DefaultOutput        = "table"
)

// Output formats understood by the CLI.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds every setting.
type Config struct {
	Simulator SimulatorConfig `koanf:"simulator"`
	Circuit   CircuitConfig   `koanf:"circuit"`
	Serialize SerializeConfig `koanf:"serialize"`
	History   HistoryConfig   `koanf:"history"`
	Log       LogConfig       `koanf:"log"`
	Preview   PreviewConfig   `koanf:"preview"`
	Output    string          `koanf:"output"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

// SimulatorConfig points at the simulation backend.
type SimulatorConfig struct {
	BaseURL string `koanf:"base_url"`
	// Timeout bounds each request. Zero waits forever.
	Timeout time.Duration `koanf:"timeout"`
}

// CircuitConfig sets the editor's starting state.
type CircuitConfig struct {
	DefaultQubits int `koanf:"default_qubits"`
}

// SerializeConfig controls request building.
type SerializeConfig struct {
	// Lenient sends a CNOT target whose control was removed instead of refusing.
	Lenient bool `koanf:"lenient"`
}

// HistoryConfig locates the run history database.
type HistoryConfig struct {
	Path string `koanf:"path"`
}

// LogConfig controls logging. An empty File discards TUI logs.
type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// PreviewConfig controls the local statevector preview.
type PreviewConfig struct {
	MaxQubits     int    `koanf:"max_qubits"`
	RotationAngle string `koanf:"rotation_angle"`
}

// Default returns the configuration used when no file, env or flag overrides anything.
func Default() *Config {
	return &Config{
		Simulator: SimulatorConfig{BaseURL: DefaultBaseURL},
		Circuit:   CircuitConfig{DefaultQubits: DefaultQubits},
		History:   HistoryConfig{Path: DefaultHistoryPath},
		Log:       LogConfig{Level: DefaultLogLevel},
		Preview:   PreviewConfig{MaxQubits: DefaultPreviewQubits, RotationAngle: DefaultRotationAngle},
		Output:    DefaultOutput,
	}
}
