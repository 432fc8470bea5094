package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qrtx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "", "")
	flags.Duration("timeout", 0, "")
	flags.Int("qubits", 0, "")
	flags.Bool("lenient", false, "")
	flags.String("output", "", "")
	flags.String("unrelated", "", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Simulator, cfg.Simulator)
	assert.Equal(t, 5, cfg.Circuit.DefaultQubits)
	assert.False(t, cfg.Serialize.Lenient)
	assert.Equal(t, DefaultHistoryPath, cfg.History.Path)
	assert.Equal(t, "", cfg.Log.File)
	assert.Equal(t, "table", cfg.Output)
	assert.Empty(t, cfg.FileUsed)

	angle, err := cfg.Preview.Angle()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, angle, 1e-12)
}

func TestLoadFindsFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qrtx.yml"), []byte("circuit:\n  default_qubits: 3\n"), 0600))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Circuit.DefaultQubits)
	assert.Equal(t, "qrtx.yml", cfg.FileUsed)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
simulator:
  base_url: http://sim.internal:9000
  timeout: 30s
serialize:
  lenient: true
preview:
  max_qubits: 4
  rotation_angle: 3*pi/4
log:
  level: debug
  file: /tmp/qrtx.log
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://sim.internal:9000", cfg.Simulator.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Simulator.Timeout)
	assert.True(t, cfg.Serialize.Lenient)
	assert.Equal(t, 4, cfg.Preview.MaxQubits)
	assert.Equal(t, "/tmp/qrtx.log", cfg.Log.File)
	assert.Equal(t, path, cfg.FileUsed)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "simulator:\n  base_url: http://from-file:8000\n")
	t.Setenv("QRTX_SIMULATOR__BASE_URL", "http://from-env:8000")
	t.Setenv("QRTX_CIRCUIT__DEFAULT_QUBITS", "7")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", cfg.Simulator.BaseURL)
	assert.Equal(t, 7, cfg.Circuit.DefaultQubits)
}

func TestLoadFlagPrecedence(t *testing.T) {
	path := writeConfig(t, "simulator:\n  base_url: http://from-file:8000\ncircuit:\n  default_qubits: 2\n")
	t.Setenv("QRTX_SIMULATOR__BASE_URL", "http://from-env:8000")

	flags := testFlags()
	require.NoError(t, flags.Set("base-url", "http://from-flag:8000"))
	require.NoError(t, flags.Set("timeout", "5s"))
	require.NoError(t, flags.Set("unrelated", "ignored"))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:8000", cfg.Simulator.BaseURL, "flag value should override config file and env var")
	assert.Equal(t, 5*time.Second, cfg.Simulator.Timeout)
	assert.Equal(t, 2, cfg.Circuit.DefaultQubits, "unset flags fall back to the file")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"qubits too large", "circuit:\n  default_qubits: 26\n", "circuit.default_qubits"},
		{"qubits zero", "circuit:\n  default_qubits: 0\n", "circuit.default_qubits"},
		{"preview too large", "preview:\n  max_qubits: 17\n", "preview.max_qubits"},
		{"bad angle", "preview:\n  rotation_angle: tau\n", "preview.rotation_angle"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"relative url", "simulator:\n  base_url: localhost\n", "simulator.base_url"},
		{"bad output", "output: xml\n", "output"},
		{"negative timeout", "simulator:\n  timeout: -1s\n", "simulator.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
