package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, "[Logger]\nlog-level = \"warn\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "pong", cfg.Mode)
	assert.Equal(t, 250000, cfg.DMX.Baud)
	assert.Equal(t, 44, cfg.DMX.RefreshHz)
	assert.Equal(t, 88*time.Microsecond, cfg.DMX.Break.Duration)
	assert.Equal(t, uint8(9), cfg.Game.WinScore)
	assert.Equal(t, 2*time.Second, cfg.Game.HitTimeout.Duration)
	assert.Equal(t, uint8(108), cfg.Game.PanMin)
	assert.Equal(t, uint8(148), cfg.Game.PanMax)
}

func TestNewConfigOverrides(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, `
mode = "headlight"

[DMX]
output = "artnet"
channels = 11
break = "120us"

[Fixture]
model = "headlight"
start-channel = 1

[Game]
hit-timeout = "1500ms"
win-score = 5
`))
	require.NoError(t, err)

	assert.Equal(t, "headlight", cfg.Mode)
	assert.Equal(t, "artnet", cfg.DMX.Output)
	assert.Equal(t, "headlight", cfg.Fixture.Model)
	assert.Equal(t, 11, cfg.DMX.Channels)
	assert.Equal(t, 120*time.Microsecond, cfg.DMX.Break.Duration)
	assert.Equal(t, 1500*time.Millisecond, cfg.Game.HitTimeout.Duration)
	assert.Equal(t, uint8(5), cfg.Game.WinScore)
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad duration", "[Game]\nhit-timeout = \"soon\"\n"},
		{"bad mode", "mode = \"disco\"\n"},
		{"bad output", "[DMX]\noutput = \"usb\"\n"},
		{"zero refresh", "[DMX]\nrefresh-hz = 0\n"},
		{"too many channels", "[DMX]\nchannels = 513\n"},
		{"inverted pan band", "[Game]\npan-min = 200\npan-max = 100\n"},
		{"zero win score", "[Game]\nwin-score = 0\n"},
		{"unknown model", "[Fixture]\nmodel = \"par64\"\n"},
		{"headlight mode on moving head", "mode = \"headlight\"\n"},
		{"headlight mode on basic moving head", "mode = \"headlight\"\n[Fixture]\nmodel = \"mh-x25\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestHeadlightModeWithHeadlightModel(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, "mode = \"headlight\"\n[Fixture]\nmodel = \"headlight\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ModeHeadlight, cfg.Mode)
	assert.Equal(t, ModelHeadlight, cfg.Fixture.Model)
}
