package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleet-scheduling/internal/config"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONToConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	defer l.Close()

	l.Debug("hidden")
	l.Info("flight created", "flight", "FR1234")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "flight created", rec["msg"])
	assert.Equal(t, "FR1234", rec["flight"])
	assert.Empty(t, l.LogFile())
}

func TestRotatedFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l, err := NewWithWriter(config.LogConfig{Level: "debug", Format: "text", Dir: dir}, &buf)
	require.NoError(t, err)

	l.Warn("maintenance overlap", "aircraft", "EI-HDV")
	require.NoError(t, l.Close())

	assert.Equal(t, filepath.Join(dir, FileName), l.LogFile())
	b, err := os.ReadFile(l.LogFile())
	require.NoError(t, err)
	assert.Contains(t, string(b), "aircraft=EI-HDV")
	assert.Contains(t, buf.String(), "maintenance overlap")
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewWithWriter(config.LogConfig{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
