package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/augmify/katana/pkg/animation"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveDefaults(t *testing.T) {
	r, err := Resolve(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, r.Path)
	assert.Equal(t, slog.LevelInfo, r.LogLevel)
	assert.Equal(t, "text", r.LogFormat)
	assert.False(t, r.Verbose)
	assert.True(t, r.Animation.IsNone())
	assert.True(t, r.Metrics)
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
log:
  level: debug
  format: JSON
errors:
  verbose: true
animation:
  type: curved
  duration: 120ms
  curve: ease-out
metrics:
  enabled: false
`)

	r, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, path, r.Path)
	assert.Equal(t, slog.LevelDebug, r.LogLevel)
	assert.Equal(t, "json", r.LogFormat)
	assert.True(t, r.Verbose)
	assert.Equal(t, animation.TypeCurved, r.Animation.Type)
	assert.Equal(t, 120*time.Millisecond, r.Animation.Duration)
	assert.False(t, r.Metrics)

	same, err := ResolveFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Animation.String(), same.Animation.String())
}

func TestAnimationVariants(t *testing.T) {
	tests := []struct {
		name string
		cfg  AnimationConfig
		want string
	}{
		{"empty", AnimationConfig{}, "none"},
		{"none", AnimationConfig{Type: "none", Duration: "1s"}, "none"},
		{"linear default duration", AnimationConfig{Type: "linear"}, "linear(250ms)"},
		{"curved default curve", AnimationConfig{Type: "Curved", Duration: "1s"}, "curved(1s)"},
		{"spring default damping", AnimationConfig{Type: "spring", Duration: "300ms"}, "spring(300ms, damping=0.7, velocity=0)"},
		{"spring", AnimationConfig{Type: "spring", Duration: "300ms", Damping: 0.5, Velocity: 2}, "spring(300ms, damping=0.5, velocity=2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.resolve()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "log: [", "failed to parse katana.yaml"},
		{"bad level", "log: {level: loud}", "log.level"},
		{"bad format", "log: {format: xml}", "log.format"},
		{"bad type", "animation: {type: bounce}", "animation.type"},
		{"bad duration", "animation: {type: linear, duration: soon}", "animation.duration"},
		{"negative duration", "animation: {type: linear, duration: -1s}", "must be positive"},
		{"bad curve", "animation: {type: curved, curve: wobble}", "unknown curve"},
		{"bad damping", "animation: {type: spring, damping: 3}", "animation.damping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Resolve(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveFileMissing(t *testing.T) {
	_, err := ResolveFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewLogger(t *testing.T) {
	var sb strings.Builder
	logger := NewLogger(&Resolved{LogLevel: slog.LevelWarn, LogFormat: "json"}, &sb)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := sb.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":1`)
}
