package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/augmify/katana/pkg/animation"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "katana.yaml"

// Config represents the optional katana.yaml configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Errors    ErrorsConfig    `yaml:"errors"`
	Animation AnimationConfig `yaml:"animation"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ErrorsConfig contains error reporting settings.
type ErrorsConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// AnimationConfig describes the animation applied to store-driven updates.
type AnimationConfig struct {
	Type     string  `yaml:"type,omitempty"`
	Duration string  `yaml:"duration,omitempty"`
	Curve    string  `yaml:"curve,omitempty"`
	Damping  float64 `yaml:"damping,omitempty"`
	Velocity float64 `yaml:"velocity,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	// Path is the file the values were read from, empty for defaults.
	Path      string
	LogLevel  slog.Level
	LogFormat string
	Verbose   bool
	Animation animation.Animation
	Metrics   bool
}

const defaultDuration = 250 * time.Millisecond

var curves = map[string]func(float64) float64{
	"linear":      animation.LinearCurve,
	"ease":        animation.Ease,
	"ease-in":     animation.EaseIn,
	"ease-out":    animation.EaseOut,
	"ease-in-out": animation.EaseInOut,
}

// LoadOptional reads katana.yaml from dir if present.
func LoadOptional(dir string) (*Config, string, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, "", nil
		}
		return nil, "", err
	}
	return cfg, path, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &cfg, nil
}

// Resolve loads katana.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, path, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(path)
}

// ResolveFile loads the configuration file at path and resolves defaults.
func ResolveFile(path string) (*Resolved, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(path)
}

// Resolve validates the configuration and fills in defaults. path is
// recorded in the result and used in error messages.
func (c *Config) Resolve(path string) (*Resolved, error) {
	source := path
	if source == "" {
		source = "defaults"
	}

	level := slog.LevelInfo
	if s := strings.TrimSpace(c.Log.Level); s != "" {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			return nil, fmt.Errorf("%s: log.level: %w", source, err)
		}
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "":
		format = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("%s: log.format must be text or json (got %q)", source, c.Log.Format)
	}

	anim, err := c.Animation.resolve()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	metrics := true
	if c.Metrics.Enabled != nil {
		metrics = *c.Metrics.Enabled
	}

	return &Resolved{
		Path:      path,
		LogLevel:  level,
		LogFormat: format,
		Verbose:   c.Errors.Verbose,
		Animation: anim,
		Metrics:   metrics,
	}, nil
}

func (a AnimationConfig) resolve() (animation.Animation, error) {
	kind := strings.ToLower(strings.TrimSpace(a.Type))
	if kind == "" || kind == "none" {
		return animation.None, nil
	}

	duration := defaultDuration
	if s := strings.TrimSpace(a.Duration); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return animation.None, fmt.Errorf("animation.duration: %w", err)
		}
		if d <= 0 {
			return animation.None, fmt.Errorf("animation.duration must be positive (got %s)", d)
		}
		duration = d
	}

	switch kind {
	case "linear":
		return animation.Linear(duration), nil
	case "curved":
		name := strings.ToLower(strings.TrimSpace(a.Curve))
		if name == "" {
			name = "ease"
		}
		curve, ok := curves[name]
		if !ok {
			return animation.None, fmt.Errorf("animation.curve: unknown curve %q", a.Curve)
		}
		return animation.Curved(duration, curve), nil
	case "spring":
		damping := a.Damping
		if damping == 0 {
			damping = 0.7
		}
		if damping < 0 || damping > 1 {
			return animation.None, fmt.Errorf("animation.damping must be in (0, 1] (got %g)", a.Damping)
		}
		return animation.Spring(duration, damping, a.Velocity), nil
	default:
		return animation.None, fmt.Errorf("animation.type must be none, linear, curved or spring (got %q)", a.Type)
	}
}

// NewLogger builds the CLI logger described by r, writing to w.
func NewLogger(r *Resolved, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: r.LogLevel}
	if r.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
