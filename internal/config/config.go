// Package config loads libretto run settings.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// LIBRETTO_* environment variables. A double underscore in a variable name
// separates nesting levels, so LIBRETTO_TIMELINE__LINE_SIZE sets
// timeline.line_size.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/matzehuels/libretto/pkg/pipeline"
	"github.com/matzehuels/libretto/pkg/timeline"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "LIBRETTO_"

// Config is the libretto configuration, corresponding to config.yaml.
type Config struct {
	Width       float64        `yaml:"width" koanf:"width"`
	Height      float64        `yaml:"height" koanf:"height"`
	Seed        uint64         `yaml:"seed" koanf:"seed"`
	Iterations  int            `yaml:"iterations" koanf:"iterations"`
	SkipMissing bool           `yaml:"skip_missing" koanf:"skip_missing"`
	Network     NetworkConfig  `yaml:"network" koanf:"network"`
	Legend      LegendConfig   `yaml:"legend" koanf:"legend"`
	Timeline    TimelineConfig `yaml:"timeline" koanf:"timeline"`
	Cache       CacheConfig    `yaml:"cache" koanf:"cache"`
	Log         LogConfig      `yaml:"log" koanf:"log"`
}

// NetworkConfig holds character network settings.
type NetworkConfig struct {
	MinWeight        float64 `yaml:"min_weight" koanf:"min_weight"`
	MaxWeight        float64 `yaml:"max_weight" koanf:"max_weight"`
	ImagePath        string  `yaml:"image_path" koanf:"image_path"`
	TagBothEndpoints bool    `yaml:"tag_both_endpoints" koanf:"tag_both_endpoints"`
}

// LegendConfig holds the theme legend size band.
type LegendConfig struct {
	ThemeSizeMin float64 `yaml:"theme_size_min" koanf:"theme_size_min"`
	ThemeSizeMax float64 `yaml:"theme_size_max" koanf:"theme_size_max"`
}

// TimelineConfig mirrors timeline.Config.
type TimelineConfig struct {
	LineSize    float64 `yaml:"line_size" koanf:"line_size"`
	PadX        float64 `yaml:"pad_x" koanf:"pad_x"`
	SongGap     float64 `yaml:"song_gap" koanf:"song_gap"`
	RowGap      float64 `yaml:"row_gap" koanf:"row_gap"`
	RightMargin float64 `yaml:"right_margin" koanf:"right_margin"`
	LeftMargin  float64 `yaml:"left_margin" koanf:"left_margin"`
	InitialY    float64 `yaml:"initial_y" koanf:"initial_y"`
}

// CacheConfig controls the layout cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Dir     string `yaml:"dir" koanf:"dir"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var o pipeline.Options
	o.SetLayoutDefaults()
	tc := o.Timeline
	return &Config{
		Width:      o.Width,
		Height:     o.Height,
		Seed:       o.Seed,
		Iterations: o.Iterations,
		Network: NetworkConfig{
			MinWeight: o.MinWeight,
			MaxWeight: o.MaxWeight,
			ImagePath: o.ImagePath,
		},
		Legend: LegendConfig{
			ThemeSizeMin: o.ThemeSizeMin,
			ThemeSizeMax: o.ThemeSizeMax,
		},
		Timeline: TimelineConfig{
			LineSize:    tc.LineSize,
			PadX:        tc.PadX,
			SongGap:     tc.SongGap,
			RowGap:      tc.RowGap,
			RightMargin: tc.RightMargin,
			LeftMargin:  tc.LeftMargin,
			InitialY:    tc.InitialY,
		},
		Cache: CacheConfig{Enabled: true},
		Log:   LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/libretto/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "libretto", "config.yaml"), nil
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LIBRETTO_*). A missing file is not an
// error; an empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps LIBRETTO_TIMELINE__LINE_SIZE to timeline.line_size.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative")
	}
	if c.Network.MinWeight > c.Network.MaxWeight {
		return fmt.Errorf("network.min_weight must not exceed network.max_weight")
	}
	if c.Legend.ThemeSizeMin > c.Legend.ThemeSizeMax {
		return fmt.Errorf("legend.theme_size_min must not exceed legend.theme_size_max")
	}
	if c.Timeline.LineSize <= 0 {
		return fmt.Errorf("timeline.line_size must be positive")
	}
	if c.Log.Level != "" && !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// PipelineOptions converts the configuration into pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	t := c.Timeline
	return pipeline.Options{
		Width:            c.Width,
		Height:           c.Height,
		Seed:             c.Seed,
		Iterations:       c.Iterations,
		MinWeight:        c.Network.MinWeight,
		MaxWeight:        c.Network.MaxWeight,
		ImagePath:        c.Network.ImagePath,
		TagBothEndpoints: c.Network.TagBothEndpoints,
		ThemeSizeMin:     c.Legend.ThemeSizeMin,
		ThemeSizeMax:     c.Legend.ThemeSizeMax,
		Timeline: timeline.Config{
			LineSize:    t.LineSize,
			PadX:        t.PadX,
			SongGap:     t.SongGap,
			RowGap:      t.RowGap,
			RightMargin: t.RightMargin,
			LeftMargin:  t.LeftMargin,
			InitialY:    t.InitialY,
		},
		SkipMissing: c.SkipMissing,
	}
}
