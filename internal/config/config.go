// Package config loads, validates, and live-reloads termpane
// configuration from TOML.
package config

import (
	"fmt"
	"io"
	"os"
)

// Config is the full termpane configuration.
type Config struct {
	Frame FrameConfig `toml:"frame"`
	Log   LogConfig   `toml:"log"`
	Demo  DemoConfig  `toml:"demo"`
}

// FrameConfig selects the frame glyphs.
type FrameConfig struct {
	// Theme names a built-in glyph set: light, rounded, double, or
	// ascii.
	Theme string `toml:"theme"`

	// Glyphs overrides individual glyphs by name (top_left,
	// horizontal, tee_left, ...). Values must be a single rune.
	Glyphs map[string]string `toml:"glyphs"`
}

// LogConfig shapes log message rendering.
type LogConfig struct {
	Prefix          string `toml:"prefix"`
	Timestamp       bool   `toml:"timestamp"`
	TimestampFormat string `toml:"timestamp_format"`
}

// DemoConfig tunes the demo driver.
type DemoConfig struct {
	// TickMillis is the delay between demo messages.
	TickMillis int `toml:"tick_ms"`

	// Panes is how many log panes the demo splits the screen into.
	Panes int `toml:"panes"`
}

// glyphNames are the accepted override keys.
var glyphNames = map[string]bool{
	"top_left":     true,
	"top_right":    true,
	"bottom_left":  true,
	"bottom_right": true,
	"horizontal":   true,
	"vertical":     true,
	"tee_left":     true,
	"tee_right":    true,
	"tee_top":      true,
	"tee_bottom":   true,
	"cross":        true,
}

var themeNames = map[string]bool{
	"":        true,
	"light":   true,
	"rounded": true,
	"double":  true,
	"ascii":   true,
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Frame: FrameConfig{Theme: "light"},
		Log: LogConfig{
			Timestamp:       true,
			TimestampFormat: "15:04:05",
		},
		Demo: DemoConfig{
			TickMillis: 200,
			Panes:      2,
		},
	}
}

// Load reads configuration from path, applying defaults for anything
// unset. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFrom(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFrom reads configuration from r over the defaults.
func LoadFrom(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := unmarshalTOML(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration, collecting every problem found.
func (c Config) Validate() error {
	errs := &ValidationErrors{}

	if !themeNames[c.Frame.Theme] {
		errs.Add("frame.theme", fmt.Sprintf("unknown theme %q", c.Frame.Theme))
	}
	for name, glyph := range c.Frame.Glyphs {
		if !glyphNames[name] {
			errs.Add("frame.glyphs."+name, "unknown glyph name")
			continue
		}
		if n := len([]rune(glyph)); n != 1 {
			errs.AddWithValue("frame.glyphs."+name, "override must be a single character", glyph)
		}
	}
	if c.Log.Timestamp && c.Log.TimestampFormat == "" {
		errs.Add("log.timestamp_format", "required when log.timestamp is enabled")
	}
	if c.Demo.TickMillis <= 0 {
		errs.AddWithValue("demo.tick_ms", "must be positive", c.Demo.TickMillis)
	}
	if c.Demo.Panes < 1 || c.Demo.Panes > 8 {
		errs.AddWithValue("demo.panes", "must be between 1 and 8", c.Demo.Panes)
	}

	return errs.ErrOrNil()
}
