// Package config loads image-synth settings from a TOML file.
//
// Every key is optional; missing keys keep the values from Default. Unknown
// keys are rejected so that typos do not silently fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ironsheep/image-synth/internal/background"
	"github.com/ironsheep/image-synth/internal/imaging"
)

// Config is the full set of tunables.
type Config struct {
	// Seed for the random source. Zero seeds from the clock.
	Seed     uint64 `toml:"seed"`
	LogLevel string `toml:"log_level"`

	Background Background `toml:"background"`
	Crop       Crop       `toml:"crop"`
	Collage    Collage    `toml:"collage"`
	Output     Output     `toml:"output"`
}

// Background configures the sampler.
type Background struct {
	Root       string `toml:"root"`
	Grayscale  bool   `toml:"grayscale"`
	MaxRetries int    `toml:"max_retries"`
}

// Crop is the size crops are resized to.
type Crop struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Collage configures grid composition.
type Collage struct {
	Margin int    `toml:"margin"`
	Fill   string `toml:"fill"`
}

// Output configures where generated images go.
type Output struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

// Formats lists the supported output formats.
var Formats = []string{"png", "jpg", "bmp"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Background: Background{
			MaxRetries: background.DefaultMaxRetries,
		},
		Crop:    Crop{Width: 128, Height: 256},
		Collage: Collage{Margin: imaging.DefaultMargin, Fill: "#ffffff"},
		Output:  Output{Dir: ".", Format: "png"},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Background.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("background.max_retries must be at least 1, got %d", c.Background.MaxRetries))
	}
	if c.Crop.Width <= 0 || c.Crop.Height <= 0 {
		errs = append(errs, fmt.Errorf("crop size must be positive, got %dx%d", c.Crop.Width, c.Crop.Height))
	}
	if c.Collage.Margin < 0 {
		errs = append(errs, fmt.Errorf("collage.margin must not be negative, got %d", c.Collage.Margin))
	}
	if _, err := imaging.ParseFill(c.Collage.Fill); err != nil {
		errs = append(errs, fmt.Errorf("collage.fill: %w", err))
	}
	if !validFormat(c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Output.Format))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level, or info when it cannot be parsed.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
