// Package config loads and saves the YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"foam-sizer/pkg/geometry"

	"gopkg.in/yaml.v3"
)

const (
	appDir     = "foam-sizer"
	configFile = "config.yaml"
)

type StageConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TracerConfig names an external contour tracer. An empty command traces
// in process with OpenCV.
type TracerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

type RasterConfig struct {
	Backend string `yaml:"backend"`
}

type SymmetryConfig struct {
	SearchRadius int `yaml:"search_radius"`
}

// Config is the contents of config.yaml.
type Config struct {
	BaseDir            string         `yaml:"base_dir"`
	PropertiesTemplate string         `yaml:"properties_template,omitempty"`
	Stage              StageConfig    `yaml:"stage"`
	Tracer             TracerConfig   `yaml:"tracer"`
	Raster             RasterConfig   `yaml:"raster"`
	Symmetry           SymmetryConfig `yaml:"symmetry"`
	LogDir             string         `yaml:"log_dir,omitempty"`
	Debug              bool           `yaml:"debug"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	base := "foamsizer"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, "foamsizer")
	}
	return Config{
		BaseDir:  base,
		Stage:    StageConfig{Width: 700, Height: 700},
		Raster:   RasterConfig{Backend: "opencv"},
		Symmetry: SymmetryConfig{SearchRadius: 200},
	}
}

// DefaultPath is config.yaml under the user config directory.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, configFile)
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config.load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config.load %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config.load %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config.save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config.save: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Stage.Width <= 0 || c.Stage.Height <= 0 {
		errs = append(errs, fmt.Errorf("stage must have a positive size, got %vx%v", c.Stage.Width, c.Stage.Height))
	}
	if c.Symmetry.SearchRadius <= 0 {
		errs = append(errs, fmt.Errorf("symmetry.search_radius must be positive, got %d", c.Symmetry.SearchRadius))
	}
	if c.BaseDir == "" {
		errs = append(errs, errors.New("base_dir is required"))
	}
	return errors.Join(errs...)
}

func (c Config) StageSize() geometry.Size {
	return geometry.NewSize(c.Stage.Width, c.Stage.Height)
}
