package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFidelity     = 120
	DefaultZoomMin      = 5.0
	DefaultZoomMax      = 250.0
	DefaultRenderScale  = 0.5
	DefaultHueMin       = 90
	DefaultHueMax       = 360
	DefaultSaturation   = 1.0
	DefaultLightness    = 0.5
	DefaultInSetColor   = "#000000"
	DefaultBackend      = "auto"
	DefaultRayStep      = 0.01
	DefaultMaxAttempts  = 100000
	DefaultMaxRounds    = 3
	DefaultOutputWidth  = 3840
	DefaultOutputHeight = 2160
	DefaultOutputDir    = "out"
	DefaultDevDir       = "dev"
)

type Config struct {
	Fidelity       int          `yaml:"fidelity" toml:"fidelity"`
	Zoom           RangeConfig  `yaml:"zoom" toml:"zoom"`
	RenderScale    float64      `yaml:"render_scale" toml:"render_scale"`
	Hue            HueConfig    `yaml:"hue" toml:"hue"`
	Saturation     float64      `yaml:"saturation" toml:"saturation"`
	Lightness      float64      `yaml:"lightness" toml:"lightness"`
	InSetColor     string       `yaml:"in_set_color" toml:"in_set_color"`
	Backend        string       `yaml:"backend" toml:"backend"`
	ModeFill       bool         `yaml:"mode_fill" toml:"mode_fill"`
	CompactPalette bool         `yaml:"compact_palette" toml:"compact_palette"`
	Seed           int64        `yaml:"seed" toml:"seed"`
	Origin         OriginConfig `yaml:"origin" toml:"origin"`
	Output         OutputConfig `yaml:"output" toml:"output"`
}

type RangeConfig struct {
	Min float64 `yaml:"min" toml:"min"`
	Max float64 `yaml:"max" toml:"max"`
}

type HueConfig struct {
	Min int `yaml:"min" toml:"min"`
	Max int `yaml:"max" toml:"max"`
}

type OriginConfig struct {
	// Fidelity used for the in-set test while searching; 0 means the render fidelity.
	Fidelity    int          `yaml:"fidelity" toml:"fidelity"`
	RayStep     float64      `yaml:"ray_step" toml:"ray_step"`
	MaxAttempts int          `yaml:"max_attempts" toml:"max_attempts"`
	MaxRounds   int          `yaml:"max_rounds" toml:"max_rounds"`
	Prior       RegionConfig `yaml:"prior" toml:"prior"`
}

type RegionConfig struct {
	XMin float64 `yaml:"x_min" toml:"x_min"`
	XMax float64 `yaml:"x_max" toml:"x_max"`
	YMin float64 `yaml:"y_min" toml:"y_min"`
	YMax float64 `yaml:"y_max" toml:"y_max"`
}

type OutputConfig struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Dir    string `yaml:"dir" toml:"dir"`
	DevDir string `yaml:"dev_dir" toml:"dev_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Fidelity:    DefaultFidelity,
		Zoom:        RangeConfig{Min: DefaultZoomMin, Max: DefaultZoomMax},
		RenderScale: DefaultRenderScale,
		Hue:         HueConfig{Min: DefaultHueMin, Max: DefaultHueMax},
		Saturation:  DefaultSaturation,
		Lightness:   DefaultLightness,
		InSetColor:  DefaultInSetColor,
		Backend:     DefaultBackend,
		Origin: OriginConfig{
			RayStep:     DefaultRayStep,
			MaxAttempts: DefaultMaxAttempts,
			MaxRounds:   DefaultMaxRounds,
			Prior:       RegionConfig{XMin: -3, XMax: 1, YMin: -1.5, YMax: 1.5},
		},
		Output: OutputConfig{
			Width:  DefaultOutputWidth,
			Height: DefaultOutputHeight,
			Dir:    DefaultOutputDir,
			DevDir: DefaultDevDir,
		},
	}
}

// Load reads a config file over the defaults. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes path over cfg, leaving keys the file omits untouched.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Clone returns a deep copy; Config holds no reference fields.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if c.Fidelity <= 0 {
		return fmt.Errorf("fidelity must be positive, got %d", c.Fidelity)
	}
	if !(c.Zoom.Min > 0) || c.Zoom.Max < c.Zoom.Min || math.IsInf(c.Zoom.Max, 0) {
		return fmt.Errorf("zoom range must satisfy 0 < min <= max, got [%v, %v]", c.Zoom.Min, c.Zoom.Max)
	}
	if !(c.RenderScale > 0) || c.RenderScale > 1 {
		return fmt.Errorf("render scale must be in (0, 1], got %v", c.RenderScale)
	}
	if c.Hue.Min < 0 || c.Hue.Max > 360 || c.Hue.Min > c.Hue.Max {
		return fmt.Errorf("hue range must satisfy 0 <= min <= max <= 360, got [%d, %d]", c.Hue.Min, c.Hue.Max)
	}
	if c.Saturation < 0 || c.Saturation > 1 || c.Lightness < 0 || c.Lightness > 1 {
		return fmt.Errorf("saturation and lightness must be in [0, 1], got %v/%v", c.Saturation, c.Lightness)
	}
	if _, err := colorful.Hex(c.InSetColor); err != nil {
		return fmt.Errorf("invalid in-set color %q: %w", c.InSetColor, err)
	}
	if !(c.Origin.RayStep > 0) {
		return fmt.Errorf("origin ray step must be positive, got %v", c.Origin.RayStep)
	}
	if c.Origin.MaxAttempts <= 0 || c.Origin.MaxRounds <= 0 {
		return fmt.Errorf("origin search needs positive attempts and rounds, got %d/%d", c.Origin.MaxAttempts, c.Origin.MaxRounds)
	}
	p := c.Origin.Prior
	if !(p.XMax > p.XMin) || !(p.YMax > p.YMin) {
		return fmt.Errorf("origin prior must have positive area, got %+v", p)
	}
	return nil
}
