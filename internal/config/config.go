// Package config loads simulation sessions from YAML or TOML files and turns
// them into a body set.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/erisim/internal/astro"
	"github.com/san-kum/erisim/internal/celestial"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1.0 / 60.0
	DefaultDuration    = 60.0
	DefaultSampleEvery = 1
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrUnknownParent = errors.New("config: orbit parent not declared before body")
	ErrUnknownFormat = errors.New("config: unsupported file extension")
)

type Config struct {
	Name        string          `yaml:"name" toml:"name"`
	Dt          float64         `yaml:"dt" toml:"dt"`
	Duration    float64         `yaml:"duration" toml:"duration"`
	SampleEvery int             `yaml:"sample_every" toml:"sample_every"`
	Constants   astro.Constants `yaml:"constants" toml:"constants"`
	Logging     LoggingConfig   `yaml:"logging" toml:"logging"`
	Bodies      []BodyConfig    `yaml:"bodies" toml:"bodies"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // console or json
}

// BodyConfig describes one body. When Orbit is set the body is seeded on a
// circular orbit around Orbit.Parent and Velocity is added on top.
type BodyConfig struct {
	Name     string       `yaml:"name" toml:"name"`
	Mass     float64      `yaml:"mass" toml:"mass"`
	Radius   float64      `yaml:"radius" toml:"radius"`
	Position [3]float64   `yaml:"position" toml:"position"`
	Velocity [3]float64   `yaml:"velocity" toml:"velocity"`
	Spin     *SpinConfig  `yaml:"spin,omitempty" toml:"spin,omitempty"`
	Orbit    *OrbitConfig `yaml:"orbit,omitempty" toml:"orbit,omitempty"`
}

type SpinConfig struct {
	Axis [3]float64 `yaml:"axis" toml:"axis"`
	Rate float64    `yaml:"rate" toml:"rate"`
}

type OrbitConfig struct {
	Parent string `yaml:"parent" toml:"parent"`
	// Normal of the orbital plane; zero means +Y.
	Normal [3]float64 `yaml:"normal" toml:"normal"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "session",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
		Constants:   astro.DefaultConstants(),
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch format(path) {
	case "toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)

	switch format(path) {
	case "toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	case "yaml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must not be negative", ErrInvalidConfig)
	}
	if err := c.Constants.Validate(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Logging.Format)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidConfig)
	}

	declared := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body %d has no name", ErrInvalidConfig, i)
		}
		if declared[b.Name] {
			return fmt.Errorf("%w: duplicate body name %q", ErrInvalidConfig, b.Name)
		}
		if b.Orbit != nil && !declared[b.Orbit.Parent] {
			return fmt.Errorf("%w: %q orbits %q", ErrUnknownParent, b.Name, b.Orbit.Parent)
		}
		declared[b.Name] = true
	}
	return nil
}

// Build validates the configuration and constructs the body set. Ids follow
// declaration order.
func Build(c *Config) ([]*celestial.Body, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	bodies := make([]*celestial.Body, 0, len(c.Bodies))
	byName := make(map[string]*celestial.Body, len(c.Bodies))

	for i, bc := range c.Bodies {
		params := celestial.Params{
			Name:     bc.Name,
			Mass:     bc.Mass,
			Radius:   bc.Radius,
			Position: mgl64.Vec3(bc.Position),
			Velocity: mgl64.Vec3(bc.Velocity),
		}
		if bc.Spin != nil {
			params.SpinAxis = mgl64.Vec3(bc.Spin.Axis)
			params.SpinRate = bc.Spin.Rate
		}

		if bc.Orbit != nil {
			parent := byName[bc.Orbit.Parent]
			normal := mgl64.Vec3(bc.Orbit.Normal)
			if normal == (mgl64.Vec3{}) {
				normal = mgl64.Vec3{0, 1, 0}
			}
			v, err := c.Constants.OrbitVelocity(parent, parent.Position(), parent.Velocity(), params.Position, normal)
			if err != nil {
				return nil, fmt.Errorf("body %q: %w", bc.Name, err)
			}
			params.Velocity = params.Velocity.Add(v)
		}

		b, err := celestial.New(i, params)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
		byName[bc.Name] = b
	}
	return bodies, nil
}
