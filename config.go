package feather2d

import (
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid world configuration")

// Config holds the tunables of a World. It is usually loaded from YAML:
//
//	gravity: [0, 981]
//	viewport: {width: 800, height: 600}
//	grid: {columns: 20, rows: 20}
//	correction: {percentage: 0.2, slop: 0.01}
type Config struct {
	// Gravity acceleration applied to every body that is not frozen
	Gravity [2]float64 `yaml:"gravity"`

	Viewport struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"viewport"`

	Grid struct {
		Columns int `yaml:"columns"`
		Rows    int `yaml:"rows"`
	} `yaml:"grid"`

	Correction struct {
		Percentage float64 `yaml:"percentage"`
		Slop       float64 `yaml:"slop"`
	} `yaml:"correction"`
}

// DefaultConfig returns a gravity-free 800x600 world with a 20x20 grid
func DefaultConfig() Config {
	var c Config
	c.Viewport.Width = 800
	c.Viewport.Height = 600
	c.Grid.Columns = 20
	c.Grid.Rows = 20
	c.Correction.Percentage = 0.2
	c.Correction.Slop = 0.01

	return c
}

// LoadConfig reads YAML on top of DefaultConfig. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decoding world configuration")
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadConfigFile reads the YAML file at path
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	config, err := LoadConfig(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}

	return config, nil
}

// Validate checks the ranges of every field
func (c Config) Validate() error {
	switch {
	case !(c.Viewport.Width > 0) || !(c.Viewport.Height > 0):
		return errors.Wrapf(ErrInvalidConfig, "viewport %vx%v", c.Viewport.Width, c.Viewport.Height)
	case c.Grid.Columns < 1 || c.Grid.Rows < 1:
		return errors.Wrapf(ErrInvalidConfig, "grid %dx%d", c.Grid.Columns, c.Grid.Rows)
	case !(c.Correction.Percentage > 0) || c.Correction.Percentage > 1:
		return errors.Wrapf(ErrInvalidConfig, "correction percentage %v not in (0,1]", c.Correction.Percentage)
	case !(c.Correction.Slop >= 0):
		return errors.Wrapf(ErrInvalidConfig, "negative slop %v", c.Correction.Slop)
	}

	return nil
}

func (c Config) gravity() mgl64.Vec2 {
	return mgl64.Vec2{c.Gravity[0], c.Gravity[1]}
}

func (c Config) extent() mgl64.Vec2 {
	return mgl64.Vec2{c.Viewport.Width, c.Viewport.Height}
}
