// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lox/ctaridership/internal/chart"
)

// Config holds settings that are awkward to pass as flags.
type Config struct {
	// QueryTimeout bounds each store query. Zero disables the bound.
	QueryTimeout time.Duration `yaml:"query_timeout" validate:"gte=0"`
	Chart        ChartConfig   `yaml:"chart"`
}

type ChartConfig struct {
	Width     int    `yaml:"width" validate:"min=200,max=4000"`
	Height    int    `yaml:"height" validate:"min=150,max=4000"`
	OutputDir string `yaml:"output_dir" validate:"required"`
	// MapImage is an optional PNG drawn behind the station map.
	MapImage  string       `yaml:"map_image"`
	MapExtent chart.Extent `yaml:"map_extent"`
	// LineColors overrides the built in CTA palette, keyed by lower case line name.
	LineColors map[string]string `yaml:"line_colors" validate:"omitempty,dive,keys,required,endkeys,hexcolor"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		QueryTimeout: 30 * time.Second,
		Chart: ChartConfig{
			Width:     chart.DefaultSize.Width,
			Height:    chart.DefaultSize.Height,
			OutputDir: "charts",
			MapExtent: chart.ChicagoExtent,
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// ChartSize returns the configured output size.
func (c *Config) ChartSize() chart.Size {
	return chart.Size{Width: c.Chart.Width, Height: c.Chart.Height}
}
