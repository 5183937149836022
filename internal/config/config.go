// Package config provides configuration management for graphlens.
//
// Everything tunable about the rendered graph lives here: the visual
// ranges the scales map into, the opacity tiers, the force magnitudes,
// the zoom extent, and the serving/storage settings.
//
// Config file locations (priority order):
//  1. $GRAPHLENS_CONFIG
//  2. ./graphlens.yaml
//  3. ~/.config/graphlens/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxPaletteSize caps the ordinal color palette. More distinct groups
// than this simply wrap around.
const MaxPaletteSize = 20

// Config is the full application configuration.
type Config struct {
	Addr        string         `yaml:"addr"`
	Database    DatabaseConfig `yaml:"database"`
	DatasetPath string         `yaml:"dataset_path"`

	Canvas CanvasConfig `yaml:"canvas"`
	Visual VisualConfig `yaml:"visual"`
	Forces ForceConfig  `yaml:"forces"`
	Zoom   ZoomConfig   `yaml:"zoom"`
}

// DatabaseConfig points at the dataset store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CanvasConfig sets the logical drawing area; its center anchors the
// centering force.
type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// VisualConfig holds the ranges and tiers the scale engine and the
// projection map values into.
type VisualConfig struct {
	MinNodeSize  float64 `yaml:"min_node_size"`
	MaxNodeSize  float64 `yaml:"max_node_size"`
	MinLinkWidth float64 `yaml:"min_link_width"`
	MaxLinkWidth float64 `yaml:"max_link_width"`
	LabelOffset  float64 `yaml:"label_offset"`

	DefaultLinkOpacity float64 `yaml:"default_link_opacity"`
	HighlightOpacity   float64 `yaml:"highlight_opacity"`
	FadedOpacity       float64 `yaml:"faded_opacity"`
	LegendOpacity      float64 `yaml:"legend_opacity"`

	Colors []string `yaml:"colors"`
}

// ForceConfig holds the simulation constants.
type ForceConfig struct {
	NodeCharge       float64  `yaml:"node_charge"`
	LinkStrength     float64  `yaml:"link_strength"`
	LinkDistance     float64  `yaml:"link_distance"`
	CollisionPadding float64  `yaml:"collision_padding"`
	SimulationAlpha  float64  `yaml:"simulation_alpha"`
	TickInterval     Duration `yaml:"tick_interval"`
}

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// ZoomConfig bounds the viewport scale.
type ZoomConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := findConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./graphlens.db"
	}
	if c.Canvas.Width == 0 {
		c.Canvas.Width = 960
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = 600
	}

	if c.Visual.MinNodeSize == 0 {
		c.Visual.MinNodeSize = 5
	}
	if c.Visual.MaxNodeSize == 0 {
		c.Visual.MaxNodeSize = 25
	}
	if c.Visual.MinLinkWidth == 0 {
		c.Visual.MinLinkWidth = 1
	}
	if c.Visual.MaxLinkWidth == 0 {
		c.Visual.MaxLinkWidth = 8
	}
	if c.Visual.LabelOffset == 0 {
		c.Visual.LabelOffset = 6
	}
	if c.Visual.DefaultLinkOpacity == 0 {
		c.Visual.DefaultLinkOpacity = 0.6
	}
	if c.Visual.HighlightOpacity == 0 {
		c.Visual.HighlightOpacity = 1.0
	}
	if c.Visual.FadedOpacity == 0 {
		c.Visual.FadedOpacity = 0.1
	}
	if c.Visual.LegendOpacity == 0 {
		c.Visual.LegendOpacity = 1.0
	}
	if len(c.Visual.Colors) == 0 {
		c.Visual.Colors = defaultPalette()
	}

	if c.Forces.NodeCharge == 0 {
		c.Forces.NodeCharge = -120
	}
	if c.Forces.LinkStrength == 0 {
		c.Forces.LinkStrength = 0.1
	}
	if c.Forces.LinkDistance == 0 {
		c.Forces.LinkDistance = 40
	}
	if c.Forces.CollisionPadding == 0 {
		c.Forces.CollisionPadding = 2
	}
	if c.Forces.SimulationAlpha == 0 {
		c.Forces.SimulationAlpha = 0.3
	}
	if c.Forces.TickInterval == 0 {
		c.Forces.TickInterval = Duration(16 * time.Millisecond)
	}

	if c.Zoom.Min == 0 {
		c.Zoom.Min = 0.25
	}
	if c.Zoom.Max == 0 {
		c.Zoom.Max = 4
	}
}

// Validate rejects configurations the engine cannot serve.
func (c *Config) Validate() error {
	if len(c.Visual.Colors) > MaxPaletteSize {
		return fmt.Errorf("palette has %d colors, maximum is %d", len(c.Visual.Colors), MaxPaletteSize)
	}
	if c.Visual.MinNodeSize >= c.Visual.MaxNodeSize {
		return fmt.Errorf("min_node_size must be below max_node_size")
	}
	if c.Visual.MinLinkWidth >= c.Visual.MaxLinkWidth {
		return fmt.Errorf("min_link_width must be below max_link_width")
	}
	if c.Zoom.Min >= c.Zoom.Max {
		return fmt.Errorf("zoom min must be below zoom max")
	}
	if c.Zoom.Min <= 0 {
		return fmt.Errorf("zoom min must be positive")
	}
	if c.Forces.NodeCharge >= 0 {
		return fmt.Errorf("node_charge must be negative (repulsive)")
	}
	if c.Forces.SimulationAlpha <= 0 || c.Forces.SimulationAlpha >= 1 {
		return fmt.Errorf("simulation_alpha must be in (0, 1)")
	}
	return nil
}

// findConfigPath returns the first existing config file path.
func findConfigPath() string {
	if env := os.Getenv("GRAPHLENS_CONFIG"); env != "" {
		return env
	}

	candidates := []string{"./graphlens.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "graphlens", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// defaultPalette is the classic 20-color categorical scheme.
func defaultPalette() []string {
	return []string{
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
		"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
		"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
		"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
	}
}
