// Package config loads the YAML run configuration of the swarm demo.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in the backend field.
const (
	BackendWGPU     = "wgpu"
	BackendEbiten   = "ebiten"
	BackendTerminal = "terminal"
)

// WindowConfig sizes the native window of the wgpu and ebiten backends.
// The min and max fields bound interactive resizing.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"min_width"`
	MinHeight int    `yaml:"min_height"`
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
}

// StoreConfig sizes the sprite store arena.
type StoreConfig struct {
	GrowthIncrement int `yaml:"growth_increment"`
	MaxCapacity     int `yaml:"max_capacity"` // 0 = unbounded
}

// SpriteConfig describes the quad every agent renders with.
type SpriteConfig struct {
	Size      [2]float32 `yaml:"size"`
	UVOrigin  [2]float32 `yaml:"uv_origin"`
	UVExtent  [2]float32 `yaml:"uv_extent"`
	AtlasPath string     `yaml:"atlas_path"` // empty = solid fallback atlas
}

// FlockConfig holds the flocking rule weights and agent counts.
type FlockConfig struct {
	InitialAgents  int     `yaml:"initial_agents"`
	InitialRadius  float32 `yaml:"initial_radius"`
	Separation     float32 `yaml:"separation"`
	ScalarToCenter float32 `yaml:"scalar_to_center"`
	Alignment      float32 `yaml:"alignment"`
	MaxSpeed       float32 `yaml:"max_speed"` // 0 = unbounded
	Workers        int     `yaml:"workers"`   // 0 = NumCPU-1
	Seed           uint64  `yaml:"seed"`
}

// CameraConfig controls the view.
type CameraConfig struct {
	HalfHeight float32 `yaml:"half_height"`
	Zoom       float32 `yaml:"zoom"`
	Follow     bool    `yaml:"follow"`
	FollowRate float32 `yaml:"follow_rate"` // 0 = snap
}

// SwarmConfig is the root of the YAML file.
type SwarmConfig struct {
	Window     WindowConfig `yaml:"window"`
	Backend    string       `yaml:"backend"`
	TickRate   int          `yaml:"tick_rate"`   // ticks per second
	FrameLimit int          `yaml:"frame_limit"` // 0 = uncapped render loop
	VSync      bool         `yaml:"vsync"`
	Profiling  bool         `yaml:"profiling"`
	Store      StoreConfig  `yaml:"store"`
	Sprite     SpriteConfig `yaml:"sprite"`
	Swarm      FlockConfig  `yaml:"swarm"`
	Camera     CameraConfig `yaml:"camera"`
}

// DefaultSwarmConfig returns the configuration used when no file is given.
// LoadSwarmConfig unmarshals over these values, so a file only needs the fields it changes.
//
// Returns:
//   - SwarmConfig: the defaults
func DefaultSwarmConfig() SwarmConfig {
	return SwarmConfig{
		Window: WindowConfig{
			Title:    "oxy-swarm",
			Width:    1280,
			Height:   720,
			MinWidth: 320, MinHeight: 240,
			MaxWidth: 3840, MaxHeight: 2160,
		},
		Backend:  BackendWGPU,
		TickRate: 60,
		VSync:    true,
		Store:    StoreConfig{GrowthIncrement: 64},
		Sprite: SpriteConfig{
			Size:     [2]float32{1, 1},
			UVExtent: [2]float32{1, 1},
		},
		Swarm: FlockConfig{
			InitialAgents:  30,
			InitialRadius:  10,
			Separation:     1,
			ScalarToCenter: 0.8,
			Seed:           1,
		},
		Camera: CameraConfig{HalfHeight: 20, Zoom: 1, Follow: true, FollowRate: 4},
	}
}

// LoadSwarmConfig reads and validates a YAML swarm configuration.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - SwarmConfig: the defaults overlaid with the file contents
//   - error: a read, parse or validation error
func LoadSwarmConfig(path string) (SwarmConfig, error) {
	cfg := DefaultSwarmConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read swarm config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse swarm config YAML from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid swarm config in %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks ranges and enumerations. All problems are reported together.
//
// Returns:
//   - error: the joined validation errors, or nil
func (c SwarmConfig) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendWGPU, BackendEbiten, BackendTerminal:
	default:
		errs = append(errs, fmt.Errorf("backend must be one of %s, %s, %s, got %q", BackendWGPU, BackendEbiten, BackendTerminal, c.Backend))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if w := c.Window; w.MinWidth <= 0 || w.MinHeight <= 0 || w.MinWidth > w.MaxWidth || w.MinHeight > w.MaxHeight {
		errs = append(errs, fmt.Errorf("window limits must satisfy 0 < min <= max, got min %dx%d max %dx%d", w.MinWidth, w.MinHeight, w.MaxWidth, w.MaxHeight))
	} else if w.Width < w.MinWidth || w.Height < w.MinHeight || w.Width > w.MaxWidth || w.Height > w.MaxHeight {
		errs = append(errs, fmt.Errorf("window size %dx%d is outside limits %dx%d to %dx%d", w.Width, w.Height, w.MinWidth, w.MinHeight, w.MaxWidth, w.MaxHeight))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.TickRate))
	}
	if c.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("frame_limit cannot be negative, got %d", c.FrameLimit))
	}

	if c.Store.GrowthIncrement <= 0 {
		errs = append(errs, fmt.Errorf("store.growth_increment must be positive, got %d", c.Store.GrowthIncrement))
	}
	if c.Store.MaxCapacity < 0 {
		errs = append(errs, fmt.Errorf("store.max_capacity cannot be negative, got %d", c.Store.MaxCapacity))
	}

	if c.Sprite.Size[0] < 0 || c.Sprite.Size[1] < 0 {
		errs = append(errs, fmt.Errorf("sprite.size cannot be negative, got %v", c.Sprite.Size))
	}
	if c.Sprite.UVExtent[0] < 0 || c.Sprite.UVExtent[1] < 0 {
		errs = append(errs, fmt.Errorf("sprite.uv_extent cannot be negative, got %v", c.Sprite.UVExtent))
	}

	if c.Swarm.InitialAgents < 0 {
		errs = append(errs, fmt.Errorf("swarm.initial_agents cannot be negative, got %d", c.Swarm.InitialAgents))
	}
	// the store grows a whole increment at a time, so the agents must fit in whole increments
	if c.Store.MaxCapacity > 0 && c.Store.GrowthIncrement > 0 {
		if need := requiredCapacity(c.Swarm.InitialAgents, c.Store.GrowthIncrement); need > c.Store.MaxCapacity {
			errs = append(errs, fmt.Errorf("swarm.initial_agents %d needs capacity %d in increments of %d, exceeds store.max_capacity %d",
				c.Swarm.InitialAgents, need, c.Store.GrowthIncrement, c.Store.MaxCapacity))
		}
	}
	if c.Swarm.InitialRadius < 0 || c.Swarm.Separation < 0 || c.Swarm.MaxSpeed < 0 {
		errs = append(errs, fmt.Errorf("swarm radius, separation and max_speed cannot be negative"))
	}
	if c.Swarm.Workers < 0 {
		errs = append(errs, fmt.Errorf("swarm.workers cannot be negative, got %d", c.Swarm.Workers))
	}

	if c.Camera.HalfHeight <= 0 {
		errs = append(errs, fmt.Errorf("camera.half_height must be positive, got %v", c.Camera.HalfHeight))
	}
	if c.Camera.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("camera.zoom must be positive, got %v", c.Camera.Zoom))
	}

	return errors.Join(errs...)
}

// requiredCapacity rounds agents up to a whole number of growth increments.
func requiredCapacity(agents, increment int) int {
	return (agents + increment - 1) / increment * increment
}
