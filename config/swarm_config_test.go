package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultSwarmConfigIsValid(t *testing.T) {
	if err := DefaultSwarmConfig().Validate(); err != nil {
		t.Errorf("DefaultSwarmConfig().Validate() = %v, want nil", err)
	}
}

func TestLoadSwarmConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
backend: terminal
tick_rate: 30
store:
  growth_increment: 16
  max_capacity: 256
sprite:
  size: [0.5, 0.5]
  uv_origin: [0.25, 0]
  uv_extent: [0.25, 0.25]
swarm:
  initial_agents: 100
  alignment: 0.1
  seed: 42
camera:
  follow: false
`)

	cfg, err := LoadSwarmConfig(path)
	if err != nil {
		t.Fatalf("LoadSwarmConfig() error = %v", err)
	}

	def := DefaultSwarmConfig()
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"backend", cfg.Backend, BackendTerminal},
		{"tick_rate", cfg.TickRate, 30},
		{"growth_increment", cfg.Store.GrowthIncrement, 16},
		{"max_capacity", cfg.Store.MaxCapacity, 256},
		{"sprite size", cfg.Sprite.Size, [2]float32{0.5, 0.5}},
		{"uv origin", cfg.Sprite.UVOrigin, [2]float32{0.25, 0}},
		{"initial_agents", cfg.Swarm.InitialAgents, 100},
		{"alignment", cfg.Swarm.Alignment, float32(0.1)},
		{"seed", cfg.Swarm.Seed, uint64(42)},
		{"follow", cfg.Camera.Follow, false},
		{"untouched separation", cfg.Swarm.Separation, def.Swarm.Separation},
		{"untouched window", cfg.Window, def.Window},
		{"untouched half height", cfg.Camera.HalfHeight, def.Camera.HalfHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadSwarmConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg []string
	}{
		{
			name:    "malformed yaml",
			content: "backend: [wgpu",
			wantMsg: []string{"failed to parse swarm config"},
		},
		{
			name:    "unknown backend",
			content: "backend: vulkan",
			wantMsg: []string{"invalid swarm config", `got "vulkan"`},
		},
		{
			name: "collects every problem",
			content: `
tick_rate: 0
store:
  growth_increment: -1
camera:
  zoom: 0
`,
			wantMsg: []string{"tick_rate must be positive", "store.growth_increment must be positive", "camera.zoom must be positive"},
		},
		{
			name: "initial agents above ceiling",
			content: `
store:
  max_capacity: 10
swarm:
  initial_agents: 11
`,
			wantMsg: []string{"exceeds store.max_capacity"},
		},
		{
			name: "partial last increment above ceiling",
			content: `
store:
  growth_increment: 64
  max_capacity: 100
swarm:
  initial_agents: 80
`,
			wantMsg: []string{"needs capacity 128 in increments of 64", "exceeds store.max_capacity 100"},
		},
		{
			name: "window below minimum",
			content: `
window:
  width: 100
  height: 100
`,
			wantMsg: []string{"window size 100x100 is outside limits"},
		},
		{
			name: "inverted window limits",
			content: `
window:
  min_width: 800
  max_width: 640
`,
			wantMsg: []string{"window limits must satisfy"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSwarmConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadSwarmConfig() error = nil, want error")
			}
			for _, want := range tt.wantMsg {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err, want)
				}
			}
		})
	}
}

func TestValidateCapacityInWholeIncrements(t *testing.T) {
	tests := []struct {
		name        string
		increment   int
		maxCapacity int
		agents      int
		wantErr     bool
	}{
		{name: "unbounded", increment: 64, maxCapacity: 0, agents: 1000},
		{name: "exact increments", increment: 64, maxCapacity: 128, agents: 128},
		{name: "partial increment fits", increment: 64, maxCapacity: 128, agents: 65},
		{name: "partial increment over ceiling", increment: 64, maxCapacity: 100, agents: 65, wantErr: true},
		{name: "first increment over ceiling", increment: 64, maxCapacity: 32, agents: 1, wantErr: true},
		{name: "no agents", increment: 64, maxCapacity: 32, agents: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSwarmConfig()
			cfg.Store.GrowthIncrement = tt.increment
			cfg.Store.MaxCapacity = tt.maxCapacity
			cfg.Swarm.InitialAgents = tt.agents
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSwarmConfigMissingFile(t *testing.T) {
	_, err := LoadSwarmConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadSwarmConfig() error = %v, want fs.ErrNotExist", err)
	}
	if err != nil && !strings.Contains(err.Error(), "failed to read swarm config") {
		t.Errorf("error %q missing read prefix", err)
	}
}
