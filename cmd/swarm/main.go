// Command swarm renders a flocking swarm through the batched sprite store on one of three
// backends: a native WebGPU window, an ebiten window, or the terminal.
package main

import (
	"flag"
	"image/color"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/config"
	"github.com/pkg/profile"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a swarm YAML config (defaults when empty)")
		backend    = flag.String("backend", "", "output backend: wgpu, ebiten or terminal (overrides config)")
		agents     = flag.Int("agents", -1, "initial agent count (overrides config)")
		cpuProfile = flag.Bool("cpuprofile", false, "write a CPU profile to the working directory")
		memProfile = flag.Bool("memprofile", false, "write an allocation profile to the working directory")
	)
	flag.Parse()

	cfg := config.DefaultSwarmConfig()
	if *configPath != "" {
		loaded, err := config.LoadSwarmConfig(*configPath)
		if err != nil {
			log.Fatalf("[Swarm] %v", err)
		}
		cfg = loaded
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *agents >= 0 {
		cfg.Swarm.InitialAgents = *agents
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Swarm] invalid configuration: %v", err)
	}

	if err := run(cfg, *cpuProfile, *memProfile); err != nil {
		log.Printf("[Swarm] %s backend: %v", cfg.Backend, err)
		os.Exit(1)
	}
}

// run starts the optional profiler and blocks on the configured backend until it exits.
func run(cfg config.SwarmConfig, cpuProfile, memProfile bool) error {
	switch {
	case cpuProfile:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case memProfile:
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	atlas, err := loadAtlas(cfg.Sprite.AtlasPath)
	if err != nil {
		return err
	}

	switch cfg.Backend {
	case config.BackendWGPU:
		return runWGPU(cfg, atlas)
	case config.BackendEbiten:
		return runEbiten(cfg, atlas)
	default:
		return runTerminal(cfg)
	}
}

// loadAtlas decodes the configured atlas, or builds a solid fallback when none is set.
func loadAtlas(path string) (common.TextureStagingData, error) {
	if path == "" {
		return common.SolidAtlas(8, color.RGBA{R: 255, G: 176, B: 64, A: 255}), nil
	}
	img := &common.AtlasImage{Path: path}
	return img.Decode()
}
