package main

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/config"
	"github.com/Carmen-Shannon/oxy-swarm/engine"
	"github.com/Carmen-Shannon/oxy-swarm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-swarm/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// runWGPU renders through the native window and the WebGPU sprite pass. Must run on the main goroutine.
func runWGPU(cfg config.SwarmConfig, atlas common.TextureStagingData) error {
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithSizeLimits(cfg.Window.MinWidth, cfg.Window.MinHeight, cfg.Window.MaxWidth, cfg.Window.MaxHeight),
	)

	cam := newCamera(cfg, float32(win.Width())/float32(max(win.Height(), 1)))
	batch := renderer.NewSpriteBatch("swarm_sprites")
	a, err := newApp(cfg, cam, batch, engine.WithWindow(win))
	if err != nil {
		return err
	}
	defer a.shutdown()

	presentMode := renderer.PresentModeUncapped
	if cfg.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithClearColor(wgpu.Color{R: 0.02, G: 0.02, B: 0.05, A: 1}),
	)
	defer r.Release()

	pass, err := renderer.NewSpritePass(r, batch, cam, atlas, common.SamplerStagingData{})
	if err != nil {
		return fmt.Errorf("failed to create sprite pass: %w", err)
	}
	defer pass.Release()

	var renderErrors atomic.Int64
	a.engine.OnResize(r.Resize)
	a.engine.SetRenderCallback(func(float32) {
		if err := pass.Render(r); err != nil {
			// surface loss during resize is transient; log the first few only
			if renderErrors.Add(1) <= 5 {
				log.Printf("[Swarm] render: %v", err)
			}
		}
	})

	bindWindowInput(a, win)
	log.Printf("[Swarm] wgpu backend: %d agents, %dx%d", a.swarm.Count(), cfg.Window.Width, cfg.Window.Height)
	a.engine.Run()
	return nil
}

// bindWindowInput maps GLFW keys, wheel and middle-drag onto the app.
func bindWindowInput(a *app, win window.Window) {
	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyEsc:
			a.engine.Quit()
		case common.KeySpace:
			a.togglePause()
		case common.KeyA:
			a.request(addAgent)
		case common.KeyD:
			a.request(removeAgent)
		case common.KeyEqual:
			a.zoom(1)
		case common.KeyMinus:
			a.zoom(-1)
		case common.KeyF:
			a.follow()
		}
	})
	win.SetScrollCallback(func(delta float32) {
		a.zoom(delta)
	})
	win.SetDragCallback(func(dx, dy float32) {
		a.pan(dx, dy, win.Height())
	})
}
