package main

import (
	"errors"
	"log"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/config"
	"github.com/Carmen-Shannon/oxy-swarm/engine/ebitenview"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// runEbiten hands the loop to ebiten: every Update is one engine Step.
func runEbiten(cfg config.SwarmConfig, atlas common.TextureStagingData) error {
	cam := newCamera(cfg, float32(cfg.Window.Width)/float32(cfg.Window.Height))
	sink := ebitenview.NewSink(cam)
	a, err := newApp(cfg, cam, sink)
	if err != nil {
		return err
	}
	defer a.shutdown()

	var lastX, lastY int
	var height int
	game := ebitenview.NewGame(sink, ebiten.NewImageFromImage(atlas.RGBA()), a.engine.Step,
		ebitenview.WithUpdateHook(func() error {
			if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
				return ebiten.Termination
			}
			if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
				a.togglePause()
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyA) {
				a.request(addAgent)
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyD) {
				a.request(removeAgent)
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
				a.zoom(1)
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
				a.zoom(-1)
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyF) {
				a.follow()
			}
			if _, wy := ebiten.Wheel(); wy != 0 {
				a.zoom(float32(wy))
			}

			x, y := ebiten.CursorPosition()
			if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) && !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
				a.pan(float32(x-lastX), float32(y-lastY), height)
			}
			lastX, lastY = x, y
			return nil
		}),
		ebitenview.WithResizeHook(func(_, h int) { height = h }),
	)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(cfg.Window.MinWidth, cfg.Window.MinHeight, cfg.Window.MaxWidth, cfg.Window.MaxHeight)
	ebiten.SetTPS(cfg.TickRate)
	ebiten.SetVsyncEnabled(cfg.VSync)

	log.Printf("[Swarm] ebiten backend: %d agents", a.swarm.Count())
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
