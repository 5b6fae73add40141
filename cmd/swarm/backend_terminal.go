package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-swarm/config"
	"github.com/Carmen-Shannon/oxy-swarm/engine/termview"
	"github.com/gdamore/tcell/v2"
)

const (
	// terminalFrameLimit caps terminal redraws when the config leaves the frame rate uncapped.
	terminalFrameLimit = 30
	// terminalLogFile receives log output while tcell owns the terminal.
	terminalLogFile = "swarm-terminal.log"
)

// runTerminal draws the swarm as density glyphs. The engine's ticker and render goroutines drive
// the simulation; a third goroutine polls terminal events.
func runTerminal(cfg config.SwarmConfig) error {
	logFile, err := os.Create(terminalLogFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", terminalLogFile, err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init terminal screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	if cfg.FrameLimit == 0 {
		cfg.FrameLimit = terminalFrameLimit
	}

	cam := newCamera(cfg, 1)
	var a *app
	sink := termview.NewSink(screen, cam, termview.WithStatusLine(func() string {
		if a == nil {
			return ""
		}
		return a.status()
	}))
	a, err = newApp(cfg, cam, sink)
	if err != nil {
		return err
	}
	defer a.shutdown()

	a.engine.SetRenderCallback(func(float32) { sink.Draw() })

	go sink.PollEvents(func(ev *tcell.EventKey) {
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			a.engine.Quit()
			return
		case tcell.KeyLeft:
			a.panBy(-1, 0)
			return
		case tcell.KeyRight:
			a.panBy(1, 0)
			return
		case tcell.KeyUp:
			a.panBy(0, 1)
			return
		case tcell.KeyDown:
			a.panBy(0, -1)
			return
		}
		switch ev.Rune() {
		case 'q':
			a.engine.Quit()
		case ' ':
			a.togglePause()
		case 'a':
			a.request(addAgent)
		case 'd':
			a.request(removeAgent)
		case '+', '=':
			a.zoom(1)
		case '-':
			a.zoom(-1)
		case 'f':
			a.follow()
		}
	})

	log.Printf("[Swarm] terminal backend: %d agents", a.swarm.Count())
	a.engine.Run()
	return nil
}
