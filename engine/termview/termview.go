package termview

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
	"github.com/Carmen-Shannon/oxy-swarm/engine/sprite"
	"github.com/gdamore/tcell/v2"
)

// CellAspect is the width/height ratio of one terminal cell.
const CellAspect = 0.5

// Density glyphs, indexed by sprites per cell (capped at 3).
var densityGlyphs = [4]rune{' ', '·', '*', '#'}

// Sink draws a sprite store on a terminal: every live quad is reduced to its centroid, projected
// through the camera to a cell, and cells are drawn by how many sprites landed in them.
type Sink struct {
	mu *sync.Mutex

	screen tcell.Screen
	cam    camera.Camera
	style  tcell.Style
	status func() string

	vertices     [][3]float32
	replaceCalls int
	counts       map[[2]int]int
}

var _ sprite.MeshSink = &Sink{}

// NewSink creates a terminal sink drawing to screen through cam. The screen must be initialized.
// The camera aspect is matched to the screen size immediately.
//
// Parameters:
//   - screen: an initialized tcell screen
//   - cam: the camera to project with
//   - options: functional options
//
// Returns:
//   - *Sink: the sink
func NewSink(screen tcell.Screen, cam camera.Camera, options ...SinkBuilderOption) *Sink {
	s := &Sink{
		mu:     &sync.Mutex{},
		screen: screen,
		cam:    cam,
		style:  tcell.StyleDefault.Foreground(tcell.ColorGreen),
		counts: make(map[[2]int]int),
	}
	for _, opt := range options {
		opt(s)
	}
	s.Resize()
	return s
}

func (s *Sink) ReplaceVertices(vertices [][3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vertices = append(s.vertices[:0], vertices...)
	s.replaceCalls++
}

// ReplaceTriangles only counts the call: every 4 vertices form one quad.
func (s *Sink) ReplaceTriangles([]uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceCalls++
}

// ReplaceUVs only counts the call: terminals have no atlas.
func (s *Sink) ReplaceUVs([][2]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceCalls++
}

// ReplaceCalls returns the number of replace calls received from the store.
//
// Returns:
//   - int: the count
func (s *Sink) ReplaceCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceCalls
}

// Resize matches the camera aspect to the current screen size in cells.
func (s *Sink) Resize() {
	w, h := s.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	s.cam.SetAspect(float32(w) * CellAspect / float32(h))
}

// Draw renders the staged quads and shows the screen. Call it from the render loop.
func (s *Sink) Draw() {
	w, h := s.screen.Size()

	s.mu.Lock()
	clear(s.counts)
	for i := 0; i+3 < len(s.vertices); i += 4 {
		q := s.vertices[i : i+4]
		if q[0] == q[1] && q[1] == q[2] && q[2] == q[3] {
			// released or never-allocated slot
			continue
		}
		cx := (q[0][0] + q[1][0] + q[2][0] + q[3][0]) / 4
		cy := (q[0][1] + q[1][1] + q[2][1] + q[3][1]) / 4
		sx, sy := s.cam.WorldToScreen(cx, cy, w, h)
		col, row := int(math.Floor(float64(sx))), int(math.Floor(float64(sy)))
		if col < 0 || col >= w || row < 0 || row >= h {
			continue
		}
		s.counts[[2]int{col, row}]++
	}
	status := s.status
	s.screen.Clear()
	for cell, n := range s.counts {
		s.screen.SetContent(cell[0], cell[1], densityGlyphs[min(n, 3)], nil, s.style)
	}
	s.mu.Unlock()

	if status != nil {
		col := 0
		for _, r := range status() {
			if col >= w {
				break
			}
			s.screen.SetContent(col, 0, r, nil, tcell.StyleDefault.Reverse(true))
			col++
		}
	}
	s.screen.Show()
}

// PollEvents forwards key events to onKey and handles resizes until the screen is finalized.
// Run it on its own goroutine; it returns when PollEvent yields nil (after Fini).
//
// Parameters:
//   - onKey: the key handler
func (s *Sink) PollEvents(onKey func(ev *tcell.EventKey)) {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if onKey != nil {
				onKey(ev)
			}
		case *tcell.EventResize:
			s.screen.Sync()
			s.Resize()
		}
	}
}
