package ebitenview

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
	"github.com/Carmen-Shannon/oxy-swarm/engine/sprite"
	"github.com/hajimehoshi/ebiten/v2"
)

// MaxSpritesPerDraw is the largest sprite count one DrawTriangles call can address with uint16 indices.
const MaxSpritesPerDraw = (1 << 16) / 4

// drawChunk is one DrawTriangles call worth of vertices and rebased indices.
type drawChunk struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

// Sink mirrors a sprite store into ebiten vertex batches. Flush stages copies; Draw projects them
// through the camera and issues one DrawTriangles per chunk against the atlas image.
type Sink struct {
	mu  *sync.Mutex
	cam camera.Camera

	spritesPerDraw int
	options        *ebiten.DrawTrianglesOptions

	positions [][3]float32
	uvs       [][2]float32
	indices   []uint32

	replaceCalls int
	chunks       []drawChunk
}

var _ sprite.MeshSink = &Sink{}

// NewSink creates an ebiten sink projecting through cam.
//
// Parameters:
//   - cam: the camera used to map world space to screen pixels
//   - options: functional options
//
// Returns:
//   - *Sink: the sink
func NewSink(cam camera.Camera, options ...SinkBuilderOption) *Sink {
	s := &Sink{
		mu:             &sync.Mutex{},
		cam:            cam,
		spritesPerDraw: MaxSpritesPerDraw,
		options:        &ebiten.DrawTrianglesOptions{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Sink) ReplaceVertices(vertices [][3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append(s.positions[:0], vertices...)
	s.replaceCalls++
}

func (s *Sink) ReplaceTriangles(triangles []uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices = append(s.indices[:0], triangles...)
	s.replaceCalls++
}

func (s *Sink) ReplaceUVs(uvs [][2]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uvs = append(s.uvs[:0], uvs...)
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

// Draw renders the staged sprites onto screen, sampling atlas.
//
// Parameters:
//   - screen: the target image
//   - atlas: the sprite atlas
func (s *Sink) Draw(screen, atlas *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	aw, ah := atlas.Bounds().Dx(), atlas.Bounds().Dy()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.buildChunks(w, h, aw, ah) {
		screen.DrawTriangles(c.vertices, c.indices, atlas, s.options)
	}
}

// buildChunks projects staged quads to pixel space and splits the index list into uint16-addressable
// chunks. Chunk storage is reused between frames. Caller must hold s.mu.
func (s *Sink) buildChunks(w, h, atlasW, atlasH int) []drawChunk {
	slots := min(len(s.positions)/4, len(s.uvs)/4, len(s.indices)/6)
	nChunks := (slots + s.spritesPerDraw - 1) / s.spritesPerDraw
	for len(s.chunks) < nChunks {
		s.chunks = append(s.chunks, drawChunk{})
	}
	chunks := s.chunks[:nChunks]

	for ci := range chunks {
		first := ci * s.spritesPerDraw
		last := min(first+s.spritesPerDraw, slots)
		c := &chunks[ci]
		c.vertices = c.vertices[:0]
		c.indices = c.indices[:0]

		base := uint32(first * 4)
		for v := first * 4; v < last*4; v++ {
			p, uv := s.positions[v], s.uvs[v]
			dx, dy := s.cam.WorldToScreen(p[0], p[1], w, h)
			c.vertices = append(c.vertices, ebiten.Vertex{
				DstX:   dx,
				DstY:   dy,
				SrcX:   uv[0] * float32(atlasW),
				SrcY:   (1 - uv[1]) * float32(atlasH),
				ColorR: 1,
				ColorG: 1,
				ColorB: 1,
				ColorA: 1,
			})
		}
		for _, idx := range s.indices[first*6 : last*6] {
			c.indices = append(c.indices, uint16(idx-base))
		}
	}
	return chunks
}

// Game adapts an engine tick function and a Sink to ebiten.Game. ebiten owns the loop:
// Update advances the simulation one fixed step and Draw renders the staged sprites.
type Game struct {
	sink  *Sink
	atlas *ebiten.Image

	tick     func(dt float32)
	onUpdate func() error
	onResize func(width, height int)

	width, height int
}

var _ ebiten.Game = &Game{}

// NewGame creates the ebiten adapter.
//
// Parameters:
//   - sink: the sink attached to the sprite store
//   - atlas: the atlas image
//   - tick: the simulation step, called once per Update with 1/TPS seconds
//   - options: functional options
//
// Returns:
//   - *Game: the game
func NewGame(sink *Sink, atlas *ebiten.Image, tick func(dt float32), options ...GameBuilderOption) *Game {
	g := &Game{sink: sink, atlas: atlas, tick: tick}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *Game) Update() error {
	if g.onUpdate != nil {
		if err := g.onUpdate(); err != nil {
			return err
		}
	}
	if g.tick != nil {
		g.tick(1 / float32(ebiten.TPS()))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.sink.Draw(screen, g.atlas)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		if outsideHeight > 0 {
			g.sink.cam.SetAspect(float32(outsideWidth) / float32(outsideHeight))
		}
		if g.onResize != nil {
			g.onResize(outsideWidth, outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}
