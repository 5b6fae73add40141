package ebitenview

import (
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
)

func stage(s *Sink, slots int) {
	var vertices [][3]float32
	var uvs [][2]float32
	var indices []uint32
	for i := range slots {
		x := float32(i) * 0.25
		vertices = append(vertices, [][3]float32{{x, 0, 0}, {x + 0.25, 0, 0}, {x + 0.25, 0.25, 0}, {x, 0.25, 0}}...)
		uvs = append(uvs, [][2]float32{{0, 0}, {0.5, 0}, {0.5, 0.5}, {0, 0.5}}...)
		v := uint32(i * 4)
		indices = append(indices, v, v+3, v+2, v, v+2, v+1)
	}
	s.ReplaceVertices(vertices)
	s.ReplaceTriangles(indices)
	s.ReplaceUVs(uvs)
}

func TestBuildChunks(t *testing.T) {
	tests := []struct {
		name           string
		slots          int
		spritesPerDraw int
		wantChunks     []int // sprites per chunk
	}{
		{name: "empty store draws nothing", slots: 0, spritesPerDraw: 2, wantChunks: nil},
		{name: "single chunk", slots: 2, spritesPerDraw: 4, wantChunks: []int{2}},
		{name: "split at chunk size", slots: 3, spritesPerDraw: 2, wantChunks: []int{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := camera.NewCamera(camera.WithHalfHeight(1), camera.WithAspect(1))
			s := NewSink(cam, WithSpritesPerDraw(tt.spritesPerDraw))
			stage(s, tt.slots)

			s.mu.Lock()
			chunks := s.buildChunks(100, 100, 64, 32)
			s.mu.Unlock()

			if len(chunks) != len(tt.wantChunks) {
				t.Fatalf("len(chunks) = %d, want %d", len(chunks), len(tt.wantChunks))
			}
			for i, n := range tt.wantChunks {
				if len(chunks[i].vertices) != n*4 || len(chunks[i].indices) != n*6 {
					t.Errorf("chunk %d sizes = %d/%d, want %d/%d", i, len(chunks[i].vertices), len(chunks[i].indices), n*4, n*6)
				}
				if !slices.Equal(chunks[i].indices[:6], []uint16{0, 3, 2, 0, 2, 1}) {
					t.Errorf("chunk %d first indices = %v, want rebased [0 3 2 0 2 1]", i, chunks[i].indices[:6])
				}
			}
		})
	}
}

func TestBuildChunksProjection(t *testing.T) {
	cam := camera.NewCamera(camera.WithHalfHeight(1), camera.WithAspect(1))
	s := NewSink(cam)
	stage(s, 1)

	s.mu.Lock()
	chunks := s.buildChunks(100, 100, 64, 32)
	s.mu.Unlock()

	v := chunks[0].vertices
	if v[0].DstX != 50 || v[0].DstY != 50 {
		t.Errorf("origin maps to (%v,%v), want (50,50)", v[0].DstX, v[0].DstY)
	}
	if v[2].DstX != 62.5 || v[2].DstY != 37.5 {
		t.Errorf("(0.25,0.25) maps to (%v,%v), want (62.5,37.5)", v[2].DstX, v[2].DstY)
	}
	if v[0].SrcX != 0 || v[0].SrcY != 32 {
		t.Errorf("uv (0,0) samples (%v,%v), want (0,32)", v[0].SrcX, v[0].SrcY)
	}
	if v[2].SrcX != 32 || v[2].SrcY != 16 {
		t.Errorf("uv (0.5,0.5) samples (%v,%v), want (32,16)", v[2].SrcX, v[2].SrcY)
	}
	if v[1].ColorA != 1 {
		t.Errorf("ColorA = %v, want 1", v[1].ColorA)
	}
}

func TestGameLayoutUpdatesCamera(t *testing.T) {
	cam := camera.NewCamera(camera.WithHalfHeight(1))
	var resized [2]int
	g := NewGame(NewSink(cam), nil, nil, WithResizeHook(func(w, h int) { resized = [2]int{w, h} }))

	w, h := g.Layout(400, 200)
	if w != 400 || h != 200 {
		t.Errorf("Layout() = %d,%d, want 400,200", w, h)
	}
	if cam.Aspect() != 2 {
		t.Errorf("Aspect() = %v, want 2", cam.Aspect())
	}
	if resized != [2]int{400, 200} {
		t.Errorf("resize hook got %v, want [400 200]", resized)
	}
}

func TestSinkCountsReplaceCalls(t *testing.T) {
	s := NewSink(camera.NewCamera())
	stage(s, 1)
	if got := s.ReplaceCalls(); got != 3 {
		t.Errorf("ReplaceCalls() = %d, want 3", got)
	}
}
