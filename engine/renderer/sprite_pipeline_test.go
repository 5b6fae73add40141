package renderer

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/engine/sprite"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewSpritePipeline(t *testing.T) {
	p := NewSpritePipeline()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"key", p.PipelineKey(), SpritePipelineKey},
		{"topology", p.Topology(), wgpu.PrimitiveTopologyTriangleList},
		{"front face", p.FrontFace(), wgpu.FrontFaceCW},
		{"cull mode", p.CullMode(), wgpu.CullModeNone},
		{"write mask", p.WriteMask(), wgpu.ColorWriteMaskAll},
		{"blend", p.BlendEnabled(), true},
		{"vertex layouts", len(p.VertexLayouts()), 2},
		{"bind group layouts", len(p.BindGroupLayouts()), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if !strings.Contains(p.Source(), "vs_main") || !strings.Contains(p.Source(), "fs_main") {
		t.Error("Source() is missing the sprite entry points")
	}
}

func TestStoreTrianglesMatchFrontFace(t *testing.T) {
	store, err := sprite.NewStore(sprite.WithGrowthIncrement(1))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := store.Allocate(1, [2]float32{2, 1}, [2]float32{}, [2]float32{1, 1}); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	vertices, triangles := store.Vertices(), store.Triangles()
	for i := 0; i < len(triangles); i += 3 {
		a, b, c := vertices[triangles[i]], vertices[triangles[i+1]], vertices[triangles[i+2]]
		// negative signed area is clockwise with y up
		area := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		if area >= 0 {
			t.Errorf("triangle %d signed area = %v, want clockwise (< 0)", i/3, area)
		}
	}
}
