package renderer

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
	"github.com/Carmen-Shannon/oxy-swarm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-swarm/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// SpritePipelineKey is the cache key of the batched sprite pipeline.
const SpritePipelineKey = "sprite"

// Bind group indices of the sprite pipeline.
const (
	SpriteGroupCamera = 0
	SpriteGroupAtlas  = 1
)

// Bindings inside the atlas group.
const (
	AtlasBindingTexture = 0
	AtlasBindingSampler = 1
)

//go:embed assets/sprite.wgsl
var spriteShaderSource string

// SpriteShaderSource returns the complete WGSL module of the sprite pipeline,
// prefixed with the camera uniform definition.
//
// Returns:
//   - string: the WGSL code
func SpriteShaderSource() string {
	return camera.GPUCameraUniformSource + "\n" + spriteShaderSource
}

// CameraBindGroupLayout describes group 0: the camera uniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout
func CameraBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	var u camera.GPUCameraUniform
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = uint64(u.Size())
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{entry},
	}
}

// AtlasBindGroupLayout describes group 1: the sprite atlas texture and its sampler.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout
func AtlasBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	tex := wgpu.BindGroupLayoutEntry{
		Binding:    AtlasBindingTexture,
		Visibility: wgpu.ShaderStageFragment,
	}
	tex.Texture.SampleType = wgpu.TextureSampleTypeFloat
	tex.Texture.ViewDimension = wgpu.TextureViewDimension2D

	samp := wgpu.BindGroupLayoutEntry{
		Binding:    AtlasBindingSampler,
		Visibility: wgpu.ShaderStageFragment,
	}
	samp.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Atlas Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{tex, samp},
	}
}

// SpriteVertexLayouts returns one layout per vertex slot: positions (vec3) and UVs (vec2),
// matching the Store's parallel vertex and UV sequences.
//
// Returns:
//   - []wgpu.VertexBufferLayout: the layouts in slot order
func SpriteVertexLayouts() []wgpu.VertexBufferLayout {
	layouts := make([]wgpu.VertexBufferLayout, 2)
	layouts[bind_group_provider.VertexSlotPosition] = wgpu.VertexBufferLayout{
		ArrayStride: 12,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	}
	layouts[bind_group_provider.VertexSlotUV] = wgpu.VertexBufferLayout{
		ArrayStride: 8,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
		},
	}
	return layouts
}

// NewSpritePipeline describes the batched sprite render pipeline.
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline
func NewSpritePipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(SpritePipelineKey,
		pipeline.WithSource(SpriteShaderSource(), "vs_main", "fs_main"),
		pipeline.WithVertexLayouts(SpriteVertexLayouts()...),
		pipeline.WithBindGroupLayouts(CameraBindGroupLayout(), AtlasBindGroupLayout()),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
		// store triangles run 0,3,2 / 0,2,1, clockwise with y up
		pipeline.WithFrontFace(wgpu.FrontFaceCW),
		// negative scale mirrors a quad, so nothing is culled
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithBlendEnabled(true),
		pipeline.WithWriteMask(wgpu.ColorWriteMaskAll),
	)
}
