package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
	"github.com/Carmen-Shannon/oxy-swarm/engine/renderer/bind_group_provider"
)

// SpritePass renders one SpriteBatch through one camera with one atlas per frame.
type SpritePass struct {
	batch *SpriteBatch
	cam   camera.Camera
	atlas bind_group_provider.BindGroupProvider
}

// NewSpritePass registers the sprite pipeline and creates the camera and atlas bind groups.
//
// Parameters:
//   - r: the renderer
//   - batch: the sink attached to the sprite store
//   - cam: the camera whose uniform is written every frame
//   - atlas: the atlas pixels
//   - sampler: the atlas sampler configuration (zero value = nearest, clamp)
//
// Returns:
//   - *SpritePass: the pass
//   - error: an error if any GPU resource could not be created
func NewSpritePass(r Renderer, batch *SpriteBatch, cam camera.Camera, atlas common.TextureStagingData, sampler common.SamplerStagingData) (*SpritePass, error) {
	if err := r.RegisterPipelines(NewSpritePipeline()); err != nil {
		return nil, err
	}

	if err := r.InitBindGroup(cam.BindGroupProvider(), CameraBindGroupLayout()); err != nil {
		return nil, fmt.Errorf("failed to init camera bind group: %w", err)
	}

	atlasProvider := bind_group_provider.NewBindGroupProvider("atlas")
	if err := r.InitTextureView(atlasProvider, AtlasBindingTexture, atlas); err != nil {
		return nil, fmt.Errorf("failed to create atlas texture: %w", err)
	}
	if err := r.InitSampler(atlasProvider, AtlasBindingSampler, sampler); err != nil {
		return nil, fmt.Errorf("failed to create atlas sampler: %w", err)
	}
	if err := r.InitBindGroup(atlasProvider, AtlasBindGroupLayout()); err != nil {
		return nil, fmt.Errorf("failed to init atlas bind group: %w", err)
	}

	return &SpritePass{batch: batch, cam: cam, atlas: atlasProvider}, nil
}

// Render uploads the camera uniform and any staged sprite streams, then draws and presents one frame.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - error: an error from upload, frame acquisition or drawing
func (p *SpritePass) Render(r Renderer) error {
	uniform := p.cam.Uniform()
	r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: p.cam.BindGroupProvider(),
		Target:   bind_group_provider.TargetBinding,
		Binding:  0,
		Data:     uniform.Marshal(),
	}})

	if err := p.batch.Upload(r); err != nil {
		return err
	}

	if err := r.BeginFrame(); err != nil {
		return err
	}
	drawErr := p.batch.Draw(r, []bind_group_provider.BindGroupProvider{
		SpriteGroupCamera: p.cam.BindGroupProvider(),
		SpriteGroupAtlas:  p.atlas,
	})
	r.EndFrame()
	r.Present()
	return drawErr
}

// Release frees the atlas and mesh resources.
func (p *SpritePass) Release() {
	p.atlas.Release()
	p.batch.Release()
}
