// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// RGBA wraps the staged pixels in an *image.RGBA without copying.
// Software backends that want an image.Image (ebiten, tests) use this view.
//
// Returns:
//   - *image.RGBA: an image sharing the staged pixel memory
func (t TextureStagingData) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Pixels,
		Stride: int(t.Width) * 4,
		Rect:   image.Rect(0, 0, int(t.Width), int(t.Height)),
	}
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// AtlasImage describes the sprite atlas texture, either as raw encoded bytes or as a path on disk.
type AtlasImage struct {
	// Path is the file path of an external PNG/JPEG atlas (empty for embedded data).
	Path string

	// Data contains raw encoded image bytes (PNG/JPEG).
	Data []byte

	// Width and Height are populated after Decode.
	Width, Height int
}

// Decode decodes the atlas to raw RGBA pixel data.
// Uses either Data bytes or loads from Path on disk.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - TextureStagingData: the decoded pixels ready for upload
//   - error: error if decoding fails
func (a *AtlasImage) Decode() (TextureStagingData, error) {
	if a == nil {
		return TextureStagingData{}, fmt.Errorf("atlas is nil")
	}

	var img image.Image
	var err error

	if len(a.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(a.Data))
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode embedded atlas: %w", err)
		}
	} else if a.Path != "" {
		file, fileErr := os.Open(a.Path)
		if fileErr != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open atlas file %s: %w", a.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode atlas file %s: %w", a.Path, err)
		}
	} else {
		return TextureStagingData{}, fmt.Errorf("atlas has neither data nor path")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	a.Width = bounds.Dx()
	a.Height = bounds.Dy()

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(a.Width),
		Height: uint32(a.Height),
	}, nil
}

// SolidAtlas builds a square fallback atlas filled with a single color.
// Used when no atlas file is configured so every backend still has something to sample.
//
// Parameters:
//   - size: width and height in pixels (values < 1 are treated as 1)
//   - c: the fill color
//
// Returns:
//   - TextureStagingData: the generated pixels
func SolidAtlas(size int, c color.RGBA) TextureStagingData {
	size = max(size, 1)
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(rgba, rgba.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(size),
		Height: uint32(size),
	}
}
