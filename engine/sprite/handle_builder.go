package sprite

// HandleBuilderOption is a functional option for configuring a Handle during construction.
type HandleBuilderOption func(*handleImpl)

// WithSize sets the quad extent in the owner's local space. Defaults to (1, 1).
//
// Parameters:
//   - size: width and height of the quad
//
// Returns:
//   - HandleBuilderOption: option function to apply
func WithSize(size [2]float32) HandleBuilderOption {
	return func(h *handleImpl) {
		h.size = size
	}
}

// WithUV sets the atlas rectangle. Defaults to the whole atlas, origin (0, 0) extent (1, 1).
//
// Parameters:
//   - origin: the lower-left atlas coordinate
//   - extent: the atlas rectangle size
//
// Returns:
//   - HandleBuilderOption: option function to apply
func WithUV(origin, extent [2]float32) HandleBuilderOption {
	return func(h *handleImpl) {
		h.uvOrigin = origin
		h.uvExtent = extent
	}
}

// WithHostTransform overrides the source of the owner's per-tick world quad.
//
// Parameters:
//   - host: the quad source
//
// Returns:
//   - HandleBuilderOption: option function to apply
func WithHostTransform(host HostTransform) HandleBuilderOption {
	return func(h *handleImpl) {
		h.host = host
	}
}
