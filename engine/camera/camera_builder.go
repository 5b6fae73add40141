package camera

type CameraBuilderOption func(*cameraImpl)

// WithHalfHeight sets the world-space half height visible at zoom 1.
//
// Parameters:
//   - h: the half height
//
// Returns:
//   - CameraBuilderOption: a function that sets the visible half height
func WithHalfHeight(h float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.halfHeight = h
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithDepthRange sets the near and far clipping planes.
//
// Parameters:
//   - near: near plane
//   - far: far plane
//
// Returns:
//   - CameraBuilderOption: functional option to set the depth range
func WithDepthRange(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithController attaches a controller to the camera.
// After all options are applied, the camera recomputes its matrices from the controller's state.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
