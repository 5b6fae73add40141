package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial camera position. The target starts at the same point.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = [3]float32{x, y, z}
		cc.target = cc.position
	}
}

// WithFollow enables or disables target following and sets the easing rate.
//
// Parameters:
//   - follow: true to ease toward the target on Step
//   - speed: easing rate per second, 0 snaps
//
// Returns:
//   - CameraControllerOption: functional option to configure following
func WithFollow(follow bool, speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.following = follow
		cc.followSpeed = speed
	}
}

// WithZoom sets the initial zoom factor.
//
// Parameters:
//   - zoom: the zoom factor
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom
func WithZoom(zoom float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoom = zoom
	}
}

// WithZoomLimits sets the minimum and maximum zoom factors.
//
// Parameters:
//   - minZoom: the minimum zoom
//   - maxZoom: the maximum zoom
//
// Returns:
//   - CameraControllerOption: functional option to set zoom bounds
func WithZoomLimits(minZoom, maxZoom float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minZoom = minZoom
		cc.maxZoom = maxZoom
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
//
// Parameters:
//   - speed: zoom speed multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the pan speed multiplier.
//
// Parameters:
//   - speed: pan speed multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set the pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}
