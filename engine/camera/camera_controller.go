package camera

// CameraController owns the positional state of a 2D camera: where it looks, what it
// follows and how far it is zoomed. The Camera reads from the controller to build its matrices.
type CameraController interface {
	followCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// ZoomLevel returns the current zoom factor. 1 shows the camera's configured half height.
	//
	// Returns:
	//   - float32: the zoom factor
	ZoomLevel() float32

	// SetZoomLevel sets the zoom factor directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - zoom: the zoom factor
	SetZoomLevel(zoom float32)

	// Zoom scales the zoom factor by (1 + delta*ZoomSpeed), clamped to min/max bounds.
	// Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount
	Zoom(delta float32)

	// MinZoom returns the minimum zoom factor.
	MinZoom() float32

	// MaxZoom returns the maximum zoom factor.
	MaxZoom() float32

	// ZoomSpeed returns the zoom speed multiplier.
	ZoomSpeed() float32
}

// followCameraController defines target-following methods.
type followCameraController interface {
	// Target returns the point the camera eases toward.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the point the camera eases toward.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Following reports whether Step moves the camera toward the target.
	//
	// Returns:
	//   - bool: true if following is enabled
	Following() bool

	// SetFollowing enables or disables target following.
	//
	// Parameters:
	//   - follow: true to follow
	SetFollowing(follow bool)

	// FollowSpeed returns the easing rate per second. 0 snaps to the target.
	//
	// Returns:
	//   - float32: the easing rate
	FollowSpeed() float32

	// Step eases the position toward the target by dt seconds of exponential smoothing.
	// Does nothing while following is disabled.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Step(dt float32)
}

// planarCameraController defines planar translation control methods.
// Panning shifts both position and target so a following camera does not snap back.
type planarCameraController interface {
	// PanRight translates the camera along +X.
	// Positive delta moves right, negative moves left.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanRight(delta float32)

	// PanUp translates the camera along +Y.
	// Positive delta moves up, negative moves down.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanUp(delta float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32
}
