package camera

import (
	"math"
	"sync"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	following   bool
	followSpeed float32

	zoom      float32
	minZoom   float32
	maxZoom   float32
	zoomSpeed float32

	panSpeed float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with sensible defaults:
// following enabled at 4/s, zoom 1 clamped to [0.1, 10].
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		following:   true,
		followSpeed: 4.0,

		zoom:      1.0,
		minZoom:   0.1,
		maxZoom:   10.0,
		zoomSpeed: 0.1,

		panSpeed: 1.0,
	}

	for _, option := range options {
		option(cc)
	}

	cc.zoom = cc.clampZoom(cc.zoom)
	return cc
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = [3]float32{x, y, z}
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = [3]float32{x, y, z}
}

func (cc *cameraControllerImpl) Following() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.following
}

func (cc *cameraControllerImpl) SetFollowing(follow bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.following = follow
}

func (cc *cameraControllerImpl) FollowSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.followSpeed
}

func (cc *cameraControllerImpl) Step(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.following {
		return
	}
	if cc.followSpeed <= 0 {
		cc.position = cc.target
		return
	}
	alpha := 1 - float32(math.Exp(float64(-cc.followSpeed*dt)))
	for i := range cc.position {
		cc.position[i] += (cc.target[i] - cc.position[i]) * alpha
	}
}

func (cc *cameraControllerImpl) ZoomLevel() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoom
}

func (cc *cameraControllerImpl) SetZoomLevel(zoom float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoom = cc.clampZoom(zoom)
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoom = cc.clampZoom(cc.zoom * (1 + delta*cc.zoomSpeed))
}

func (cc *cameraControllerImpl) MinZoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minZoom
}

func (cc *cameraControllerImpl) MaxZoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxZoom
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	d := delta * cc.panSpeed
	cc.position[0] += d
	cc.target[0] += d
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	d := delta * cc.panSpeed
	cc.position[1] += d
	cc.target[1] += d
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

// --- internal helpers ---

// clampZoom keeps zoom within [minZoom, maxZoom]. Caller must hold the mutex.
func (cc *cameraControllerImpl) clampZoom(z float32) float32 {
	return min(max(z, cc.minZoom), cc.maxZoom)
}
