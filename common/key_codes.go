package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyA     = 65  // A key (ASCII): spawn an agent
	KeyD     = 68  // D key (ASCII): despawn an agent
	KeyMinus = 45  // - key (ASCII): zoom out
	KeyEqual = 61  // = key (ASCII): zoom in
	KeyF     = 70  // F key (ASCII): follow the swarm again
	KeySpace = 32  // Spacebar (ASCII): pause
	KeyEsc   = 256 // Escape key (GLFW)
)
