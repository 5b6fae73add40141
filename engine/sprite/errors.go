package sprite

import "errors"

var (
	// ErrConfiguration is returned for an invalid growth increment or invalid size/UV parameters.
	ErrConfiguration = errors.New("invalid sprite configuration")

	// ErrInvalidHandle is returned for operations on a released or never-allocated sprite id.
	ErrInvalidHandle = errors.New("invalid sprite handle")

	// ErrCapacityExceeded is returned when growth would exceed the configured capacity ceiling.
	ErrCapacityExceeded = errors.New("sprite capacity exceeded")
)
