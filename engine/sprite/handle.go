package sprite

import "fmt"

// HandleState is the lifecycle phase of a Handle.
type HandleState int

const (
	// HandleUninitialized is the state before OnActivate.
	HandleUninitialized HandleState = iota
	// HandleActive means the handle owns a slot in the store.
	HandleActive
	// HandleReleased is terminal: the slot was returned and the handle cannot be reused.
	HandleReleased
)

func (s HandleState) String() string {
	switch s {
	case HandleUninitialized:
		return "uninitialized"
	case HandleActive:
		return "active"
	case HandleReleased:
		return "released"
	default:
		return fmt.Sprintf("HandleState(%d)", int(s))
	}
}

type handleImpl struct {
	store Store
	owner OwnerID
	host  HostTransform

	size               [2]float32
	uvOrigin, uvExtent [2]float32

	id    ID
	state HandleState
}

// Handle binds one owner to one store slot across the owner's lifecycle:
// Uninitialized -> Active on OnActivate, Active -> Released on OnDeactivate.
// A released handle never becomes active again; a new sprite needs a new Handle.
type Handle interface {
	// Owner returns the entity this handle renders for.
	//
	// Returns:
	//   - OwnerID: the owner
	Owner() OwnerID

	// State returns the current lifecycle phase.
	//
	// Returns:
	//   - HandleState: the phase
	State() HandleState

	// ID returns the slot held by an active handle.
	//
	// Returns:
	//   - ID: the slot id
	//   - error: ErrInvalidHandle unless the handle is active
	ID() (ID, error)

	// OnActivate allocates a slot with the configured size and atlas rectangle.
	// On failure the handle stays uninitialized.
	//
	// Returns:
	//   - error: ErrInvalidHandle if already activated, or the store's allocation error
	OnActivate() error

	// OnTick forwards the owner's current world quad to the store.
	//
	// Returns:
	//   - error: ErrInvalidHandle unless the handle is active
	OnTick() error

	// OnDeactivate releases the slot and moves the handle to its terminal state.
	//
	// Returns:
	//   - error: ErrInvalidHandle unless the handle is active
	OnDeactivate() error
}

var _ Handle = &handleImpl{}

// NewHandle creates an uninitialized handle for owner against store.
// Without WithHostTransform the handle maps its own local quad through store.Transformer().
//
// Parameters:
//   - store: the store to allocate from
//   - owner: the entity this handle renders for
//   - options: functional options (size, atlas rectangle, host transform)
//
// Returns:
//   - Handle: the new handle
func NewHandle(store Store, owner OwnerID, options ...HandleBuilderOption) Handle {
	h := &handleImpl{
		store:    store,
		owner:    owner,
		size:     [2]float32{1, 1},
		uvExtent: [2]float32{1, 1},
		id:       InvalidID,
		state:    HandleUninitialized,
	}
	for _, opt := range options {
		opt(h)
	}
	if h.host == nil {
		h.host = OwnerQuad(store.Transformer(), h.size)
	}
	return h
}

func (h *handleImpl) Owner() OwnerID {
	return h.owner
}

func (h *handleImpl) State() HandleState {
	return h.state
}

func (h *handleImpl) ID() (ID, error) {
	if h.state != HandleActive {
		return InvalidID, fmt.Errorf("handle for owner %d is %s: %w", h.owner, h.state, ErrInvalidHandle)
	}
	return h.id, nil
}

func (h *handleImpl) OnActivate() error {
	if h.state != HandleUninitialized {
		return fmt.Errorf("activate handle for owner %d: already %s: %w", h.owner, h.state, ErrInvalidHandle)
	}
	id, err := h.store.Allocate(h.owner, h.size, h.uvOrigin, h.uvExtent)
	if err != nil {
		return fmt.Errorf("activate handle for owner %d: %w", h.owner, err)
	}
	h.id = id
	h.state = HandleActive
	return nil
}

func (h *handleImpl) OnTick() error {
	if h.state != HandleActive {
		return fmt.Errorf("tick handle for owner %d: %s: %w", h.owner, h.state, ErrInvalidHandle)
	}
	return h.store.UpdateTransform(h.id, h.host.CurrentWorldQuad(h.owner))
}

func (h *handleImpl) OnDeactivate() error {
	if h.state != HandleActive {
		return fmt.Errorf("deactivate handle for owner %d: %s: %w", h.owner, h.state, ErrInvalidHandle)
	}
	err := h.store.Release(h.id)
	h.id = InvalidID
	h.state = HandleReleased
	return err
}
