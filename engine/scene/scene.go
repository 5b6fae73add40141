package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
	"github.com/Carmen-Shannon/oxy-swarm/engine/game_object"
	"github.com/Carmen-Shannon/oxy-swarm/engine/sprite"
)

// Scene is the host transform system: a registry of GameObjects keyed by ID and an optional
// Camera. It answers sprite transform queries by building each object's model matrix
// on demand, so sprites never cache transform state of their own.
// Thread-safe for concurrent access.
type Scene interface {
	sprite.Transformer

	// SpriteQuad returns the per-tick quad source for sprites of the given size.
	// Corners follow sprite.LocalQuad mapped through the owner's model matrix, the same
	// geometry the store writes through TransformPoint at allocation.
	//
	// Parameters:
	//   - size: the quad extent in the owner's local space
	//
	// Returns:
	//   - sprite.HostTransform: the quad source
	SpriteQuad(size [2]float32) sprite.HostTransform

	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera, or nil if none is attached.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Count returns the number of GameObjects in the registry.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Add registers a GameObject. Objects without an ID are assigned the next free one.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the registry by ID. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	Clear()

	// Objects returns every registered object ordered by ID.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	cam    camera.Camera

	registry map[uint64]game_object.GameObject
	nextID   uint64
}

var _ Scene = &scene{}

// NewScene creates a new empty Scene.
//
// Parameters:
//   - name: the scene's identifier
//   - options: functional options (camera, active flag, initial objects)
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		active:   true,
		registry: make(map[uint64]game_object.GameObject),
		nextID:   1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]game_object.GameObject)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, 0, len(s.registry))
	for _, obj := range s.registry {
		out = append(out, obj)
	}
	slices.SortFunc(out, func(a, b game_object.GameObject) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}

// TransformPoint maps a point through the owner's model matrix. Unknown owners leave the point unchanged;
// disabled objects collapse every point onto their position.
func (s *scene) TransformPoint(owner sprite.OwnerID, local [3]float32) [3]float32 {
	obj := s.Get(uint64(owner))
	if obj == nil {
		return local
	}
	if !obj.Enabled() {
		x, y, z := obj.Position()
		return [3]float32{x, y, z}
	}
	var m [16]float32
	modelMatrix(obj, m[:])
	return common.TransformPoint(m[:], local)
}

func (s *scene) SpriteQuad(size [2]float32) sprite.HostTransform {
	local := sprite.LocalQuad(size)
	return sprite.HostTransformFunc(func(owner sprite.OwnerID) [4][3]float32 {
		obj := s.Get(uint64(owner))
		if obj == nil {
			return local
		}
		var out [4][3]float32
		if !obj.Enabled() {
			x, y, z := obj.Position()
			for i := range out {
				out[i] = [3]float32{x, y, z}
			}
			return out
		}
		// one matrix per quad instead of one per corner
		var m [16]float32
		modelMatrix(obj, m[:])
		for i, p := range local {
			out[i] = common.TransformPoint(m[:], p)
		}
		return out
	})
}

// add assigns an ID if needed and stores obj. Caller must hold s.mu.
func (s *scene) add(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	s.registry[obj.ID()] = obj
	return obj.ID()
}

func modelMatrix(obj game_object.GameObject, out []float32) {
	pos, scale, rot := obj.TransformData()
	common.BuildModelMatrix(out,
		pos[0], pos[1], pos[2],
		rot[0], rot[1], rot[2],
		scale[0], scale[1], scale[2],
	)
}
