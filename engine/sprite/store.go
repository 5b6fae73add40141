package sprite

import (
	"fmt"
	"log"
	"math"
	"slices"
	"sync"
)

// DefaultGrowthIncrement is the number of slots appended per growth when no increment is configured.
const DefaultGrowthIncrement = 64

// ID is the stable slot identifier returned by Store.Allocate.
type ID int

// InvalidID is the zero-state id held by handles that own no slot.
const InvalidID ID = -1

// Stats is a point-in-time summary of store occupancy and upload activity.
type Stats struct {
	Capacity, Active, Free int

	Growths       int
	Flushes       int
	FullUploads   int
	VertexUploads int
	UVUploads     int
}

// storeImpl is the concrete Store: a structure-of-arrays arena indexed by slot id.
type storeImpl struct {
	mu *sync.Mutex

	label           string
	growthIncrement int
	maxCapacity     int // 0 = unbounded

	sink        MeshSink
	transformer Transformer

	records   []Record
	vertices  [][3]float32
	triangles []uint32
	uvs       [][2]float32

	freeSlots   []ID // FIFO
	activeSlots map[ID]struct{}

	// topologyDirty is set whenever the slot count changes; it forces a full re-upload
	// including triangle indices on the next Flush.
	topologyDirty, verticesDirty, uvsDirty bool

	stats Stats
}

// Store owns the batched sprite mesh: a growable vertex/triangle/UV arena with free/active slot
// tracking and per-buffer dirty flags reconciled into a MeshSink once per frame.
//
// A single logical writer per frame is assumed (tick pass then Flush). The Store still guards its
// state with a mutex so hosts that tick from several goroutines stay consistent.
type Store interface {
	// Allocate reserves a slot for owner, growing the arena first if no slot is free.
	// The slot's vertices are computed from the owner's current transform and its UVs from the atlas rectangle.
	//
	// Parameters:
	//   - owner: the entity the sprite renders for
	//   - size: the quad extent in the owner's local space (components must be >= 0)
	//   - uvOrigin: the lower-left atlas coordinate
	//   - uvExtent: the atlas rectangle size (components must be >= 0)
	//
	// Returns:
	//   - ID: the stable slot id
	//   - error: ErrConfiguration for invalid parameters, ErrCapacityExceeded if growth hits the ceiling
	Allocate(owner OwnerID, size, uvOrigin, uvExtent [2]float32) (ID, error)

	// Release clears the slot, zeroes its four vertices and returns it to the free queue.
	//
	// Parameters:
	//   - id: the slot to release
	//
	// Returns:
	//   - error: ErrInvalidHandle if id is not active
	Release(id ID) error

	// UpdateTransform overwrites the slot's four vertices in place. UVs and topology are untouched.
	//
	// Parameters:
	//   - id: the slot to update
	//   - quad: the new world-space corners
	//
	// Returns:
	//   - error: ErrInvalidHandle if id is not active
	UpdateTransform(id ID, quad [4][3]float32) error

	// SetUV changes the atlas rectangle of a live sprite and marks only the UV buffer dirty.
	//
	// Parameters:
	//   - id: the slot to update
	//   - uvOrigin: the lower-left atlas coordinate
	//   - uvExtent: the atlas rectangle size (components must be >= 0)
	//
	// Returns:
	//   - error: ErrInvalidHandle if id is not active, ErrConfiguration for a negative extent
	SetUV(id ID, uvOrigin, uvExtent [2]float32) error

	// Flush pushes the minimum set of dirty buffers to the sink and clears the flushed flags.
	// A topology change replaces vertices, triangles and UVs together. Calling Flush twice in a row
	// is a no-op the second time.
	Flush()

	// Capacity returns the current slot count.
	//
	// Returns:
	//   - int: the number of slots in the arena
	Capacity() int

	// GrowthIncrement returns the number of slots appended per growth.
	//
	// Returns:
	//   - int: the growth increment
	GrowthIncrement() int

	// IsActive reports whether id currently refers to an allocated slot.
	//
	// Parameters:
	//   - id: the slot to test
	//
	// Returns:
	//   - bool: true if the slot is active
	IsActive(id ID) bool

	// FreeSlots returns the free queue in reuse order.
	//
	// Returns:
	//   - []ID: a copy of the free queue
	FreeSlots() []ID

	// ActiveSlots returns the active slot ids in ascending order.
	//
	// Returns:
	//   - []ID: a sorted copy of the active set
	ActiveSlots() []ID

	// Record returns a copy of the record at id.
	//
	// Parameters:
	//   - id: the slot to read
	//
	// Returns:
	//   - Record: the record copy
	//   - bool: false if id is outside the arena
	Record(id ID) (Record, bool)

	// Vertices returns a copy of the vertex buffer.
	Vertices() [][3]float32

	// Triangles returns a copy of the triangle index buffer.
	Triangles() []uint32

	// UVs returns a copy of the UV buffer.
	UVs() [][2]float32

	// Dirty returns the pending dirty flags.
	//
	// Returns:
	//   - topology, vertices, uvs: the three flags
	Dirty() (topology, vertices, uvs bool)

	// Stats returns occupancy and upload counters.
	Stats() Stats

	// Transformer returns the local-to-world transform used when allocating.
	Transformer() Transformer

	// Label returns the debug label.
	Label() string
}

var _ Store = &storeImpl{}

// NewStore creates a Store and performs its initial growth.
//
// Parameters:
//   - options: functional options (growth increment, ceiling, sink, transformer, label)
//
// Returns:
//   - Store: the initialized store
//   - error: ErrConfiguration if the increment is not positive or the ceiling is below it
func NewStore(options ...StoreBuilderOption) (Store, error) {
	s := &storeImpl{
		mu:              &sync.Mutex{},
		label:           "sprites",
		growthIncrement: DefaultGrowthIncrement,
		sink:            DiscardSink,
		transformer:     IdentityTransform,
		records:         make([]Record, 0),
		vertices:        make([][3]float32, 0),
		triangles:       make([]uint32, 0),
		uvs:             make([][2]float32, 0),
		freeSlots:       make([]ID, 0),
		activeSlots:     make(map[ID]struct{}),
	}

	for _, opt := range options {
		opt(s)
	}

	if s.growthIncrement <= 0 {
		return nil, fmt.Errorf("growth increment %d must be positive: %w", s.growthIncrement, ErrConfiguration)
	}
	if s.maxCapacity < 0 || (s.maxCapacity > 0 && s.maxCapacity < s.growthIncrement) {
		return nil, fmt.Errorf("max capacity %d cannot hold one growth of %d: %w", s.maxCapacity, s.growthIncrement, ErrConfiguration)
	}
	if s.sink == nil {
		s.sink = DiscardSink
	}
	if s.transformer == nil {
		s.transformer = IdentityTransform
	}

	if err := s.grow(s.growthIncrement); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *storeImpl) Allocate(owner OwnerID, size, uvOrigin, uvExtent [2]float32) (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateExtent("size", size); err != nil {
		return InvalidID, err
	}
	if err := validateExtent("uv extent", uvExtent); err != nil {
		return InvalidID, err
	}

	if len(s.freeSlots) == 0 {
		if err := s.grow(s.growthIncrement); err != nil {
			return InvalidID, err
		}
	}

	id := s.freeSlots[0]
	s.freeSlots = s.freeSlots[1:]

	rec := &s.records[id]
	rec.SetGeometry(owner, size, uvOrigin, uvExtent)
	s.writeVertices(rec, rec.WorldVertices(s.transformer))
	s.writeUVs(rec)

	s.activeSlots[id] = struct{}{}
	s.verticesDirty = true
	s.uvsDirty = true
	return id, nil
}

func (s *storeImpl) Release(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activeSlots[id]; !ok {
		return fmt.Errorf("release sprite %d: %w", id, ErrInvalidHandle)
	}

	rec := &s.records[id]
	rec.Clear()
	s.writeVertices(rec, [4][3]float32{})

	delete(s.activeSlots, id)
	s.freeSlots = append(s.freeSlots, id)
	s.verticesDirty = true
	return nil
}

func (s *storeImpl) UpdateTransform(id ID, quad [4][3]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activeSlots[id]; !ok {
		return fmt.Errorf("update sprite %d: %w", id, ErrInvalidHandle)
	}

	s.writeVertices(&s.records[id], quad)
	s.verticesDirty = true
	return nil
}

func (s *storeImpl) SetUV(id ID, uvOrigin, uvExtent [2]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activeSlots[id]; !ok {
		return fmt.Errorf("set uv of sprite %d: %w", id, ErrInvalidHandle)
	}
	if err := validateExtent("uv extent", uvExtent); err != nil {
		return err
	}

	rec := &s.records[id]
	rec.uvOrigin = uvOrigin
	rec.uvExtent = uvExtent
	s.writeUVs(rec)
	s.uvsDirty = true
	return nil
}

func (s *storeImpl) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.topologyDirty && !s.verticesDirty && !s.uvsDirty {
		return
	}
	s.stats.Flushes++

	if s.topologyDirty {
		s.sink.ReplaceVertices(s.vertices)
		s.sink.ReplaceTriangles(s.triangles)
		s.sink.ReplaceUVs(s.uvs)
		s.topologyDirty = false
		s.verticesDirty = false
		s.uvsDirty = false
		s.stats.FullUploads++
		return
	}

	if s.verticesDirty {
		s.sink.ReplaceVertices(s.vertices)
		s.verticesDirty = false
		s.stats.VertexUploads++
	}
	if s.uvsDirty {
		s.sink.ReplaceUVs(s.uvs)
		s.uvsDirty = false
		s.stats.UVUploads++
	}
}

func (s *storeImpl) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *storeImpl) GrowthIncrement() int {
	return s.growthIncrement
}

func (s *storeImpl) IsActive(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.activeSlots[id]
	return ok
}

func (s *storeImpl) FreeSlots() []ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.freeSlots)
}

func (s *storeImpl) ActiveSlots() []ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ID, 0, len(s.activeSlots))
	for id := range s.activeSlots {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s *storeImpl) Record(id ID) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || int(id) >= len(s.records) {
		return Record{}, false
	}
	return s.records[id], true
}

func (s *storeImpl) Vertices() [][3]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.vertices)
}

func (s *storeImpl) Triangles() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.triangles)
}

func (s *storeImpl) UVs() [][2]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.uvs)
}

func (s *storeImpl) Dirty() (topology, vertices, uvs bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topologyDirty, s.verticesDirty, s.uvsDirty
}

func (s *storeImpl) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Capacity = len(s.records)
	st.Active = len(s.activeSlots)
	st.Free = len(s.freeSlots)
	return st
}

func (s *storeImpl) Transformer() Transformer {
	return s.transformer
}

func (s *storeImpl) Label() string {
	return s.label
}

// grow appends n fresh slots to every buffer, preserving existing contents by position.
// New slots join the free queue in ascending order. Caller must hold s.mu.
func (s *storeImpl) grow(n int) error {
	first := len(s.records)
	if s.maxCapacity > 0 && first+n > s.maxCapacity {
		return fmt.Errorf("growing %s from %d by %d slots exceeds ceiling %d: %w", s.label, first, n, s.maxCapacity, ErrCapacityExceeded)
	}

	s.records = slices.Grow(s.records, n)
	s.vertices = append(s.vertices, make([][3]float32, n*4)...)
	s.triangles = append(s.triangles, make([]uint32, n*6)...)
	s.uvs = append(s.uvs, make([][2]float32, n*4)...)

	for i := first; i < first+n; i++ {
		rec := NewRecord(i)
		s.records = append(s.records, rec)
		s.freeSlots = append(s.freeSlots, ID(i))

		//   3 __ 2
		//    | /|
		//    |/_|
		//   0    1
		v := rec.VertIndices()
		t := s.triangles[i*6 : i*6+6]
		t[0], t[1], t[2] = uint32(v[0]), uint32(v[3]), uint32(v[2])
		t[3], t[4], t[5] = uint32(v[0]), uint32(v[2]), uint32(v[1])
	}

	s.topologyDirty = true
	s.verticesDirty = true
	s.uvsDirty = true
	s.stats.Growths++

	if first > 0 {
		log.Printf("[SpriteStore] %s grew from %d to %d slots", s.label, first, len(s.records))
	}
	return nil
}

// writeVertices copies a quad into the slot's vertex entries. Caller must hold s.mu.
func (s *storeImpl) writeVertices(rec *Record, quad [4][3]float32) {
	for i, vi := range rec.VertIndices() {
		s.vertices[vi] = quad[i]
	}
}

// writeUVs copies the record's atlas rectangle into the slot's UV entries. Caller must hold s.mu.
func (s *storeImpl) writeUVs(rec *Record) {
	uv := rec.UVRect()
	for i, ui := range rec.UVIndices() {
		s.uvs[ui] = uv[i]
	}
}

func validateExtent(name string, v [2]float32) error {
	for _, c := range v {
		if c < 0 || math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return fmt.Errorf("%s %v must be finite and non-negative: %w", name, v, ErrConfiguration)
		}
	}
	return nil
}
