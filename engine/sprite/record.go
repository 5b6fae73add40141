package sprite

// Record is the per-slot state of the sprite store: geometry, atlas rectangle and owner linkage.
// Index and the derived buffer indices are fixed at construction.
type Record struct {
	index       int
	vertIndices [4]int
	uvIndices   [4]int

	owner    OwnerID
	hasOwner bool

	localQuad          [4][3]float32
	uvOrigin, uvExtent [2]float32
}

// NewRecord creates a free record for the given slot index.
//
// Parameters:
//   - index: the slot index
//
// Returns:
//   - Record: a cleared record bound to the slot
func NewRecord(index int) Record {
	r := Record{index: index}
	for i := range 4 {
		r.vertIndices[i] = index*4 + i
		r.uvIndices[i] = index*4 + i
	}
	r.Clear()
	return r
}

// Index returns the slot index.
func (r *Record) Index() int {
	return r.index
}

// VertIndices returns the four positions of this slot in the vertex buffer.
func (r *Record) VertIndices() [4]int {
	return r.vertIndices
}

// UVIndices returns the four positions of this slot in the UV buffer.
func (r *Record) UVIndices() [4]int {
	return r.uvIndices
}

// Owner returns the entity rendered by this slot and whether the slot is active.
func (r *Record) Owner() (OwnerID, bool) {
	return r.owner, r.hasOwner
}

// LocalQuad returns the four local-space corners of the quad.
func (r *Record) LocalQuad() [4][3]float32 {
	return r.localQuad
}

// UVOrigin returns the lower-left corner of the atlas rectangle.
func (r *Record) UVOrigin() [2]float32 {
	return r.uvOrigin
}

// UVExtent returns the size of the atlas rectangle.
func (r *Record) UVExtent() [2]float32 {
	return r.uvExtent
}

// SetGeometry binds the record to an owner and recomputes its local quad and atlas rectangle.
//
// Parameters:
//   - owner: the entity this slot renders
//   - size: the quad extent in the owner's local space
//   - uvOrigin: the lower-left atlas coordinate
//   - uvExtent: the atlas rectangle size
func (r *Record) SetGeometry(owner OwnerID, size, uvOrigin, uvExtent [2]float32) {
	r.setGeometry(owner, true, size, uvOrigin, uvExtent)
}

// Clear detaches the owner and collapses the quad and atlas rectangle to the origin.
func (r *Record) Clear() {
	r.setGeometry(0, false, [2]float32{}, [2]float32{}, [2]float32{})
}

func (r *Record) setGeometry(owner OwnerID, hasOwner bool, size, uvOrigin, uvExtent [2]float32) {
	r.owner = owner
	r.hasOwner = hasOwner
	r.uvOrigin = uvOrigin
	r.uvExtent = uvExtent
	r.localQuad = LocalQuad(size)
}

// WorldVertices maps the local quad through t when the record has an owner.
// A free record returns its raw local corners, a degenerate point at the origin.
//
// Parameters:
//   - t: the local-to-world point transform
//
// Returns:
//   - [4][3]float32: the four corners
func (r *Record) WorldVertices(t Transformer) [4][3]float32 {
	if !r.hasOwner {
		return r.localQuad
	}
	var out [4][3]float32
	for i, p := range r.localQuad {
		out[i] = t.TransformPoint(r.owner, p)
	}
	return out
}

// UVRect returns the corners of [uvOrigin, uvOrigin+uvExtent] in the same order as WorldVertices.
func (r *Record) UVRect() [4][2]float32 {
	x0, y0 := r.uvOrigin[0], r.uvOrigin[1]
	x1, y1 := x0+r.uvExtent[0], y0+r.uvExtent[1]
	return [4][2]float32{
		{x0, y0},
		{x1, y0},
		{x1, y1},
		{x0, y1},
	}
}
