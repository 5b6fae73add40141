package sprite

// OwnerID identifies the host entity a sprite renders for.
type OwnerID uint64

// Transformer maps a point in an owner's local space to world space.
// The host scene supplies this; the sprite package never reads scene state directly.
type Transformer interface {
	// TransformPoint returns the world-space position of a local-space point for the given owner.
	//
	// Parameters:
	//   - owner: the entity whose transform applies
	//   - local: the point in the owner's local space
	//
	// Returns:
	//   - [3]float32: the point in world space
	TransformPoint(owner OwnerID, local [3]float32) [3]float32
}

// TransformFunc adapts a plain function to the Transformer interface.
type TransformFunc func(owner OwnerID, local [3]float32) [3]float32

func (f TransformFunc) TransformPoint(owner OwnerID, local [3]float32) [3]float32 {
	return f(owner, local)
}

// IdentityTransform leaves every point in place.
var IdentityTransform Transformer = TransformFunc(func(_ OwnerID, local [3]float32) [3]float32 {
	return local
})

// HostTransform supplies the four world-space corners of an owner's quad for the current tick.
type HostTransform interface {
	// CurrentWorldQuad returns the owner's quad corners in world space, in local-quad winding order.
	//
	// Parameters:
	//   - owner: the entity to query
	//
	// Returns:
	//   - [4][3]float32: the world-space corners
	CurrentWorldQuad(owner OwnerID) [4][3]float32
}

// HostTransformFunc adapts a plain function to the HostTransform interface.
type HostTransformFunc func(owner OwnerID) [4][3]float32

func (f HostTransformFunc) CurrentWorldQuad(owner OwnerID) [4][3]float32 {
	return f(owner)
}

// OwnerQuad builds a HostTransform that maps a size.x by size.y local quad through t.
//
// Parameters:
//   - t: the local-to-world point transform
//   - size: the quad extent in local space
//
// Returns:
//   - HostTransform: the quad source
func OwnerQuad(t Transformer, size [2]float32) HostTransform {
	local := LocalQuad(size)
	return HostTransformFunc(func(owner OwnerID) [4][3]float32 {
		var out [4][3]float32
		for i, p := range local {
			out[i] = t.TransformPoint(owner, p)
		}
		return out
	})
}

// LocalQuad returns the corners (0,0), (sx,0), (sx,sy), (0,sy) of an axis-aligned quad.
func LocalQuad(size [2]float32) [4][3]float32 {
	return [4][3]float32{
		{0, 0, 0},
		{size[0], 0, 0},
		{size[0], size[1], 0},
		{0, size[1], 0},
	}
}
