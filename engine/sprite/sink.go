package sprite

// MeshSink receives whole-buffer replacements from Store.Flush.
// The slices passed in are owned by the Store and only valid for the duration of the call;
// implementations must copy anything they keep.
type MeshSink interface {
	// ReplaceVertices replaces the downstream vertex positions (4 per slot).
	//
	// Parameters:
	//   - vertices: the full vertex buffer
	ReplaceVertices(vertices [][3]float32)

	// ReplaceTriangles replaces the downstream triangle index list (6 per slot).
	//
	// Parameters:
	//   - triangles: the full index buffer
	ReplaceTriangles(triangles []uint32)

	// ReplaceUVs replaces the downstream texture coordinates (4 per slot, parallel to vertices).
	//
	// Parameters:
	//   - uvs: the full UV buffer
	ReplaceUVs(uvs [][2]float32)
}

type discardSink struct{}

func (discardSink) ReplaceVertices([][3]float32) {}
func (discardSink) ReplaceTriangles([]uint32)    {}
func (discardSink) ReplaceUVs([][2]float32)      {}

// DiscardSink is a MeshSink that drops every replacement. It is the Store default.
var DiscardSink MeshSink = discardSink{}
