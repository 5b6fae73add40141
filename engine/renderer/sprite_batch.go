package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-swarm/engine/sprite"
)

// SpriteBatch is the GPU mesh sink of a sprite.Store. Flush (tick side) stages copies of the
// replaced streams; Upload (render side) moves them to the GPU and Draw issues one indexed draw.
// A topology replace recreates every buffer at the new size, otherwise only the replaced
// stream is written in place.
type SpriteBatch struct {
	mu       *sync.Mutex
	provider bind_group_provider.BindGroupProvider

	positions [][3]float32
	uvs       [][2]float32
	indices   []uint32

	topologyDirty, positionsDirty, uvsDirty bool
	meshed                                  bool // GPU buffers match the staged topology

	replaceCalls int
	recreations  int
}

var _ sprite.MeshSink = &SpriteBatch{}

// spriteUpload is the work one Upload performs. Byte slices alias the staging buffers.
type spriteUpload struct {
	recreate   bool
	positions  []byte
	uvs        []byte
	indices    []byte
	indexCount int
}

// NewSpriteBatch creates an empty batch whose GPU buffers live on a provider with the given label.
//
// Parameters:
//   - label: the debug label of the mesh provider
//
// Returns:
//   - *SpriteBatch: the batch
func NewSpriteBatch(label string) *SpriteBatch {
	return &SpriteBatch{
		mu:       &sync.Mutex{},
		provider: bind_group_provider.NewBindGroupProvider(label),
	}
}

// Provider returns the mesh provider holding the GPU buffers.
//
// Returns:
//   - bind_group_provider.BindGroupProvider: the provider
func (b *SpriteBatch) Provider() bind_group_provider.BindGroupProvider {
	return b.provider
}

func (b *SpriteBatch) ReplaceVertices(vertices [][3]float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.positions = append(b.positions[:0], vertices...)
	b.positionsDirty = true
	b.replaceCalls++
}

func (b *SpriteBatch) ReplaceTriangles(triangles []uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.indices = append(b.indices[:0], triangles...)
	b.topologyDirty = true
	b.replaceCalls++
}

func (b *SpriteBatch) ReplaceUVs(uvs [][2]float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uvs = append(b.uvs[:0], uvs...)
	b.uvsDirty = true
	b.replaceCalls++
}

// ReplaceCalls returns the number of replace calls received from the store.
//
// Returns:
//   - int: the count
func (b *SpriteBatch) ReplaceCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.replaceCalls
}

// Recreations returns how many times the GPU buffers were recreated.
//
// Returns:
//   - int: the count
func (b *SpriteBatch) Recreations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recreations
}

// Upload transfers staged streams to the GPU. Call it on the render goroutine before Draw.
//
// Parameters:
//   - r: the renderer owning the device
//
// Returns:
//   - error: an error if buffer recreation fails; the next Upload retries
func (b *SpriteBatch) Upload(r Renderer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	up, ok := b.takeUpload()
	if !ok {
		return nil
	}

	if up.recreate {
		streams := make([][]byte, 2)
		streams[bind_group_provider.VertexSlotPosition] = up.positions
		streams[bind_group_provider.VertexSlotUV] = up.uvs
		if err := r.InitMeshBuffers(b.provider, streams, up.indices, up.indexCount); err != nil {
			b.meshed = false
			return fmt.Errorf("recreate sprite buffers %q: %w", b.provider.Label(), err)
		}
		b.markRecreated(up.indexCount / 6)
		log.Printf("[SpriteBatch] %s: recreated GPU buffers for %d sprites", b.provider.Label(), up.indexCount/6)
		return nil
	}

	writes := make([]bind_group_provider.BufferWrite, 0, 2)
	if up.positions != nil {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: b.provider,
			Target:   bind_group_provider.TargetVertex,
			Binding:  bind_group_provider.VertexSlotPosition,
			Data:     up.positions,
		})
	}
	if up.uvs != nil {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: b.provider,
			Target:   bind_group_provider.TargetVertex,
			Binding:  bind_group_provider.VertexSlotUV,
			Data:     up.uvs,
		})
	}
	r.WriteBuffers(writes)
	return nil
}

// Draw issues the single indexed draw of the batch.
//
// Parameters:
//   - r: the renderer inside BeginFrame/EndFrame
//   - bindGroups: the camera and atlas providers in group order
//
// Returns:
//   - error: an error if the sprite pipeline is not registered
func (b *SpriteBatch) Draw(r Renderer, bindGroups []bind_group_provider.BindGroupProvider) error {
	return r.DrawIndexed(SpritePipelineKey, b.provider, bindGroups)
}

// Release frees the GPU buffers.
func (b *SpriteBatch) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.provider.ReleaseMesh()
	b.meshed = false
}

// takeUpload decides what the next Upload sends and clears the dirty flags. Caller must hold b.mu.
func (b *SpriteBatch) takeUpload() (spriteUpload, bool) {
	slots := len(b.indices) / 6
	recreate := b.topologyDirty || !b.meshed || b.provider.Capacity() != slots
	if !recreate && !b.positionsDirty && !b.uvsDirty {
		return spriteUpload{}, false
	}
	if len(b.positions) == 0 && len(b.indices) == 0 {
		return spriteUpload{}, false
	}

	up := spriteUpload{recreate: recreate, indexCount: len(b.indices)}
	if recreate || b.positionsDirty {
		up.positions = common.SliceToBytes(b.positions)
	}
	if recreate || b.uvsDirty {
		up.uvs = common.SliceToBytes(b.uvs)
	}
	if recreate {
		up.indices = common.SliceToBytes(b.indices)
	}

	b.topologyDirty, b.positionsDirty, b.uvsDirty = false, false, false
	return up, true
}

// markRecreated records that GPU buffers now hold slots sprites. Caller must hold b.mu.
func (b *SpriteBatch) markRecreated(slots int) {
	b.provider.SetCapacity(slots)
	b.meshed = true
	b.recreations++
}
