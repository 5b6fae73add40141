package sprite

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

// recordingSink captures every replacement Flush performs.
type recordingSink struct {
	calls     []string
	vertices  [][3]float32
	triangles []uint32
	uvs       [][2]float32
}

func (r *recordingSink) ReplaceVertices(v [][3]float32) {
	r.calls = append(r.calls, "vertices")
	r.vertices = slices.Clone(v)
}

func (r *recordingSink) ReplaceTriangles(t []uint32) {
	r.calls = append(r.calls, "triangles")
	r.triangles = slices.Clone(t)
}

func (r *recordingSink) ReplaceUVs(uv [][2]float32) {
	r.calls = append(r.calls, "uvs")
	r.uvs = slices.Clone(uv)
}

func (r *recordingSink) reset() {
	r.calls = nil
}

func newTestStore(t *testing.T, options ...StoreBuilderOption) (Store, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s, err := NewStore(append([]StoreBuilderOption{WithSink(sink)}, options...)...)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s, sink
}

// snapshot captures all observable store state for no-partial-mutation checks.
type snapshot struct {
	capacity                int
	free, active            []ID
	vertices                [][3]float32
	uvs                     [][2]float32
	topology, verts, uvFlag bool
}

func takeSnapshot(s Store) snapshot {
	topo, verts, uvs := s.Dirty()
	return snapshot{
		capacity: s.Capacity(),
		free:     s.FreeSlots(),
		active:   s.ActiveSlots(),
		vertices: s.Vertices(),
		uvs:      s.UVs(),
		topology: topo,
		verts:    verts,
		uvFlag:   uvs,
	}
}

func (a snapshot) equal(b snapshot) bool {
	return a.capacity == b.capacity &&
		slices.Equal(a.free, b.free) &&
		slices.Equal(a.active, b.active) &&
		slices.Equal(a.vertices, b.vertices) &&
		slices.Equal(a.uvs, b.uvs) &&
		a.topology == b.topology && a.verts == b.verts && a.uvFlag == b.uvFlag
}

func checkPartition(t *testing.T, s Store) {
	t.Helper()
	free, active := s.FreeSlots(), s.ActiveSlots()
	seen := make(map[ID]bool, s.Capacity())
	for _, id := range append(free, active...) {
		if seen[id] {
			t.Fatalf("slot %d appears twice across free %v and active %v", id, free, active)
		}
		seen[id] = true
	}
	if len(seen) != s.Capacity() {
		t.Fatalf("free+active cover %d slots, capacity is %d", len(seen), s.Capacity())
	}
	for id := range seen {
		if id < 0 || int(id) >= s.Capacity() {
			t.Fatalf("slot %d outside [0,%d)", id, s.Capacity())
		}
	}
}

func TestNewStoreConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		options []StoreBuilderOption
		wantErr error
	}{
		{"default", nil, nil},
		{"zero increment", []StoreBuilderOption{WithGrowthIncrement(0)}, ErrConfiguration},
		{"negative increment", []StoreBuilderOption{WithGrowthIncrement(-3)}, ErrConfiguration},
		{"ceiling below increment", []StoreBuilderOption{WithGrowthIncrement(8), WithMaxCapacity(4)}, ErrConfiguration},
		{"negative ceiling", []StoreBuilderOption{WithMaxCapacity(-1)}, ErrConfiguration},
		{"ceiling equals increment", []StoreBuilderOption{WithGrowthIncrement(8), WithMaxCapacity(8)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(tt.options...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewStore() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			if s.Capacity() != s.GrowthIncrement() {
				t.Errorf("Capacity() = %d, want one growth of %d", s.Capacity(), s.GrowthIncrement())
			}
			checkPartition(t, s)
		})
	}
}

func TestNewStoreInitialState(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(4))

	if got, want := s.FreeSlots(), []ID{0, 1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("FreeSlots() = %v, want %v", got, want)
	}
	if len(s.ActiveSlots()) != 0 {
		t.Errorf("ActiveSlots() = %v, want empty", s.ActiveSlots())
	}
	topo, verts, uvs := s.Dirty()
	if !topo || !verts || !uvs {
		t.Errorf("Dirty() = %v %v %v, want all true after initial growth", topo, verts, uvs)
	}
	if got := len(s.Vertices()); got != 16 {
		t.Errorf("len(Vertices()) = %d, want 16", got)
	}
	if got := len(s.Triangles()); got != 24 {
		t.Errorf("len(Triangles()) = %d, want 24", got)
	}
	if got := len(s.UVs()); got != 16 {
		t.Errorf("len(UVs()) = %d, want 16", got)
	}
}

func TestAllocateUpdateScenario(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(4))
	const ownerA OwnerID = 42

	id, err := s.Allocate(ownerA, [2]float32{2, 2}, [2]float32{0, 0}, [2]float32{0.5, 0.5})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if id != 0 {
		t.Fatalf("Allocate() id = %d, want 0", id)
	}

	rec, _ := s.Record(id)
	if err := s.UpdateTransform(id, rec.WorldVertices(IdentityTransform)); err != nil {
		t.Fatalf("UpdateTransform() error = %v", err)
	}

	wantVerts := [][3]float32{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}
	if got := s.Vertices()[0:4]; !slices.Equal(got, wantVerts) {
		t.Errorf("vertices[0..3] = %v, want %v", got, wantVerts)
	}
	wantUVs := [][2]float32{{0, 0}, {0.5, 0}, {0.5, 0.5}, {0, 0.5}}
	if got := s.UVs()[0:4]; !slices.Equal(got, wantUVs) {
		t.Errorf("uvs[0..3] = %v, want %v", got, wantUVs)
	}
	if owner, ok := rec.Owner(); !ok || owner != ownerA {
		t.Errorf("Record.Owner() = %d, %v, want %d, true", owner, ok, ownerA)
	}
	checkPartition(t, s)
}

func TestReleaseScenario(t *testing.T) {
	s, sink := newTestStore(t, WithGrowthIncrement(4))
	id, err := s.Allocate(1, [2]float32{2, 2}, [2]float32{}, [2]float32{0.5, 0.5})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	s.Flush()
	sink.reset()

	if err := s.Release(id); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if got := s.Vertices()[0:4]; !slices.Equal(got, make([][3]float32, 4)) {
		t.Errorf("vertices[0..3] = %v, want all zero", got)
	}
	if !slices.Contains(s.FreeSlots(), id) {
		t.Errorf("FreeSlots() = %v, want to contain %d", s.FreeSlots(), id)
	}
	if s.IsActive(id) {
		t.Errorf("IsActive(%d) = true after Release", id)
	}
	rec, _ := s.Record(id)
	if _, ok := rec.Owner(); ok {
		t.Error("released record still has an owner")
	}
	topo, verts, uvs := s.Dirty()
	if topo || !verts || uvs {
		t.Errorf("Dirty() = %v %v %v, want only vertices", topo, verts, uvs)
	}

	s.Flush()
	if !slices.Equal(sink.calls, []string{"vertices"}) {
		t.Errorf("Flush() after Release calls = %v, want [vertices]", sink.calls)
	}
	checkPartition(t, s)
}

func TestGrowthFullReplaceScenario(t *testing.T) {
	s, sink := newTestStore(t, WithGrowthIncrement(4))
	s.Flush()
	sink.reset()

	for i := range 5 {
		if _, err := s.Allocate(OwnerID(i+1), [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); err != nil {
			t.Fatalf("Allocate(%d) error = %v", i, err)
		}
	}

	if s.Capacity() != 8 {
		t.Errorf("Capacity() = %d, want 8", s.Capacity())
	}
	if topo, _, _ := s.Dirty(); !topo {
		t.Error("topology not dirty after growth")
	}

	s.Flush()
	if want := []string{"vertices", "triangles", "uvs"}; !slices.Equal(sink.calls, want) {
		t.Fatalf("Flush() calls = %v, want %v", sink.calls, want)
	}
	if len(sink.vertices) != 32 || len(sink.triangles) != 48 || len(sink.uvs) != 32 {
		t.Errorf("full replace lengths = %d/%d/%d, want 32/48/32", len(sink.vertices), len(sink.triangles), len(sink.uvs))
	}
	if topo, verts, uvs := s.Dirty(); topo || verts || uvs {
		t.Errorf("Dirty() after Flush = %v %v %v, want all false", topo, verts, uvs)
	}

	sink.reset()
	s.Flush()
	if len(sink.calls) != 0 {
		t.Errorf("second Flush() calls = %v, want none", sink.calls)
	}
}

func TestGrowthPreservesActiveSlots(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(8))
	transform := TransformFunc(func(owner OwnerID, p [3]float32) [3]float32 {
		return [3]float32{p[0] + float32(owner), p[1] - float32(owner), 0}
	})

	for i := range 8 {
		rec := NewRecord(0)
		rec.SetGeometry(OwnerID(i), [2]float32{1, 2}, [2]float32{}, [2]float32{1, 1})
		id, err := s.Allocate(OwnerID(i), [2]float32{1, 2}, [2]float32{float32(i) / 8, 0}, [2]float32{0.125, 1})
		if err != nil {
			t.Fatalf("Allocate(%d) error = %v", i, err)
		}
		if err := s.UpdateTransform(id, rec.WorldVertices(transform)); err != nil {
			t.Fatalf("UpdateTransform(%d) error = %v", id, err)
		}
	}
	beforeVerts, beforeUVs := s.Vertices(), s.UVs()

	if _, err := s.Allocate(99, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); err != nil {
		t.Fatalf("ninth Allocate() error = %v", err)
	}

	if s.Capacity() != 16 {
		t.Errorf("Capacity() = %d, want 16", s.Capacity())
	}
	if got := s.Stats().Growths; got != 2 {
		t.Errorf("Stats().Growths = %d, want 2", got)
	}
	if got := s.Vertices()[:32]; !slices.Equal(got, beforeVerts) {
		t.Errorf("vertices of pre-existing slots changed across growth:\n got %v\nwant %v", got, beforeVerts)
	}
	if got := s.UVs()[:32]; !slices.Equal(got, beforeUVs) {
		t.Errorf("uvs of pre-existing slots changed across growth")
	}
	checkPartition(t, s)
}

func TestWindingFixed(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(3))
	for i := range 10 {
		if _, err := s.Allocate(OwnerID(i), [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
	}

	tris := s.Triangles()
	if len(tris) != s.Capacity()*6 {
		t.Fatalf("len(Triangles()) = %d, want %d", len(tris), s.Capacity()*6)
	}
	for i := range s.Capacity() {
		b := uint32(4 * i)
		want := []uint32{b, b + 3, b + 2, b, b + 2, b + 1}
		if got := tris[6*i : 6*i+6]; !slices.Equal(got, want) {
			t.Errorf("triangles[slot %d] = %v, want %v", i, got, want)
		}
	}
}

func TestSlotStability(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(2))
	for i := range 7 {
		if _, err := s.Allocate(OwnerID(i), [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
	}
	for _, id := range s.ActiveSlots() {
		rec, ok := s.Record(id)
		if !ok {
			t.Fatalf("Record(%d) missing", id)
		}
		if rec.Index() != int(id) {
			t.Errorf("Record(%d).Index() = %d", id, rec.Index())
		}
		base := int(id) * 4
		want := [4]int{base, base + 1, base + 2, base + 3}
		if rec.VertIndices() != want || rec.UVIndices() != want {
			t.Errorf("slot %d indices = %v / %v, want %v", id, rec.VertIndices(), rec.UVIndices(), want)
		}
	}
}

func TestAllocateReleaseRoundTrip(t *testing.T) {
	t.Run("fifo reuse order", func(t *testing.T) {
		s, _ := newTestStore(t, WithGrowthIncrement(4))
		id, _ := s.Allocate(1, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
		if err := s.Release(id); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		if got, want := s.FreeSlots(), []ID{1, 2, 3, 0}; !slices.Equal(got, want) {
			t.Errorf("FreeSlots() = %v, want %v", got, want)
		}
		next, _ := s.Allocate(2, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
		if next != 1 {
			t.Errorf("next Allocate() = %d, want 1", next)
		}
	})

	t.Run("single slot reuse", func(t *testing.T) {
		s, _ := newTestStore(t, WithGrowthIncrement(1))
		id, _ := s.Allocate(1, [2]float32{3, 3}, [2]float32{}, [2]float32{1, 1})
		if err := s.Release(id); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		again, err := s.Allocate(2, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
		if err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
		if again != id {
			t.Errorf("Allocate() after Release = %d, want reuse of %d", again, id)
		}
		if s.Capacity() != 1 {
			t.Errorf("Capacity() = %d, want 1 (no growth)", s.Capacity())
		}
	})
}

func TestInterleavedOperationsKeepPartition(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(5))
	rng := rand.New(rand.NewPCG(7, 11))
	live := map[ID]bool{}

	for step := range 500 {
		if len(live) == 0 || rng.IntN(3) > 0 {
			id, err := s.Allocate(OwnerID(step), [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
			if err != nil {
				t.Fatalf("step %d: Allocate() error = %v", step, err)
			}
			if live[id] {
				t.Fatalf("step %d: Allocate() returned active id %d", step, id)
			}
			live[id] = true
		} else {
			for id := range live {
				if err := s.Release(id); err != nil {
					t.Fatalf("step %d: Release(%d) error = %v", step, id, err)
				}
				delete(live, id)
				break
			}
		}
		if step%7 == 0 {
			s.Flush()
		}
		checkPartition(t, s)
	}
	if got := len(s.ActiveSlots()); got != len(live) {
		t.Errorf("ActiveSlots() has %d ids, want %d", got, len(live))
	}
}

func TestDirtyMinimality(t *testing.T) {
	s, sink := newTestStore(t, WithGrowthIncrement(4))
	ids := make([]ID, 3)
	for i := range ids {
		ids[i], _ = s.Allocate(OwnerID(i), [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
	}
	s.Flush()
	sink.reset()

	for frame := range 3 {
		for _, id := range ids {
			quad := [4][3]float32{{float32(frame), 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
			if err := s.UpdateTransform(id, quad); err != nil {
				t.Fatalf("UpdateTransform() error = %v", err)
			}
		}
		topo, verts, uvs := s.Dirty()
		if topo || !verts || uvs {
			t.Fatalf("frame %d: Dirty() = %v %v %v, want only vertices", frame, topo, verts, uvs)
		}
		s.Flush()
	}

	for _, c := range sink.calls {
		if c != "vertices" {
			t.Fatalf("Flush() after transform-only frames called %q; calls = %v", c, sink.calls)
		}
	}
	if len(sink.calls) != 3 {
		t.Errorf("vertex replacements = %d, want 3", len(sink.calls))
	}
	if got := s.Stats().VertexUploads; got != 3 {
		t.Errorf("Stats().VertexUploads = %d, want 3", got)
	}
}

func TestSetUVOnlyMarksUVs(t *testing.T) {
	s, sink := newTestStore(t, WithGrowthIncrement(2))
	id, _ := s.Allocate(1, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
	s.Flush()
	sink.reset()

	if err := s.SetUV(id, [2]float32{0.5, 0.25}, [2]float32{0.25, 0.25}); err != nil {
		t.Fatalf("SetUV() error = %v", err)
	}
	s.Flush()
	if !slices.Equal(sink.calls, []string{"uvs"}) {
		t.Errorf("Flush() after SetUV calls = %v, want [uvs]", sink.calls)
	}
	want := [][2]float32{{0.5, 0.25}, {0.75, 0.25}, {0.75, 0.5}, {0.5, 0.5}}
	if got := sink.uvs[0:4]; !slices.Equal(got, want) {
		t.Errorf("uvs = %v, want %v", got, want)
	}

	if err := s.SetUV(id, [2]float32{}, [2]float32{-1, 1}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SetUV(negative extent) error = %v, want ErrConfiguration", err)
	}
	if err := s.SetUV(5, [2]float32{}, [2]float32{1, 1}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("SetUV(free slot) error = %v, want ErrInvalidHandle", err)
	}
}

func TestAllocateUsesTransformer(t *testing.T) {
	offset := TransformFunc(func(owner OwnerID, p [3]float32) [3]float32 {
		return [3]float32{p[0] + 10, p[1] + 20, p[2]}
	})
	s, _ := newTestStore(t, WithGrowthIncrement(1), WithTransformer(offset))

	if s.Transformer() == nil {
		t.Fatal("Transformer() = nil")
	}
	id, err := s.Allocate(3, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	want := [][3]float32{{10, 20, 0}, {11, 20, 0}, {11, 21, 0}, {10, 21, 0}}
	if got := s.Vertices()[int(id)*4 : int(id)*4+4]; !slices.Equal(got, want) {
		t.Errorf("allocated vertices = %v, want %v", got, want)
	}
}

func TestRejectedOperationsDoNotMutate(t *testing.T) {
	tests := []struct {
		name    string
		op      func(s Store) error
		wantErr error
	}{
		{"release never allocated", func(s Store) error { return s.Release(3) }, ErrInvalidHandle},
		{"release out of range", func(s Store) error { return s.Release(100) }, ErrInvalidHandle},
		{"release negative", func(s Store) error { return s.Release(-1) }, ErrInvalidHandle},
		{"update free slot", func(s Store) error { return s.UpdateTransform(2, [4][3]float32{{1, 1, 1}}) }, ErrInvalidHandle},
		{"negative size", func(s Store) error {
			_, err := s.Allocate(1, [2]float32{-1, 1}, [2]float32{}, [2]float32{1, 1})
			return err
		}, ErrConfiguration},
		{"negative uv extent", func(s Store) error {
			_, err := s.Allocate(1, [2]float32{1, 1}, [2]float32{}, [2]float32{1, -0.5})
			return err
		}, ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t, WithGrowthIncrement(4))
			for i := range 2 {
				if _, err := s.Allocate(OwnerID(i), [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); err != nil {
					t.Fatalf("Allocate() error = %v", err)
				}
			}
			s.Flush()
			before := takeSnapshot(s)

			if err := tt.op(s); !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if after := takeSnapshot(s); !before.equal(after) {
				t.Errorf("state changed by rejected operation:\nbefore %+v\nafter  %+v", before, after)
			}
		})
	}
}

func TestDoubleReleaseRejected(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(2))
	id, _ := s.Allocate(1, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
	if err := s.Release(id); err != nil {
		t.Fatalf("first Release() error = %v", err)
	}
	before := takeSnapshot(s)
	if err := s.Release(id); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("second Release() error = %v, want ErrInvalidHandle", err)
	}
	if !before.equal(takeSnapshot(s)) {
		t.Error("second Release() mutated the store")
	}
}

func TestInvalidAllocateOnFullStoreDoesNotGrow(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(1))
	if _, err := s.Allocate(1, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if _, err := s.Allocate(2, [2]float32{-1, -1}, [2]float32{}, [2]float32{1, 1}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Allocate(negative) error = %v, want ErrConfiguration", err)
	}
	if s.Capacity() != 1 {
		t.Errorf("Capacity() = %d, want 1", s.Capacity())
	}
}

func TestCapacityExceeded(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(2), WithMaxCapacity(4))
	for i := range 4 {
		if _, err := s.Allocate(OwnerID(i), [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); err != nil {
			t.Fatalf("Allocate(%d) error = %v", i, err)
		}
	}
	before := takeSnapshot(s)

	if _, err := s.Allocate(9, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Allocate() past ceiling error = %v, want ErrCapacityExceeded", err)
	}
	if !before.equal(takeSnapshot(s)) {
		t.Error("failed growth mutated the store")
	}

	// Releasing frees a slot so allocation works again without growth.
	if err := s.Release(0); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if id, err := s.Allocate(9, [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1}); err != nil || id != 0 {
		t.Errorf("Allocate() after Release = %d, %v, want 0, nil", id, err)
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t, WithGrowthIncrement(2), WithLabel("test"))
	if s.Label() != "test" {
		t.Errorf("Label() = %q, want test", s.Label())
	}
	for i := range 3 {
		s.Allocate(OwnerID(i), [2]float32{1, 1}, [2]float32{}, [2]float32{1, 1})
	}
	s.Flush()
	s.UpdateTransform(0, [4][3]float32{})
	s.Flush()

	st := s.Stats()
	want := Stats{Capacity: 4, Active: 3, Free: 1, Growths: 2, Flushes: 2, FullUploads: 1, VertexUploads: 1}
	if st != want {
		t.Errorf("Stats() = %+v, want %+v", st, want)
	}
}
