package scene

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/engine/game_object"
	"github.com/Carmen-Shannon/oxy-swarm/engine/sprite"
)

func approxQuad(a, b [4][3]float32) bool {
	for i := range a {
		for j := range a[i] {
			if math.Abs(float64(a[i][j]-b[i][j])) > 1e-5 {
				return false
			}
		}
	}
	return true
}

func TestSceneRegistry(t *testing.T) {
	s := NewScene("test")
	a := game_object.NewGameObject()
	b := game_object.NewGameObject(game_object.WithID(10))
	c := game_object.NewGameObject()

	if id := s.Add(a); id != 1 {
		t.Errorf("Add(a) = %d, want 1", id)
	}
	if id := s.Add(b); id != 10 {
		t.Errorf("Add(b) = %d, want 10", id)
	}
	if id := s.Add(c); id != 11 {
		t.Errorf("Add(c) = %d, want 11 after explicit id 10", id)
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}

	objs := s.Objects()
	for i, want := range []uint64{1, 10, 11} {
		if objs[i].ID() != want {
			t.Errorf("Objects()[%d].ID() = %d, want %d", i, objs[i].ID(), want)
		}
	}

	s.Remove(10)
	s.Remove(999)
	if s.Get(10) != nil {
		t.Error("Get(10) after Remove is not nil")
	}
	if s.Get(1) != a {
		t.Error("Get(1) did not return the added object")
	}

	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", s.Count())
	}
}

func TestSceneWithObjects(t *testing.T) {
	s := NewScene("seeded", WithActive(false), WithObjects(game_object.NewGameObject(), game_object.NewGameObject()))
	if s.Active() {
		t.Error("Active() = true, want false")
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
	s.SetActive(true)
	s.SetName("renamed")
	if !s.Active() || s.Name() != "renamed" {
		t.Errorf("Active() = %v, Name() = %q", s.Active(), s.Name())
	}
}

func TestSceneTransformPoint(t *testing.T) {
	s := NewScene("transform")
	id := s.Add(game_object.NewGameObject(
		game_object.WithPosition(10, 20, 0),
		game_object.WithScale(2, 3, 1),
		game_object.WithRotation(0, 0, math.Pi/2),
	))

	tests := []struct {
		name  string
		owner sprite.OwnerID
		in    [3]float32
		want  [3]float32
	}{
		{"origin maps to position", sprite.OwnerID(id), [3]float32{0, 0, 0}, [3]float32{10, 20, 0}},
		{"x axis rotates onto y", sprite.OwnerID(id), [3]float32{1, 0, 0}, [3]float32{10, 22, 0}},
		{"y axis rotates onto -x", sprite.OwnerID(id), [3]float32{0, 1, 0}, [3]float32{7, 20, 0}},
		{"unknown owner is identity", 404, [3]float32{1, 2, 3}, [3]float32{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.TransformPoint(tt.owner, tt.in)
			if !approxQuad([4][3]float32{got}, [4][3]float32{tt.want}) {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSceneSpriteQuad(t *testing.T) {
	s := NewScene("quad")
	visible := s.Add(game_object.NewGameObject(
		game_object.WithPosition(5, 5, 0),
		game_object.WithScale(2, 4, 1),
	))
	hidden := s.Add(game_object.NewGameObject(
		game_object.WithPosition(-1, 3, 0),
		game_object.WithEnabled(false),
	))

	tests := []struct {
		name  string
		size  [2]float32
		owner sprite.OwnerID
		want  [4][3]float32
	}{
		{"unit quad anchored on position", [2]float32{1, 1}, sprite.OwnerID(visible), [4][3]float32{{5, 5, 0}, {7, 5, 0}, {7, 9, 0}, {5, 9, 0}}},
		{"size scales with the object", [2]float32{3, 0.5}, sprite.OwnerID(visible), [4][3]float32{{5, 5, 0}, {11, 5, 0}, {11, 7, 0}, {5, 7, 0}}},
		{"disabled collapses", [2]float32{3, 3}, sprite.OwnerID(hidden), [4][3]float32{{-1, 3, 0}, {-1, 3, 0}, {-1, 3, 0}, {-1, 3, 0}}},
		{"unknown owner keeps the local quad", [2]float32{2, 2}, 77, [4][3]float32{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SpriteQuad(tt.size).CurrentWorldQuad(tt.owner)
			if !approxQuad(got, tt.want) {
				t.Errorf("CurrentWorldQuad() = %v, want %v", got, tt.want)
			}
			// allocation writes the same corners through TransformPoint
			var viaPoints [4][3]float32
			for i, p := range sprite.LocalQuad(tt.size) {
				viaPoints[i] = s.TransformPoint(tt.owner, p)
			}
			if !approxQuad(viaPoints, got) {
				t.Errorf("TransformPoint corners = %v, want %v", viaPoints, got)
			}
		})
	}
}

func TestSceneSpriteKeepsSizeAcrossTicks(t *testing.T) {
	s := NewScene("sprites")
	obj := game_object.NewGameObject(game_object.WithPosition(1, 1, 0))
	id := s.Add(obj)

	store, err := sprite.NewStore(sprite.WithGrowthIncrement(2), sprite.WithTransformer(s))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	size := [2]float32{3, 3}
	h := sprite.NewHandle(store, sprite.OwnerID(id), sprite.WithSize(size), sprite.WithHostTransform(s.SpriteQuad(size)))
	if err := h.OnActivate(); err != nil {
		t.Fatalf("OnActivate() error = %v", err)
	}
	slot, _ := h.ID()
	quad := func() [4][3]float32 {
		var q [4][3]float32
		copy(q[:], store.Vertices()[int(slot)*4:int(slot)*4+4])
		return q
	}

	allocated := quad()
	if err := h.OnTick(); err != nil {
		t.Fatalf("OnTick() error = %v", err)
	}
	if ticked := quad(); ticked != allocated {
		t.Errorf("quad after first tick = %v, want allocation quad %v", ticked, allocated)
	}

	obj.SetPosition(3, 4, 0)
	if err := h.OnTick(); err != nil {
		t.Fatalf("OnTick() error = %v", err)
	}
	want := [4][3]float32{{3, 4, 0}, {6, 4, 0}, {6, 7, 0}, {3, 7, 0}}
	if got := quad(); !approxQuad(got, want) {
		t.Errorf("quad after move = %v, want %v", got, want)
	}
}
