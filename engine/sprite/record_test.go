package sprite

import "testing"

func TestNewRecord(t *testing.T) {
	tests := []struct {
		index int
		want  [4]int
	}{
		{0, [4]int{0, 1, 2, 3}},
		{1, [4]int{4, 5, 6, 7}},
		{9, [4]int{36, 37, 38, 39}},
	}

	for _, tt := range tests {
		r := NewRecord(tt.index)
		if r.Index() != tt.index {
			t.Errorf("NewRecord(%d).Index() = %d", tt.index, r.Index())
		}
		if r.VertIndices() != tt.want {
			t.Errorf("NewRecord(%d).VertIndices() = %v, want %v", tt.index, r.VertIndices(), tt.want)
		}
		if r.UVIndices() != tt.want {
			t.Errorf("NewRecord(%d).UVIndices() = %v, want %v", tt.index, r.UVIndices(), tt.want)
		}
		if _, ok := r.Owner(); ok {
			t.Errorf("NewRecord(%d) has an owner", tt.index)
		}
	}
}

func TestRecordGeometry(t *testing.T) {
	r := NewRecord(2)
	r.SetGeometry(7, [2]float32{3, 1.5}, [2]float32{0.25, 0.5}, [2]float32{0.25, 0.5})

	if owner, ok := r.Owner(); !ok || owner != 7 {
		t.Fatalf("Owner() = %d, %v, want 7, true", owner, ok)
	}
	wantLocal := [4][3]float32{{0, 0, 0}, {3, 0, 0}, {3, 1.5, 0}, {0, 1.5, 0}}
	if r.LocalQuad() != wantLocal {
		t.Errorf("LocalQuad() = %v, want %v", r.LocalQuad(), wantLocal)
	}
	wantUV := [4][2]float32{{0.25, 0.5}, {0.5, 0.5}, {0.5, 1}, {0.25, 1}}
	if r.UVRect() != wantUV {
		t.Errorf("UVRect() = %v, want %v", r.UVRect(), wantUV)
	}

	r.Clear()
	if _, ok := r.Owner(); ok {
		t.Error("Owner() still set after Clear")
	}
	if r.LocalQuad() != ([4][3]float32{}) {
		t.Errorf("LocalQuad() after Clear = %v, want zero", r.LocalQuad())
	}
	if r.UVOrigin() != ([2]float32{}) || r.UVExtent() != ([2]float32{}) {
		t.Errorf("UV rectangle after Clear = %v %v, want zero", r.UVOrigin(), r.UVExtent())
	}
	if r.Index() != 2 || r.VertIndices() != [4]int{8, 9, 10, 11} {
		t.Error("Clear changed the slot indices")
	}
}

func TestRecordWorldVertices(t *testing.T) {
	shift := TransformFunc(func(owner OwnerID, p [3]float32) [3]float32 {
		return [3]float32{p[0] + float32(owner), p[1], p[2] + 1}
	})

	tests := []struct {
		name  string
		setup func(r *Record)
		want  [4][3]float32
	}{
		{
			name:  "free record ignores transform",
			setup: func(r *Record) {},
			want:  [4][3]float32{},
		},
		{
			name: "owned record is transformed",
			setup: func(r *Record) {
				r.SetGeometry(5, [2]float32{1, 2}, [2]float32{}, [2]float32{1, 1})
			},
			want: [4][3]float32{{5, 0, 1}, {6, 0, 1}, {6, 2, 1}, {5, 2, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord(0)
			tt.setup(&r)
			if got := r.WorldVertices(shift); got != tt.want {
				t.Errorf("WorldVertices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOwnerQuad(t *testing.T) {
	scale := TransformFunc(func(_ OwnerID, p [3]float32) [3]float32 {
		return [3]float32{p[0] * 2, p[1] * 2, p[2]}
	})
	got := OwnerQuad(scale, [2]float32{1, 3}).CurrentWorldQuad(1)
	want := [4][3]float32{{0, 0, 0}, {2, 0, 0}, {2, 6, 0}, {0, 6, 0}}
	if got != want {
		t.Errorf("CurrentWorldQuad() = %v, want %v", got, want)
	}
}
