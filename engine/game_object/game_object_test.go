package game_object

import "testing"

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()

	if obj.ID() != 0 {
		t.Errorf("ID() = %d, want 0", obj.ID())
	}
	if !obj.Enabled() {
		t.Error("Enabled() = false, want true")
	}
	if sx, sy, sz := obj.Scale(); sx != 1 || sy != 1 || sz != 1 {
		t.Errorf("Scale() = %v %v %v, want 1 1 1", sx, sy, sz)
	}
	if x, y, z := obj.Position(); x != 0 || y != 0 || z != 0 {
		t.Errorf("Position() = %v %v %v, want origin", x, y, z)
	}
}

func TestGameObjectOptionsAndSetters(t *testing.T) {
	obj := NewGameObject(
		WithID(9),
		WithEnabled(false),
		WithPosition(1, 2, 3),
		WithScale(4, 5, 6),
		WithRotation(0, 0, 1.5),
		WithVelocity(-1, 0.5, 0),
	)

	pos, scale, rot := obj.TransformData()
	if pos != [3]float32{1, 2, 3} || scale != [3]float32{4, 5, 6} || rot != [3]float32{0, 0, 1.5} {
		t.Errorf("TransformData() = %v %v %v", pos, scale, rot)
	}
	if vx, vy, vz := obj.Velocity(); vx != -1 || vy != 0.5 || vz != 0 {
		t.Errorf("Velocity() = %v %v %v, want -1 0.5 0", vx, vy, vz)
	}
	if obj.ID() != 9 || obj.Enabled() {
		t.Errorf("ID() = %d, Enabled() = %v, want 9, false", obj.ID(), obj.Enabled())
	}

	obj.SetID(12)
	obj.SetEnabled(true)
	obj.SetPosition(7, 8, 0)
	obj.SetRotation(0, 0, -1)
	obj.SetScale(2, 2, 1)
	obj.SetVelocity(3, 4, 0)

	if obj.ID() != 12 || !obj.Enabled() {
		t.Errorf("after setters ID() = %d, Enabled() = %v", obj.ID(), obj.Enabled())
	}
	if x, y, _ := obj.Position(); x != 7 || y != 8 {
		t.Errorf("Position() = %v %v, want 7 8", x, y)
	}
	if _, _, rz := obj.Rotation(); rz != -1 {
		t.Errorf("Rotation() z = %v, want -1", rz)
	}
	if sx, sy, sz := obj.Scale(); sx != 2 || sy != 2 || sz != 1 {
		t.Errorf("Scale() = %v %v %v, want 2 2 1", sx, sy, sz)
	}
	if vx, vy, _ := obj.Velocity(); vx != 3 || vy != 4 {
		t.Errorf("Velocity() = %v %v, want 3 4", vx, vy)
	}
}
