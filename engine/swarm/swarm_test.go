package swarm

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/engine/game_object"
	"github.com/Carmen-Shannon/oxy-swarm/engine/scene"
)

func newTestSwarm(t *testing.T, options ...SwarmBuilderOption) (Swarm, scene.Scene) {
	t.Helper()
	sc := scene.NewScene("swarm-test")
	s := NewSwarm(sc, options...)
	t.Cleanup(s.Stop)
	return s, sc
}

// place sets agents to fixed positions and velocities.
func place(s Swarm, pos, vel [][2]float32) {
	for i, a := range s.Agents() {
		a.SetPosition(pos[i][0], pos[i][1], 0)
		a.SetVelocity(vel[i][0], vel[i][1], 0)
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestSwarmSpawn(t *testing.T) {
	var added []uint64
	s, sc := newTestSwarm(t,
		WithInitialAgents(200),
		WithInitialRadius(5),
		WithOrigin(100, -50),
		WithAgentScale(0.5),
		WithAgentHooks(func(obj game_object.GameObject) { added = append(added, obj.ID()) }, nil),
	)

	if s.Count() != 200 || sc.Count() != 200 {
		t.Fatalf("Count() = %d, scene Count() = %d, want 200", s.Count(), sc.Count())
	}
	if len(added) != 200 {
		t.Errorf("onAdd called %d times, want 200", len(added))
	}
	for _, a := range s.Agents() {
		x, y, _ := a.Position()
		if d := math.Hypot(float64(x-100), float64(y+50)); d > 5+1e-4 {
			t.Fatalf("agent %d at distance %v from origin, want <= 5", a.ID(), d)
		}
		if sx, sy, _ := a.Scale(); sx != 0.5 || sy != 0.5 {
			t.Fatalf("agent scale = %v %v, want 0.5", sx, sy)
		}
	}
}

func TestSwarmUpdateRules(t *testing.T) {
	tests := []struct {
		name    string
		options []SwarmBuilderOption
		pos     [][2]float32
		vel     [][2]float32
		dt      float32
		wantPos [][2]float32
		wantVel [][2]float32
	}{
		{
			name:    "flock to center",
			options: []SwarmBuilderOption{WithScalarToCenter(0.8), WithSeparation(1)},
			pos:     [][2]float32{{0, 0}, {4, 0}},
			vel:     [][2]float32{{0, 0}, {0, 0}},
			dt:      1,
			wantVel: [][2]float32{{3.2, 0}, {-3.2, 0}},
			wantPos: [][2]float32{{3.2, 0}, {0.8, 0}},
		},
		{
			name:    "separation pushes apart",
			options: []SwarmBuilderOption{WithScalarToCenter(0), WithSeparation(1)},
			pos:     [][2]float32{{0, 0}, {0, 0.5}},
			vel:     [][2]float32{{0, 0}, {0, 0}},
			dt:      0.5,
			wantVel: [][2]float32{{0, -0.25}, {0, 0.25}},
			wantPos: [][2]float32{{0, -0.125}, {0, 0.625}},
		},
		{
			name:    "alignment matches velocity",
			options: []SwarmBuilderOption{WithScalarToCenter(0), WithSeparation(0), WithAlignment(0.5)},
			pos:     [][2]float32{{0, 0}, {10, 0}},
			vel:     [][2]float32{{1, 0}, {-1, 0}},
			dt:      1,
			wantVel: [][2]float32{{0, 0}, {0, 0}},
			wantPos: [][2]float32{{0, 0}, {10, 0}},
		},
		{
			name:    "speed clamp",
			options: []SwarmBuilderOption{WithScalarToCenter(1), WithSeparation(0), WithMaxSpeed(2)},
			pos:     [][2]float32{{0, 0}, {0, 100}},
			vel:     [][2]float32{{0, 0}, {0, 0}},
			dt:      1,
			wantVel: [][2]float32{{0, 2}, {0, -2}},
			wantPos: [][2]float32{{0, 2}, {0, 98}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSwarm(t, append([]SwarmBuilderOption{WithInitialAgents(len(tt.pos))}, tt.options...)...)
			place(s, tt.pos, tt.vel)
			s.Update(tt.dt)

			for i, a := range s.Agents() {
				x, y, _ := a.Position()
				vx, vy, _ := a.Velocity()
				if !near(x, tt.wantPos[i][0]) || !near(y, tt.wantPos[i][1]) {
					t.Errorf("agent %d position = (%v, %v), want %v", i, x, y, tt.wantPos[i])
				}
				if !near(vx, tt.wantVel[i][0]) || !near(vy, tt.wantVel[i][1]) {
					t.Errorf("agent %d velocity = (%v, %v), want %v", i, vx, vy, tt.wantVel[i])
				}
			}
		})
	}
}

func TestSwarmUpdateNeedsTwoAgents(t *testing.T) {
	s, _ := newTestSwarm(t, WithInitialAgents(1))
	place(s, [][2]float32{{3, 4}}, [][2]float32{{1, 1}})
	s.Update(1)

	x, y, _ := s.Agents()[0].Position()
	if x != 3 || y != 4 {
		t.Errorf("lone agent moved to (%v, %v)", x, y)
	}
}

func TestSwarmRotationFollowsHeading(t *testing.T) {
	s, _ := newTestSwarm(t, WithInitialAgents(2), WithScalarToCenter(1), WithSeparation(0))
	place(s, [][2]float32{{0, 0}, {0, 10}}, [][2]float32{{0, 0}, {0, 0}})
	s.Update(0.1)

	agents := s.Agents()
	if _, _, rz := agents[0].Rotation(); !near(rz, math.Pi/2) {
		t.Errorf("agent 0 heading = %v, want pi/2", rz)
	}
	if _, _, rz := agents[1].Rotation(); !near(rz, -math.Pi/2) {
		t.Errorf("agent 1 heading = %v, want -pi/2", rz)
	}
}

func TestSwarmDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) [][3]float32 {
		s, _ := newTestSwarm(t,
			WithInitialAgents(64),
			WithSeed(42),
			WithWorkers(workers),
			WithAlignment(0.1),
			WithMaxSpeed(5),
		)
		for range 20 {
			s.Update(1.0 / 60)
		}
		var out [][3]float32
		for _, a := range s.Agents() {
			x, y, z := a.Position()
			out = append(out, [3]float32{x, y, z})
		}
		return out
	}

	single, parallel := run(1), run(7)
	for i := range single {
		if single[i] != parallel[i] {
			t.Fatalf("agent %d diverged: 1 worker %v, 7 workers %v", i, single[i], parallel[i])
		}
	}
}

func TestSwarmRemoveAgentAndCentroid(t *testing.T) {
	var removed []uint64
	s, sc := newTestSwarm(t,
		WithInitialAgents(3),
		WithOrigin(7, 7),
		WithAgentHooks(nil, func(obj game_object.GameObject) { removed = append(removed, obj.ID()) }),
	)
	place(s, [][2]float32{{0, 0}, {2, 0}, {4, 6}}, make([][2]float32, 3))

	if c := s.Centroid(); !near(c[0], 2) || !near(c[1], 2) {
		t.Errorf("Centroid() = %v, want [2 2]", c)
	}

	target := s.Agents()[2].ID()
	if !s.RemoveAgent(target) {
		t.Fatalf("RemoveAgent(%d) = false", target)
	}
	if s.RemoveAgent(target) {
		t.Error("second RemoveAgent() = true")
	}
	if sc.Get(target) != nil {
		t.Error("removed agent still in scene")
	}
	if len(removed) != 1 || removed[0] != target {
		t.Errorf("onRemove calls = %v, want [%d]", removed, target)
	}
	if c := s.Centroid(); !near(c[0], 1) || !near(c[1], 0) {
		t.Errorf("Centroid() after remove = %v, want [1 0]", c)
	}

	for _, a := range s.Agents() {
		s.RemoveAgent(a.ID())
	}
	if c := s.Centroid(); c != [2]float32{7, 7} {
		t.Errorf("Centroid() of empty swarm = %v, want origin [7 7]", c)
	}
}
