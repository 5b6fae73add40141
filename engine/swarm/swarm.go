package swarm

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/game_object"
	"github.com/Carmen-Shannon/oxy-swarm/engine/scene"
)

// Defaults for the flocking rules.
const (
	DefaultInitialRadius  float32 = 10
	DefaultSeparation     float32 = 1
	DefaultScalarToCenter float32 = 0.8
)

// Swarm is a boids-style flock of GameObjects living in a Scene.
// Each Update applies three rules per agent: move toward the perceived center of the others,
// push away from neighbours closer than the separation distance, and match the mean velocity.
// Steering is computed in parallel against a snapshot and applied afterwards, so results do
// not depend on the worker count.
type Swarm interface {
	// Update advances every agent by dt seconds. Does nothing with fewer than two agents.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// AddAgent creates a new agent at a random point inside the initial radius and adds it to the scene.
	//
	// Returns:
	//   - game_object.GameObject: the new agent
	AddAgent() game_object.GameObject

	// RemoveAgent removes an agent from the swarm and the scene.
	//
	// Parameters:
	//   - id: the agent's object ID
	//
	// Returns:
	//   - bool: false if id is not an agent of this swarm
	RemoveAgent(id uint64) bool

	// Agents returns the current agents in creation order.
	//
	// Returns:
	//   - []game_object.GameObject: the agents
	Agents() []game_object.GameObject

	// Count returns the number of agents.
	Count() int

	// Centroid returns the mean agent position, or the swarm origin when empty.
	//
	// Returns:
	//   - [2]float32: the centroid
	Centroid() [2]float32

	// Stop shuts down the steering worker pool. The swarm must not be updated afterwards.
	Stop()
}

type swarm struct {
	mu *sync.Mutex

	sc     scene.Scene
	agents []game_object.GameObject
	rng    *rand.Rand

	origin         [2]float32
	initialAgents  int
	initialRadius  float32
	separation     float32
	scalarToCenter float32
	alignment      float32
	maxSpeed       float32
	agentScale     float32
	seed           uint64

	workers int
	pool    worker.DynamicWorkerPool

	onAdd    func(game_object.GameObject)
	onRemove func(game_object.GameObject)

	// scratch buffers reused across frames
	pos, vel, nextPos, nextVel [][2]float32
}

var _ Swarm = &swarm{}

// NewSwarm creates a swarm in sc and spawns its initial agents.
//
// Parameters:
//   - sc: the scene that owns the agent objects
//   - options: functional options (rule weights, agent count, workers, seed, hooks)
//
// Returns:
//   - Swarm: the new swarm
func NewSwarm(sc scene.Scene, options ...SwarmBuilderOption) Swarm {
	if sc == nil {
		panic("swarm: NewSwarm requires a non-nil Scene")
	}
	s := &swarm{
		mu:             &sync.Mutex{},
		sc:             sc,
		initialRadius:  DefaultInitialRadius,
		separation:     DefaultSeparation,
		scalarToCenter: DefaultScalarToCenter,
		agentScale:     1,
		seed:           1,
		workers:        max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)

	for range s.initialAgents {
		s.AddAgent()
	}
	return s
}

func (s *swarm) AddAgent() game_object.GameObject {
	s.mu.Lock()
	// uniform inside the circle
	r := s.initialRadius * float32(math.Sqrt(s.rng.Float64()))
	theta := 2 * math.Pi * s.rng.Float64()
	x := s.origin[0] + r*float32(math.Cos(theta))
	y := s.origin[1] + r*float32(math.Sin(theta))

	obj := game_object.NewGameObject(
		game_object.WithPosition(x, y, 0),
		game_object.WithScale(s.agentScale, s.agentScale, 1),
	)
	s.sc.Add(obj)
	s.agents = append(s.agents, obj)
	onAdd := s.onAdd
	s.mu.Unlock()

	if onAdd != nil {
		onAdd(obj)
	}
	return obj
}

func (s *swarm) RemoveAgent(id uint64) bool {
	s.mu.Lock()
	idx := -1
	for i, a := range s.agents {
		if a.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	obj := s.agents[idx]
	s.agents = append(s.agents[:idx], s.agents[idx+1:]...)
	onRemove := s.onRemove
	s.mu.Unlock()

	if onRemove != nil {
		onRemove(obj)
	}
	s.sc.Remove(id)
	return true
}

func (s *swarm) Agents() []game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]game_object.GameObject, len(s.agents))
	copy(out, s.agents)
	return out
}

func (s *swarm) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.agents)
}

func (s *swarm) Centroid() [2]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.agents) == 0 {
		return s.origin
	}
	var sum [2]float32
	for _, a := range s.agents {
		x, y, _ := a.Position()
		sum[0] += x
		sum[1] += y
	}
	n := float32(len(s.agents))
	return [2]float32{sum[0] / n, sum[1] / n}
}

func (s *swarm) Stop() {
	s.pool.Stop()
}

func (s *swarm) Update(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.agents)
	if n < 2 {
		return
	}
	s.snapshot()

	// Phase 1: parallel steering over the snapshot, one contiguous chunk per worker.
	chunk := (n + s.workers - 1) / s.workers
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		id := taskID
		taskID++
		s.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					s.steer(i, dt)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Phase 2: sequential apply.
	for i, a := range s.agents {
		p, v := s.nextPos[i], s.nextVel[i]
		a.SetVelocity(v[0], v[1], 0)
		_, _, z := a.Position()
		a.SetPosition(p[0], p[1], z)
		if v[0] != 0 || v[1] != 0 {
			rx, ry, _ := a.Rotation()
			a.SetRotation(rx, ry, float32(math.Atan2(float64(v[1]), float64(v[0]))))
		}
	}
}

// snapshot copies agent state into the scratch buffers. Caller must hold s.mu.
func (s *swarm) snapshot() {
	n := len(s.agents)
	if cap(s.pos) < n {
		s.pos = make([][2]float32, n)
		s.vel = make([][2]float32, n)
		s.nextPos = make([][2]float32, n)
		s.nextVel = make([][2]float32, n)
	}
	s.pos, s.vel = s.pos[:n], s.vel[:n]
	s.nextPos, s.nextVel = s.nextPos[:n], s.nextVel[:n]
	for i, a := range s.agents {
		x, y, _ := a.Position()
		vx, vy, _ := a.Velocity()
		s.pos[i] = [2]float32{x, y}
		s.vel[i] = [2]float32{vx, vy}
	}
}

// steer computes agent i's next velocity and position from the snapshot.
// Reads only pos/vel and writes only index i of nextPos/nextVel, so chunks run concurrently.
func (s *swarm) steer(i int, dt float32) {
	n := len(s.pos)
	p, v := s.pos[i], s.vel[i]

	var sumPos, sumVel, avoid [2]float32
	for j := range n {
		if j == i {
			continue
		}
		o := s.pos[j]
		sumPos[0] += o[0]
		sumPos[1] += o[1]
		sumVel[0] += s.vel[j][0]
		sumVel[1] += s.vel[j][1]
		if common.Length2(o[0]-p[0], o[1]-p[1]) < s.separation {
			avoid[0] += p[0] - o[0]
			avoid[1] += p[1] - o[1]
		}
	}

	others := float32(n - 1)
	toCenter := [2]float32{
		(sumPos[0]/others - p[0]) * s.scalarToCenter,
		(sumPos[1]/others - p[1]) * s.scalarToCenter,
	}
	toMatch := [2]float32{
		(sumVel[0]/others - v[0]) * s.alignment,
		(sumVel[1]/others - v[1]) * s.alignment,
	}

	v[0] += (toCenter[0] + avoid[0] + toMatch[0]) * dt
	v[1] += (toCenter[1] + avoid[1] + toMatch[1]) * dt

	if s.maxSpeed > 0 {
		if speed := common.Length2(v[0], v[1]); speed > s.maxSpeed {
			k := s.maxSpeed / speed
			v[0] *= k
			v[1] *= k
		}
	}

	s.nextVel[i] = v
	s.nextPos[i] = [2]float32{p[0] + v[0]*dt, p[1] + v[1]*dt}
}
