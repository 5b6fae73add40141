package swarm

import "github.com/Carmen-Shannon/oxy-swarm/engine/game_object"

// SwarmBuilderOption is a functional option for configuring a Swarm.
type SwarmBuilderOption func(*swarm)

// WithInitialAgents sets how many agents NewSwarm spawns.
//
// Parameters:
//   - n: the agent count
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithInitialAgents(n int) SwarmBuilderOption {
	return func(s *swarm) {
		s.initialAgents = max(n, 0)
	}
}

// WithInitialRadius sets the radius of the circle new agents spawn in. Defaults to 10.
//
// Parameters:
//   - r: the spawn radius
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithInitialRadius(r float32) SwarmBuilderOption {
	return func(s *swarm) {
		s.initialRadius = r
	}
}

// WithOrigin sets the center of the spawn circle.
//
// Parameters:
//   - x, y: the origin
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithOrigin(x, y float32) SwarmBuilderOption {
	return func(s *swarm) {
		s.origin = [2]float32{x, y}
	}
}

// WithSeparation sets the distance below which agents push each other apart. Defaults to 1.
//
// Parameters:
//   - d: the separation distance
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithSeparation(d float32) SwarmBuilderOption {
	return func(s *swarm) {
		s.separation = d
	}
}

// WithScalarToCenter sets the weight of the pull toward the perceived center. Defaults to 0.8.
//
// Parameters:
//   - k: the weight
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithScalarToCenter(k float32) SwarmBuilderOption {
	return func(s *swarm) {
		s.scalarToCenter = k
	}
}

// WithAlignment sets the weight of the velocity-matching rule. Defaults to 0 (disabled).
//
// Parameters:
//   - k: the weight
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithAlignment(k float32) SwarmBuilderOption {
	return func(s *swarm) {
		s.alignment = k
	}
}

// WithMaxSpeed clamps agent speed. 0 leaves speed unbounded.
//
// Parameters:
//   - v: the maximum speed in world units per second
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithMaxSpeed(v float32) SwarmBuilderOption {
	return func(s *swarm) {
		s.maxSpeed = v
	}
}

// WithAgentScale sets the uniform scale given to spawned agents.
//
// Parameters:
//   - k: the scale
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithAgentScale(k float32) SwarmBuilderOption {
	return func(s *swarm) {
		s.agentScale = k
	}
}

// WithWorkers sets the number of goroutines computing steering. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the worker count (minimum 1)
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithWorkers(n int) SwarmBuilderOption {
	return func(s *swarm) {
		s.workers = n
	}
}

// WithSeed seeds the spawn position generator.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithSeed(seed uint64) SwarmBuilderOption {
	return func(s *swarm) {
		s.seed = seed
	}
}

// WithAgentHooks registers callbacks run after an agent is added and before it is removed.
// Either may be nil.
//
// Parameters:
//   - onAdd: called with each new agent
//   - onRemove: called with each removed agent
//
// Returns:
//   - SwarmBuilderOption: option function to apply
func WithAgentHooks(onAdd, onRemove func(game_object.GameObject)) SwarmBuilderOption {
	return func(s *swarm) {
		s.onAdd = onAdd
		s.onRemove = onRemove
	}
}
