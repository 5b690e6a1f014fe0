// Package agent defines the agent capabilities consumed by samplers.
package agent

import (
	"github.com/lazyrl/lazyrl/timestep"
)

// Agent is the training-side policy owner. Before each sampling round
// it produces a LazyAgent, a frozen snapshot of its current policy that
// rollout workers can run without synchronizing on the live, mutating
// policy.
type Agent interface {
	// MakeLazyAgent returns a fresh policy snapshot for one sampling
	// round.
	MakeLazyAgent() LazyAgent
}

// LazyAgent is an immutable policy snapshot together with a
// rollout-scoped accumulation buffer. A LazyAgent is owned by exactly
// one worker; dispatchers hand each worker its own copy via Dup.
//
// Act is called once per environment timestep with the current state
// and the reward of the previous action. The agent records the
// completed (state, action, reward, next state) transition internally
// and returns the action for the new state. Transitions never span an
// episode boundary: a terminal state closes the pending transition
// without opening a new one.
type LazyAgent interface {
	// Act selects an action for the given state and folds the previous
	// step's outcome into the rollout buffer.
	Act(state timestep.State, reward float64) (timestep.Action, error)

	// Rollout returns the transitions accumulated so far, in temporal
	// order.
	Rollout() timestep.Batch

	// Dup returns an independent copy of the snapshot with an empty
	// rollout buffer and its own stream of randomness.
	Dup() LazyAgent
}
