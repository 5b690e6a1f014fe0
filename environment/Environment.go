// Package environment describes the environment capability consumed by
// rollout workers.
package environment

import (
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/lazyrl/lazyrl/timestep"
)

// Spec tells the shape and bounds of an observation vector.
type Spec struct {
	Dims   int
	Bounds []r1.Interval
}

// NewSpec returns a Spec with the given per-dimension bounds.
func NewSpec(bounds []r1.Interval) Spec {
	return Spec{Dims: len(bounds), Bounds: bounds}
}

// Environment is a stateful, episodic simulation. An Environment is
// owned by exactly one rollout worker; new workers obtain their own
// instances through Duplicate.
//
// Between Reset and the step on which Done first reports true, State,
// Reward, and Done observe the result of the most recent Step.
type Environment interface {
	// Reset starts a new episode and sets the current state to a
	// starting state.
	Reset() error

	// Step advances the environment by one timestep under the given
	// action.
	Step(action timestep.Action) error

	// State returns the current state. Its mask is false once the
	// episode has ended.
	State() timestep.State

	// Reward returns the reward produced by the most recent Step, or 0
	// directly after Reset.
	Reward() float64

	// Done returns whether the current episode has ended.
	Done() bool

	// Duplicate returns an independent copy of the environment for use
	// by a new worker. The copy shares no mutable state with the
	// receiver.
	Duplicate() (Environment, error)

	// Seed reseeds all randomness of the environment.
	Seed(seed uint64)

	// ObservationSpec describes the shape and bounds of states.
	ObservationSpec() Spec

	// ActionSpec describes the shape and bounds of legal actions.
	ActionSpec() timestep.ActionSpec
}
