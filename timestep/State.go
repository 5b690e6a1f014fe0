// Package timestep implements the data containers passed between
// environments, agents, and replay buffers.
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// State packages an observation feature vector together with an alive
// mask. A false mask marks a terminal (absorbing) state: no further
// rewards follow it and bootstrapping should stop there.
type State struct {
	features *mat.VecDense
	alive    bool
}

// NewState returns a live State holding the given features. The feature
// slice is not copied.
func NewState(features []float64) State {
	return State{
		features: mat.NewVecDense(len(features), features),
		alive:    true,
	}
}

// NewTerminalState returns a State whose mask marks it terminal.
func NewTerminalState(features []float64) State {
	return State{
		features: mat.NewVecDense(len(features), features),
		alive:    false,
	}
}

// Features returns the observation vector of the State.
func (s State) Features() *mat.VecDense {
	return s.features
}

// Len returns the number of features in the State.
func (s State) Len() int {
	if s.features == nil {
		return 0
	}
	return s.features.Len()
}

// Alive returns whether the State is non-terminal.
func (s State) Alive() bool {
	return s.alive
}

// Mask returns the alive mask as a float64, 1 for a live state and 0
// for a terminal state.
func (s State) Mask() float64 {
	if s.alive {
		return 1.0
	}
	return 0.0
}

// Clone returns a State with its own copy of the feature vector.
func (s State) Clone() State {
	clone := mat.NewVecDense(s.features.Len(), nil)
	clone.CopyVec(s.features)
	return State{features: clone, alive: s.alive}
}

func (s State) String() string {
	return fmt.Sprintf("State | Alive: %v  |  Features: %v", s.alive,
		s.features.RawVector().Data)
}
