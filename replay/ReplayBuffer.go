// Package replay implements fixed-capacity experience replay buffers
// with uniform, prioritized, and n-step sampling behaviour.
//
// Buffers are not safe for concurrent use. The intended call pattern is
// sequential: a sampler harvests rollouts into Store, and a training
// loop alternates Sample and UpdatePriorities. Callers that interleave
// these from multiple goroutines must add their own synchronization.
package replay

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lazyrl/lazyrl/timestep"
)

// Minibatch is the result of sampling a buffer: row-major batches of
// states, actions, and next states, with per-row rewards, next-state
// alive masks, and importance-sampling weights.
type Minibatch struct {
	States     *mat.Dense
	Actions    *mat.Dense
	NextStates *mat.Dense
	Rewards    []float64
	Masks      []float64
	Weights    []float64
}

// Len returns the number of transitions in the Minibatch.
func (m *Minibatch) Len() int {
	return len(m.Rewards)
}

// Buffer is a fixed-capacity store of transitions. Once full, storing
// overwrites the oldest entries in FIFO ring order.
type Buffer interface {
	// Store appends every transition of the batch to the buffer,
	// evicting the oldest entries once at capacity.
	Store(batch timestep.Batch) error

	// Sample draws n transitions with replacement. Sampling an empty
	// buffer is an error, even for n larger than the current length.
	Sample(n int) (*Minibatch, error)

	// Len returns the number of valid transitions in the buffer.
	Len() int
}

// PriorityUpdater is a Buffer whose sampling distribution is driven by
// per-slot priorities that the training loop feeds back after each
// sample.
type PriorityUpdater interface {
	Buffer

	// UpdatePriorities assigns one new priority per index of the most
	// recent Sample call, in sample order.
	UpdatePriorities(values []float64) error
}

// Kind selects the base sampling behaviour of a Config.
type Kind int

const (
	UniformKind Kind = iota
	PrioritizedKind
)

// Config implements a specific configuration of a replay Buffer.
type Config struct {
	Kind        Kind
	Capacity    int
	FeatureSize int
	ActionSize  int

	// Prioritized sampling only
	Alpha float64
	Beta  float64

	// NSteps > 1 wraps the base buffer in n-step accumulation with
	// discount Gamma.
	NSteps int
	Gamma  float64

	Seed uint64
}

// Create creates and returns the Buffer described by the Config.
func (c Config) Create() (Buffer, error) {
	var base Buffer
	var err error

	switch c.Kind {
	case UniformKind:
		base, err = NewUniform(c.Capacity, c.FeatureSize, c.ActionSize,
			c.Seed)
	case PrioritizedKind:
		base, err = NewPrioritized(c.Capacity, c.FeatureSize, c.ActionSize,
			c.Alpha, c.Beta, c.Seed)
	default:
		return nil, fmt.Errorf("create: unknown buffer kind %v", c.Kind)
	}
	if err != nil {
		return nil, err
	}

	if c.NSteps > 1 {
		return NewNStep(base, c.NSteps, c.Gamma)
	}
	return base, nil
}
