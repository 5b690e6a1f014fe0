package replay

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lazyrl/lazyrl/timestep"
)

// minPriority is the floor applied to priorities so that no stored
// transition ever becomes unsampleable.
const minPriority = 1e-8

// Prioritized is a replay buffer whose sampling probability for slot i
// is proportional to priority_i^alpha. Freshly stored transitions
// receive the maximum priority currently in the buffer so that new data
// is sampled at least once before being down-weighted.
//
// Prioritized enforces a single-outstanding-sample discipline: every
// Sample must be followed by UpdatePriorities before the next Sample.
type Prioritized struct {
	*Uniform

	priorities []float64
	alpha      float64
	beta       float64

	src rand.Source

	// Slots of the most recent Sample, awaiting UpdatePriorities. A nil
	// slice means no sample is outstanding.
	lastSample []int
}

// NewPrioritized returns a Prioritized buffer with temperature exponent
// alpha applied to priorities and exponent beta applied to the
// importance-sampling weights. Alpha is typically in (0, 1].
func NewPrioritized(capacity, featureSize, actionSize int, alpha,
	beta float64, seed uint64) (*Prioritized, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("newPrioritized: alpha must be > 0, got %v",
			alpha)
	}
	if beta < 0 {
		return nil, fmt.Errorf("newPrioritized: beta must be >= 0, got %v",
			beta)
	}

	uniform, err := NewUniform(capacity, featureSize, actionSize, seed)
	if err != nil {
		return nil, err
	}

	return &Prioritized{
		Uniform:    uniform,
		priorities: make([]float64, capacity),
		alpha:      alpha,
		beta:       beta,
		src:        rand.NewSource(seed + 1),
	}, nil
}

// maxPriority returns the largest priority currently stored, or 1 for
// an empty buffer.
func (p *Prioritized) maxPriority() float64 {
	if p.Len() == 0 {
		return 1.0
	}
	return floats.Max(p.priorities[:p.Len()])
}

// Store implements the Buffer interface. Every stored transition
// receives the current maximum priority.
func (p *Prioritized) Store(batch timestep.Batch) error {
	for i := 0; i < batch.Len(); i++ {
		priority := p.maxPriority()
		slot, err := p.write(batch.At(i))
		if err != nil {
			return err
		}
		p.priorities[slot] = priority
	}
	return nil
}

// Sample implements the Buffer interface. The returned weights are
// w_i = (1 / (N * P_i))^beta, normalized so that the largest weight in
// the batch is exactly 1.
func (p *Prioritized) Sample(n int) (*Minibatch, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample: batch size must be >= 1, got %v", n)
	}
	if p.lastSample != nil {
		return nil, &Error{Op: "sample", Err: errOutstandingSample}
	}
	if p.Len() == 0 {
		return nil, &Error{Op: "sample", Err: errEmptyBuffer}
	}

	size := p.Len()
	scaled := make([]float64, size)
	for i, priority := range p.priorities[:size] {
		scaled[i] = math.Pow(priority, p.alpha)
	}
	total := floats.Sum(scaled)

	dist := distuv.NewCategorical(scaled, p.src)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = int(dist.Rand())
	}

	batch := p.gather(indices)
	batch.Weights = make([]float64, n)
	for i, slot := range indices {
		prob := scaled[slot] / total
		batch.Weights[i] = math.Pow(1.0/(float64(size)*prob), p.beta)
	}
	floats.Scale(1.0/floats.Max(batch.Weights), batch.Weights)

	p.lastSample = indices
	return batch, nil
}

// UpdatePriorities implements the PriorityUpdater interface. The values
// are applied to the slots of the most recent Sample call in sample
// order; negative values are treated by magnitude, as with TD errors.
func (p *Prioritized) UpdatePriorities(values []float64) error {
	if p.lastSample == nil {
		return &Error{Op: "updatePriorities", Err: errNoOutstandingSample}
	}
	if len(values) != len(p.lastSample) {
		return &Error{Op: "updatePriorities", Err: errCountMismatch}
	}

	for i, slot := range p.lastSample {
		p.priorities[slot] = math.Max(math.Abs(values[i]), minPriority)
	}
	p.lastSample = nil
	return nil
}

func (p *Prioritized) String() string {
	return fmt.Sprintf("Prioritized | Capacity: %v  |  Length: %v  |  "+
		"Alpha: %v  |  Beta: %v", p.Capacity(), p.Len(), p.alpha, p.beta)
}
