package replay

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/lazyrl/lazyrl/timestep"
)

// Uniform is a fixed-capacity replay buffer that samples uniformly at
// random with replacement. Storage is flat: transitions live in
// preallocated caches of capacity*featureSize and capacity*actionSize
// float64s, written in ring order.
type Uniform struct {
	stateCache     []float64
	actionCache    []float64
	nextStateCache []float64
	rewardCache    []float64
	maskCache      []float64

	pos  int
	full bool

	capacity    int
	featureSize int
	actionSize  int

	rng *rand.Rand
}

// NewUniform returns a Uniform buffer holding at most capacity
// transitions of the given feature and action sizes.
func NewUniform(capacity, featureSize, actionSize int,
	seed uint64) (*Uniform, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("newUniform: capacity must be >= 1, got %v",
			capacity)
	}
	if featureSize < 1 || actionSize < 1 {
		return nil, fmt.Errorf("newUniform: feature size (%v) and action "+
			"size (%v) must be >= 1", featureSize, actionSize)
	}

	return &Uniform{
		stateCache:     make([]float64, capacity*featureSize),
		actionCache:    make([]float64, capacity*actionSize),
		nextStateCache: make([]float64, capacity*featureSize),
		rewardCache:    make([]float64, capacity),
		maskCache:      make([]float64, capacity),

		capacity:    capacity,
		featureSize: featureSize,
		actionSize:  actionSize,

		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// write copies one transition into the caches at the current ring
// position and returns the slot it was written to.
func (u *Uniform) write(t timestep.Transition) (int, error) {
	if t.State.Len() != u.featureSize || t.NextState.Len() != u.featureSize {
		return 0, fmt.Errorf("store: invalid feature size "+
			"\n\twant(%v)\n\thave(%v)", u.featureSize, t.State.Len())
	}
	if t.Action.Len() != u.actionSize {
		return 0, fmt.Errorf("store: invalid action size "+
			"\n\twant(%v)\n\thave(%v)", u.actionSize, t.Action.Len())
	}

	slot := u.pos

	stateInd := slot * u.featureSize
	copy(u.stateCache[stateInd:stateInd+u.featureSize],
		t.State.Features().RawVector().Data)
	copy(u.nextStateCache[stateInd:stateInd+u.featureSize],
		t.NextState.Features().RawVector().Data)

	actionInd := slot * u.actionSize
	copy(u.actionCache[actionInd:actionInd+u.actionSize],
		t.Action.Features().RawVector().Data)

	u.rewardCache[slot] = t.Reward
	u.maskCache[slot] = t.NextState.Mask()

	u.pos++
	if u.pos == u.capacity {
		u.pos = 0
		u.full = true
	}
	return slot, nil
}

// Store implements the Buffer interface.
func (u *Uniform) Store(batch timestep.Batch) error {
	for i := 0; i < batch.Len(); i++ {
		if _, err := u.write(batch.At(i)); err != nil {
			return err
		}
	}
	return nil
}

// gather builds a Minibatch from the transitions at the given slots.
// The weight vector is left for the caller to fill.
func (u *Uniform) gather(indices []int) *Minibatch {
	n := len(indices)

	states := make([]float64, n*u.featureSize)
	nextStates := make([]float64, n*u.featureSize)
	actions := make([]float64, n*u.actionSize)
	rewards := make([]float64, n)
	masks := make([]float64, n)

	for i, slot := range indices {
		batchInd := i * u.featureSize
		expInd := slot * u.featureSize
		copy(states[batchInd:batchInd+u.featureSize],
			u.stateCache[expInd:expInd+u.featureSize])
		copy(nextStates[batchInd:batchInd+u.featureSize],
			u.nextStateCache[expInd:expInd+u.featureSize])

		batchInd = i * u.actionSize
		expInd = slot * u.actionSize
		copy(actions[batchInd:batchInd+u.actionSize],
			u.actionCache[expInd:expInd+u.actionSize])

		rewards[i] = u.rewardCache[slot]
		masks[i] = u.maskCache[slot]
	}

	return &Minibatch{
		States:     mat.NewDense(n, u.featureSize, states),
		Actions:    mat.NewDense(n, u.actionSize, actions),
		NextStates: mat.NewDense(n, u.featureSize, nextStates),
		Rewards:    rewards,
		Masks:      masks,
	}
}

// Sample implements the Buffer interface. Uniform sampling carries no
// importance correction, so every weight is exactly 1.
func (u *Uniform) Sample(n int) (*Minibatch, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample: batch size must be >= 1, got %v", n)
	}
	if u.Len() == 0 {
		return nil, &Error{Op: "sample", Err: errEmptyBuffer}
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = u.rng.Intn(u.Len())
	}

	batch := u.gather(indices)
	batch.Weights = make([]float64, n)
	for i := range batch.Weights {
		batch.Weights[i] = 1.0
	}
	return batch, nil
}

// Len implements the Buffer interface.
func (u *Uniform) Len() int {
	if u.full {
		return u.capacity
	}
	return u.pos
}

// Capacity returns the maximum number of transitions the buffer holds.
func (u *Uniform) Capacity() int {
	return u.capacity
}

func (u *Uniform) String() string {
	return fmt.Sprintf("Uniform | Capacity: %v  |  Length: %v", u.capacity,
		u.Len())
}
