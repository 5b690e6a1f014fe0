// Package chain implements a small stochastic chain-walk environment.
//
// The environment is a row of positions. Episodes start near the
// middle, actions push the walker left or right with some slip
// probability, and the episode ends at either edge or after a step
// limit. Reaching the right edge pays +1, the left edge -1. The
// environment is deliberately tiny: it exists to exercise samplers and
// replay buffers with real episodic dynamics.
package chain

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lazyrl/lazyrl/environment"
	"github.com/lazyrl/lazyrl/timestep"
)

const (
	// RightReward is the reward for reaching the right edge
	RightReward float64 = 1.0

	// LeftReward is the reward for reaching the left edge
	LeftReward float64 = -1.0
)

// Chain implements environment.Environment as a bounded random walk
// over positions 0..n-1 with one-hot observations and a single
// continuous action in [-1, 1] whose sign selects the direction.
type Chain struct {
	positions int
	stepLimit int
	slipProb  float64
	seed      uint64

	position int
	steps    int
	reward   float64
	done     bool

	slip    distuv.Bernoulli
	starter *distmv.Uniform
}

// New returns a new Chain with the given number of positions, episode
// step limit, and probability that a step slips in the opposite
// direction.
func New(positions, stepLimit int, slipProb float64, seed uint64) (*Chain,
	error) {
	if positions < 3 {
		return nil, fmt.Errorf("new: chain needs at least 3 positions, "+
			"got %v", positions)
	}
	if stepLimit < 1 {
		return nil, fmt.Errorf("new: step limit must be positive, got %v",
			stepLimit)
	}
	if slipProb < 0 || slipProb > 1 {
		return nil, fmt.Errorf("new: slip probability must be in [0, 1], "+
			"got %v", slipProb)
	}

	c := &Chain{
		positions: positions,
		stepLimit: stepLimit,
		slipProb:  slipProb,
	}
	c.Seed(seed)
	c.position = positions / 2

	return c, nil
}

// Seed reseeds the slip and starting-state distributions.
func (c *Chain) Seed(seed uint64) {
	c.seed = seed
	c.slip = distuv.Bernoulli{P: c.slipProb, Src: rand.NewSource(seed)}

	// Episodes start uniformly within the middle third of the chain
	low := float64(c.positions) / 3.0
	high := 2.0 * float64(c.positions) / 3.0
	bounds := []r1.Interval{{Min: low, Max: high}}
	c.starter = distmv.NewUniform(bounds, rand.NewSource(seed+1))
}

// Reset starts a new episode at a position drawn from the starting
// distribution.
func (c *Chain) Reset() error {
	c.position = int(c.starter.Rand(nil)[0])
	c.steps = 0
	c.reward = 0
	c.done = false
	return nil
}

// Step moves the walker one position in the direction given by the
// sign of the action, flipped with the slip probability.
func (c *Chain) Step(action timestep.Action) error {
	if c.done {
		return fmt.Errorf("step: cannot step in a completed episode")
	}
	if action.Len() != 1 {
		return fmt.Errorf("step: invalid action size "+
			"\n\twant(%v)\n\thave(%v)", 1, action.Len())
	}

	direction := 1
	if action.Features().AtVec(0) < 0 {
		direction = -1
	}
	if c.slip.Rand() == 1 {
		direction = -direction
	}

	c.position += direction
	c.steps++

	switch {
	case c.position <= 0:
		c.position = 0
		c.reward = LeftReward
		c.done = true
	case c.position >= c.positions-1:
		c.position = c.positions - 1
		c.reward = RightReward
		c.done = true
	default:
		c.reward = 0
		c.done = c.steps >= c.stepLimit
	}
	return nil
}

// State returns the one-hot encoding of the current position. The
// state is terminal once the episode has ended.
func (c *Chain) State() timestep.State {
	features := make([]float64, c.positions)
	features[c.position] = 1.0

	if c.done {
		return timestep.NewTerminalState(features)
	}
	return timestep.NewState(features)
}

// Reward returns the reward of the most recent step.
func (c *Chain) Reward() float64 {
	return c.reward
}

// Done returns whether the current episode has ended.
func (c *Chain) Done() bool {
	return c.done
}

// Duplicate returns an independent Chain with the same dynamics and a
// derived seed. Callers that need reproducibility should reseed the
// copy explicitly.
func (c *Chain) Duplicate() (environment.Environment, error) {
	return New(c.positions, c.stepLimit, c.slipProb, c.seed+1)
}

// ObservationSpec describes the one-hot observation vector.
func (c *Chain) ObservationSpec() environment.Spec {
	bounds := make([]r1.Interval, c.positions)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: 0, Max: 1}
	}
	return environment.NewSpec(bounds)
}

// ActionSpec describes the single continuous action in [-1, 1].
func (c *Chain) ActionSpec() timestep.ActionSpec {
	return timestep.NewActionSpec([]r1.Interval{{Min: -1, Max: 1}})
}

func (c *Chain) String() string {
	return fmt.Sprintf("Chain | Positions: %v  |  Position: %v  |  "+
		"Steps: %v  |  Done: %v", c.positions, c.position, c.steps, c.done)
}
