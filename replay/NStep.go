package replay

import (
	"fmt"

	"github.com/gammazero/deque"

	"github.com/lazyrl/lazyrl/timestep"
)

// pending is a transition window that has not yet been flushed to the
// inner buffer. ret accumulates the discounted return collected since
// the window opened; discount is the factor to apply to the next
// incoming reward.
type pending struct {
	state    timestep.State
	action   timestep.Action
	ret      float64
	discount float64
}

// NStep wraps an inner buffer and replaces raw transitions with n-step
// transitions: the first state and action of a window of up to n raw
// transitions, the discounted sum of the window's rewards, and the last
// next state of the window.
//
// Windows overlap. Once n raw transitions have accumulated, each
// additional store flushes exactly one synthesized transition and
// slides the window by one. A terminal transition flushes every pending
// window immediately, however short.
type NStep struct {
	inner  Buffer
	steps  int
	gamma  float64
	window deque.Deque[*pending]
}

// NewNStep returns an NStep accumulator over the inner buffer with the
// given step count and discount factor.
func NewNStep(inner Buffer, steps int, gamma float64) (*NStep, error) {
	if inner == nil {
		return nil, fmt.Errorf("newNStep: inner buffer is nil")
	}
	if steps < 1 {
		return nil, fmt.Errorf("newNStep: steps must be >= 1, got %v", steps)
	}
	if gamma < 0 || gamma > 1 {
		return nil, fmt.Errorf("newNStep: gamma must be in [0, 1], got %v",
			gamma)
	}

	return &NStep{
		inner: inner,
		steps: steps,
		gamma: gamma,
	}, nil
}

// Store implements the Buffer interface.
func (n *NStep) Store(batch timestep.Batch) error {
	for i := 0; i < batch.Len(); i++ {
		if err := n.store(batch.At(i)); err != nil {
			return err
		}
	}
	return nil
}

// store folds one raw transition into every open window and flushes
// whatever the window state requires.
func (n *NStep) store(t timestep.Transition) error {
	n.window.PushBack(&pending{
		state:    t.State,
		action:   t.Action,
		discount: 1.0,
	})

	for i := 0; i < n.window.Len(); i++ {
		p := n.window.At(i)
		p.ret += p.discount * t.Reward
		p.discount *= n.gamma
	}

	if !t.NextState.Alive() {
		// Terminal: every open window is flushed against the terminal
		// state, however few rewards it has accumulated.
		for n.window.Len() > 0 {
			if err := n.flush(n.window.PopFront(), t.NextState); err != nil {
				return err
			}
		}
		return nil
	}

	if n.window.Len() == n.steps {
		return n.flush(n.window.PopFront(), t.NextState)
	}
	return nil
}

// flush forwards one synthesized n-step transition to the inner buffer.
func (n *NStep) flush(p *pending, next timestep.State) error {
	batch := timestep.NewBatch(1)
	batch.Append(timestep.Transition{
		State:     p.state,
		Action:    p.action,
		Reward:    p.ret,
		NextState: next,
	})
	return n.inner.Store(batch)
}

// Sample implements the Buffer interface by delegating to the inner
// buffer. Pending windows are not sampleable.
func (n *NStep) Sample(size int) (*Minibatch, error) {
	return n.inner.Sample(size)
}

// Len implements the Buffer interface by delegating to the inner
// buffer.
func (n *NStep) Len() int {
	return n.inner.Len()
}

// Pending returns the number of raw transitions waiting in open
// windows.
func (n *NStep) Pending() int {
	return n.window.Len()
}

// UpdatePriorities forwards priority updates to the inner buffer if it
// tracks priorities.
func (n *NStep) UpdatePriorities(values []float64) error {
	if updater, ok := n.inner.(PriorityUpdater); ok {
		return updater.UpdatePriorities(values)
	}
	return &Error{Op: "updatePriorities", Err: errNotPrioritized}
}

func (n *NStep) String() string {
	return fmt.Sprintf("NStep | Steps: %v  |  Gamma: %v  |  Pending: %v  |"+
		"  Length: %v", n.steps, n.gamma, n.window.Len(), n.Len())
}
