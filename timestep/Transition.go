package timestep

// Transition is a single (state, action, reward, next state) tuple of
// agent-environment interaction.
type Transition struct {
	State     State
	Action    Action
	Reward    float64
	NextState State
}

// Batch is an ordered sequence of transitions produced by one rollout.
// Order within a Batch is temporal; no ordering is defined across
// batches from different workers.
type Batch struct {
	transitions []Transition
}

// NewBatch returns an empty Batch with room for n transitions.
func NewBatch(n int) Batch {
	return Batch{transitions: make([]Transition, 0, n)}
}

// Append adds a transition to the end of the Batch.
func (b *Batch) Append(t Transition) {
	b.transitions = append(b.transitions, t)
}

// Extend appends every transition of other to the Batch in order.
func (b *Batch) Extend(other Batch) {
	b.transitions = append(b.transitions, other.transitions...)
}

// Len returns the number of transitions in the Batch.
func (b Batch) Len() int {
	return len(b.transitions)
}

// At returns the i-th transition of the Batch in temporal order.
func (b Batch) At(i int) Transition {
	return b.transitions[i]
}

// States returns the starting states of the Batch in temporal order.
func (b Batch) States() []State {
	states := make([]State, len(b.transitions))
	for i, t := range b.transitions {
		states[i] = t.State
	}
	return states
}

// Actions returns the actions of the Batch in temporal order.
func (b Batch) Actions() []Action {
	actions := make([]Action, len(b.transitions))
	for i, t := range b.transitions {
		actions[i] = t.Action
	}
	return actions
}

// Rewards returns the rewards of the Batch in temporal order.
func (b Batch) Rewards() []float64 {
	rewards := make([]float64, len(b.transitions))
	for i, t := range b.transitions {
		rewards[i] = t.Reward
	}
	return rewards
}

// NextStates returns the successor states of the Batch in temporal
// order.
func (b Batch) NextStates() []State {
	states := make([]State, len(b.transitions))
	for i, t := range b.transitions {
		states[i] = t.NextState
	}
	return states
}
