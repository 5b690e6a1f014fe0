package replay

import (
	"fmt"
)

// Paired couples the agent's own replay buffer with a frozen buffer of
// expert demonstrations. Stores feed the agent side only; SampleBoth
// draws one minibatch from each side for consumers that contrast agent
// behaviour with demonstrations, such as adversarial imitation
// discriminators.
type Paired struct {
	Buffer
	expert Buffer
}

// NewPaired returns a Paired buffer over the given agent and expert
// buffers. The expert buffer is expected to be pre-filled and is never
// written through the Paired wrapper.
func NewPaired(agent, expert Buffer) (*Paired, error) {
	if agent == nil || expert == nil {
		return nil, fmt.Errorf("newPaired: agent and expert buffers must " +
			"be non-nil")
	}
	return &Paired{Buffer: agent, expert: expert}, nil
}

// SampleBoth draws a minibatch of size n from the agent buffer and an
// independent minibatch of size n from the expert buffer.
func (p *Paired) SampleBoth(n int) (*Minibatch, *Minibatch, error) {
	agentBatch, err := p.Buffer.Sample(n)
	if err != nil {
		return nil, nil, err
	}

	expertBatch, err := p.expert.Sample(n)
	if err != nil {
		return nil, nil, err
	}

	return agentBatch, expertBatch, nil
}

// ExpertLen returns the number of demonstrations in the expert buffer.
func (p *Paired) ExpertLen() int {
	return p.expert.Len()
}
