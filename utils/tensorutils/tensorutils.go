// Package tensorutils bridges sampled minibatches to the dense tensor
// types consumed by downstream learners.
package tensorutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/lazyrl/lazyrl/replay"
)

// FromMinibatch converts a sampled minibatch into dense tensors: states
// and next states of shape (n, featureSize), actions of shape
// (n, actionSize), and rewards, masks, and weights as length-n vectors.
// All backing data is copied; mutating the tensors does not touch the
// minibatch.
func FromMinibatch(m *replay.Minibatch) (states, actions, rewards,
	nextStates, masks, weights *tensor.Dense, err error) {
	if m == nil || m.Len() == 0 {
		return nil, nil, nil, nil, nil, nil,
			fmt.Errorf("fromMinibatch: empty minibatch")
	}

	states = denseFromMat(m.States)
	actions = denseFromMat(m.Actions)
	nextStates = denseFromMat(m.NextStates)
	rewards = denseFromVec(m.Rewards)
	masks = denseFromVec(m.Masks)
	weights = denseFromVec(m.Weights)
	return states, actions, rewards, nextStates, masks, weights, nil
}

// denseFromMat copies a row-major matrix into a rank-2 tensor.
func denseFromMat(m *mat.Dense) *tensor.Dense {
	r, c := m.Dims()
	backing := make([]float64, r*c)
	copy(backing, m.RawMatrix().Data)
	return tensor.New(tensor.WithShape(r, c), tensor.WithBacking(backing))
}

// denseFromVec copies a slice into a rank-1 tensor.
func denseFromVec(v []float64) *tensor.Dense {
	backing := make([]float64, len(v))
	copy(backing, v)
	return tensor.New(tensor.WithShape(len(v)), tensor.WithBacking(backing))
}
