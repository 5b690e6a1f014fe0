package agent

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lazyrl/lazyrl/timestep"
	"github.com/lazyrl/lazyrl/utils/floatutils"
)

// Linear is a training-side agent whose policy is a linear map from
// observation features to action features with additive Gaussian
// exploration noise. It is deliberately simple: it exists to drive
// samplers and buffers, not to learn well.
type Linear struct {
	weights    *mat.Dense // actionDims x obsDims
	noiseScale float64
	actionSpec timestep.ActionSpec
	seed       uint64
	rounds     uint64
}

// NewLinear returns a Linear agent with zero-initialized weights acting
// on the given observation and action shapes.
func NewLinear(obsDims int, actionSpec timestep.ActionSpec,
	noiseScale float64, seed uint64) (*Linear, error) {
	if obsDims < 1 {
		return nil, fmt.Errorf("newLinear: observation dims must be "+
			"positive, got %v", obsDims)
	}
	if actionSpec.Dims < 1 {
		return nil, fmt.Errorf("newLinear: action dims must be positive, "+
			"got %v", actionSpec.Dims)
	}
	if noiseScale < 0 {
		return nil, fmt.Errorf("newLinear: noise scale must be "+
			"non-negative, got %v", noiseScale)
	}

	return &Linear{
		weights:    mat.NewDense(actionSpec.Dims, obsDims, nil),
		noiseScale: noiseScale,
		actionSpec: actionSpec,
		seed:       seed,
	}, nil
}

// SetWeights replaces the policy weights. The matrix is copied so later
// updates by the caller do not leak into outstanding snapshots.
func (l *Linear) SetWeights(weights *mat.Dense) error {
	r, c := weights.Dims()
	wr, wc := l.weights.Dims()
	if r != wr || c != wc {
		return fmt.Errorf("setWeights: invalid weight shape "+
			"\n\twant(%vx%v)\n\thave(%vx%v)", wr, wc, r, c)
	}
	l.weights.Copy(weights)
	return nil
}

// MakeLazyAgent returns a frozen snapshot of the current policy. Each
// call derives a fresh noise seed so distinct rounds explore
// independently.
func (l *Linear) MakeLazyAgent() LazyAgent {
	l.rounds++

	snapshot := mat.DenseCopyOf(l.weights)
	return newLazyLinear(snapshot, l.noiseScale, l.actionSpec,
		l.seed+l.rounds*7919)
}

// lazyLinear is the frozen rollout-side half of Linear. The weights are
// shared between copies and never written; each copy owns its rollout
// buffer and noise stream.
type lazyLinear struct {
	weights    *mat.Dense
	noiseScale float64
	actionSpec timestep.ActionSpec
	noise      distuv.Normal
	seed       uint64
	dups       uint64

	batch      timestep.Batch
	prevState  timestep.State
	prevAction timestep.Action
	havePrev   bool
}

func newLazyLinear(weights *mat.Dense, noiseScale float64,
	actionSpec timestep.ActionSpec, seed uint64) *lazyLinear {
	return &lazyLinear{
		weights:    weights,
		noiseScale: noiseScale,
		actionSpec: actionSpec,
		noise: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewSource(seed),
		},
		seed: seed,
	}
}

// Act implements the LazyAgent interface.
func (l *lazyLinear) Act(state timestep.State,
	reward float64) (timestep.Action, error) {
	if l.havePrev {
		l.batch.Append(timestep.Transition{
			State:     l.prevState,
			Action:    l.prevAction,
			Reward:    reward,
			NextState: state,
		})
	}

	action, err := l.selectAction(state)
	if err != nil {
		return timestep.Action{}, err
	}

	if state.Alive() {
		l.prevState = state
		l.prevAction = action
		l.havePrev = true
	} else {
		// Terminal states close the episode. The next Act call starts
		// a new transition chain.
		l.havePrev = false
	}

	return action, nil
}

// selectAction computes clip(W*s + noise) within the action bounds.
func (l *lazyLinear) selectAction(state timestep.State) (timestep.Action,
	error) {
	_, c := l.weights.Dims()
	if state.Len() != c {
		return timestep.Action{}, fmt.Errorf("act: invalid feature size "+
			"\n\twant(%v)\n\thave(%v)", c, state.Len())
	}

	features := mat.NewVecDense(l.actionSpec.Dims, nil)
	features.MulVec(l.weights, state.Features())

	data := features.RawVector().Data
	for i := range data {
		if l.noiseScale > 0 {
			data[i] += l.noiseScale * l.noise.Rand()
		}
		data[i] = floatutils.ClipInterval(data[i], l.actionSpec.Bounds[i])
	}

	return timestep.NewAction(l.actionSpec, data)
}

// Rollout implements the LazyAgent interface.
func (l *lazyLinear) Rollout() timestep.Batch {
	return l.batch
}

// Dup implements the LazyAgent interface.
func (l *lazyLinear) Dup() LazyAgent {
	l.dups++
	return newLazyLinear(l.weights, l.noiseScale, l.actionSpec,
		l.seed+l.dups)
}
