package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// ActionSpec describes the fixed shape and bounds of an action space.
// Every Action is bound to such a spec at construction so that buffers
// and workers can rely on a single action dimensionality for a run.
type ActionSpec struct {
	Dims   int
	Bounds []r1.Interval
}

// NewActionSpec returns an ActionSpec with the given per-dimension
// bounds.
func NewActionSpec(bounds []r1.Interval) ActionSpec {
	return ActionSpec{Dims: len(bounds), Bounds: bounds}
}

// Action is an agent decision represented as a feature vector whose
// shape is fixed by an ActionSpec.
type Action struct {
	features *mat.VecDense
}

// NewAction returns an Action holding the given features. An error is
// returned if the features do not match the spec's shape.
func NewAction(spec ActionSpec, features []float64) (Action, error) {
	if len(features) != spec.Dims {
		return Action{}, fmt.Errorf("newAction: invalid action size "+
			"\n\twant(%v)\n\thave(%v)", spec.Dims, len(features))
	}
	return Action{features: mat.NewVecDense(len(features), features)}, nil
}

// Features returns the feature vector of the Action.
func (a Action) Features() *mat.VecDense {
	return a.features
}

// Len returns the number of features in the Action.
func (a Action) Len() int {
	if a.features == nil {
		return 0
	}
	return a.features.Len()
}

// Clone returns an Action with its own copy of the feature vector.
func (a Action) Clone() Action {
	clone := mat.NewVecDense(a.features.Len(), nil)
	clone.CopyVec(a.features)
	return Action{features: clone}
}

func (a Action) String() string {
	return fmt.Sprintf("Action | Features: %v", a.features.RawVector().Data)
}
