package tensorutils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
	"gorgonia.org/tensor"

	"github.com/lazyrl/lazyrl/replay"
	"github.com/lazyrl/lazyrl/timestep"
)

func sampledMinibatch(t *testing.T, featureSize, n int) *replay.Minibatch {
	t.Helper()

	buffer, err := replay.NewUniform(100, featureSize, 1, 42)
	if err != nil {
		t.Fatal(err)
	}

	spec := timestep.NewActionSpec([]r1.Interval{
		{Min: math.Inf(-1), Max: math.Inf(1)},
	})
	batch := timestep.NewBatch(4)
	for i := 0; i < 4; i++ {
		features := make([]float64, featureSize)
		features[0] = float64(i)
		action, err := timestep.NewAction(spec, []float64{float64(i)})
		if err != nil {
			t.Fatal(err)
		}
		batch.Append(timestep.Transition{
			State:     timestep.NewState(features),
			Action:    action,
			Reward:    float64(i),
			NextState: timestep.NewTerminalState(features),
		})
	}
	if err := buffer.Store(batch); err != nil {
		t.Fatal(err)
	}

	minibatch, err := buffer.Sample(n)
	if err != nil {
		t.Fatal(err)
	}
	return minibatch
}

func TestFromMinibatchShapes(t *testing.T) {
	const (
		featureSize = 3
		n           = 5
	)
	minibatch := sampledMinibatch(t, featureSize, n)

	states, actions, rewards, nextStates, masks, weights,
		err := FromMinibatch(minibatch)
	if err != nil {
		t.Fatal(err)
	}

	for name, tens := range map[string]*tensor.Dense{
		"states": states, "nextStates": nextStates,
	} {
		shape := tens.Shape()
		if len(shape) != 2 || shape[0] != n || shape[1] != featureSize {
			t.Errorf("%v: expected shape (%v, %v), got %v", name, n,
				featureSize, shape)
		}
	}

	if shape := actions.Shape(); len(shape) != 2 || shape[0] != n ||
		shape[1] != 1 {
		t.Errorf("actions: expected shape (%v, 1), got %v", n, shape)
	}

	for name, tens := range map[string]*tensor.Dense{
		"rewards": rewards, "masks": masks, "weights": weights,
	} {
		shape := tens.Shape()
		if len(shape) != 1 || shape[0] != n {
			t.Errorf("%v: expected shape (%v), got %v", name, n, shape)
		}
	}
}

func TestFromMinibatchCopiesData(t *testing.T) {
	minibatch := sampledMinibatch(t, 2, 3)

	states, _, rewards, _, _, _, err := FromMinibatch(minibatch)
	if err != nil {
		t.Fatal(err)
	}

	before := minibatch.States.At(0, 0)
	if err := states.SetAt(before+100, 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := minibatch.States.At(0, 0); got != before {
		t.Errorf("mutating the tensor reached the minibatch: %v became %v",
			before, got)
	}

	wantReward := minibatch.Rewards[0]
	got, err := rewards.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if got != wantReward {
		t.Errorf("reward 0: expected %v, got %v", wantReward, got)
	}
}

func TestFromMinibatchConsistentValues(t *testing.T) {
	minibatch := sampledMinibatch(t, 2, 4)

	states, _, _, _, masks, _, err := FromMinibatch(minibatch)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < minibatch.Len(); i++ {
		got, err := states.At(i, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got != minibatch.States.At(i, 0) {
			t.Errorf("state %v: expected %v, got %v", i,
				minibatch.States.At(i, 0), got)
		}

		mask, err := masks.At(i)
		if err != nil {
			t.Fatal(err)
		}
		if mask != minibatch.Masks[i] {
			t.Errorf("mask %v: expected %v, got %v", i, minibatch.Masks[i],
				mask)
		}
	}
}

func TestFromMinibatchEmpty(t *testing.T) {
	if _, _, _, _, _, _, err := FromMinibatch(nil); err == nil {
		t.Fatal("expected an error for a nil minibatch")
	}
}
