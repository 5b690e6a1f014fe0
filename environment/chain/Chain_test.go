package chain

import (
	"testing"

	"github.com/lazyrl/lazyrl/timestep"
)

func action(t *testing.T, env *Chain, value float64) timestep.Action {
	t.Helper()
	a, err := timestep.NewAction(env.ActionSpec(), []float64{value})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// runEpisode steps with a fixed action until the episode ends, returning
// the visited positions as one-hot argmax indices.
func runEpisode(t *testing.T, env *Chain, value float64) []int {
	t.Helper()
	if err := env.Reset(); err != nil {
		t.Fatal(err)
	}

	var positions []int
	for !env.Done() {
		if err := env.Step(action(t, env, value)); err != nil {
			t.Fatal(err)
		}
		positions = append(positions, argmax(env.State()))
	}
	return positions
}

func argmax(state timestep.State) int {
	best := 0
	for i := 1; i < state.Len(); i++ {
		if state.Features().AtVec(i) > state.Features().AtVec(best) {
			best = i
		}
	}
	return best
}

func TestChainRightEdgeTerminates(t *testing.T) {
	env, err := New(5, 100, 0.0, 1)
	if err != nil {
		t.Fatal(err)
	}

	// With no slip, always stepping right must reach the right edge
	positions := runEpisode(t, env, 1.0)

	if !env.Done() {
		t.Fatal("expected a finished episode")
	}
	if got := positions[len(positions)-1]; got != 4 {
		t.Errorf("expected to end at the right edge, got position %v", got)
	}
	if env.Reward() != RightReward {
		t.Errorf("expected reward %v at the right edge, got %v", RightReward,
			env.Reward())
	}
	if env.State().Alive() {
		t.Error("expected a terminal state at the edge")
	}
}

func TestChainLeftEdgeTerminates(t *testing.T) {
	env, err := New(5, 100, 0.0, 1)
	if err != nil {
		t.Fatal(err)
	}

	positions := runEpisode(t, env, -1.0)

	if got := positions[len(positions)-1]; got != 0 {
		t.Errorf("expected to end at the left edge, got position %v", got)
	}
	if env.Reward() != LeftReward {
		t.Errorf("expected reward %v at the left edge, got %v", LeftReward,
			env.Reward())
	}
}

func TestChainStepLimit(t *testing.T) {
	const stepLimit = 3

	// A full slip probability of 0.5 keeps the walker wandering, but the
	// chain is long enough that 3 steps cannot reach an edge
	env, err := New(101, stepLimit, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}

	positions := runEpisode(t, env, 1.0)
	if len(positions) != stepLimit {
		t.Fatalf("expected the episode to stop after %v steps, got %v",
			stepLimit, len(positions))
	}
	if env.Reward() != 0 {
		t.Errorf("expected no reward at the step limit, got %v", env.Reward())
	}
	if !env.Done() {
		t.Error("expected a finished episode at the step limit")
	}
}

func TestChainStepAfterDone(t *testing.T) {
	env, err := New(5, 100, 0.0, 1)
	if err != nil {
		t.Fatal(err)
	}
	runEpisode(t, env, 1.0)

	if err := env.Step(action(t, env, 1.0)); err == nil {
		t.Fatal("expected an error stepping a completed episode")
	}
}

func TestChainSeedReproducibility(t *testing.T) {
	run := func(seed uint64) [][]int {
		env, err := New(9, 20, 0.3, seed)
		if err != nil {
			t.Fatal(err)
		}
		var episodes [][]int
		for i := 0; i < 5; i++ {
			episodes = append(episodes, runEpisode(t, env, 1.0))
		}
		return episodes
	}

	first := run(14)
	second := run(14)

	if len(first) != len(second) {
		t.Fatalf("episode counts differ: %v and %v", len(first), len(second))
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Fatalf("episode %v lengths differ: %v and %v", i,
				len(first[i]), len(second[i]))
		}
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("episode %v diverges at step %v: %v and %v", i, j,
					first[i][j], second[i][j])
			}
		}
	}
}

func TestChainDuplicateIsIndependent(t *testing.T) {
	env, err := New(9, 20, 0.3, 14)
	if err != nil {
		t.Fatal(err)
	}
	dupEnv, err := env.Duplicate()
	if err != nil {
		t.Fatal(err)
	}
	dup := dupEnv.(*Chain)

	// Stepping the copy must not move the original
	if err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	before := argmax(env.State())

	runEpisode(t, dup, 1.0)

	if got := argmax(env.State()); got != before {
		t.Errorf("duplicate moved the original from %v to %v", before, got)
	}
	if env.Done() {
		t.Error("duplicate finished the original's episode")
	}
}

func TestChainOneHotState(t *testing.T) {
	env, err := New(7, 20, 0.1, 14)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Reset(); err != nil {
		t.Fatal(err)
	}

	state := env.State()
	if state.Len() != 7 {
		t.Fatalf("expected 7 features, got %v", state.Len())
	}
	sum := 0.0
	for i := 0; i < state.Len(); i++ {
		v := state.Features().AtVec(i)
		if v != 0 && v != 1 {
			t.Fatalf("feature %v: expected one-hot entry, got %v", i, v)
		}
		sum += v
	}
	if sum != 1 {
		t.Fatalf("expected exactly one active feature, got sum %v", sum)
	}
}

func TestChainValidation(t *testing.T) {
	if _, err := New(2, 10, 0.1, 1); err == nil {
		t.Error("expected an error for a 2-position chain")
	}
	if _, err := New(5, 0, 0.1, 1); err == nil {
		t.Error("expected an error for a zero step limit")
	}
	if _, err := New(5, 10, 1.5, 1); err == nil {
		t.Error("expected an error for a slip probability above 1")
	}
}
