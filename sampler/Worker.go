package sampler

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lazyrl/lazyrl/agent"
	"github.com/lazyrl/lazyrl/environment"
	"github.com/lazyrl/lazyrl/timestep"
)

// worker is a sampling unit: it owns one environment copy and runs
// whole episodes against a frozen policy snapshot. A worker executes at
// most one job at a time and retains nothing across jobs.
type worker struct {
	id     uuid.UUID
	env    environment.Environment
	logger zerolog.Logger
}

// newWorker duplicates the prototype environment, reseeds the copy, and
// wraps it in a worker with a fresh identity.
func newWorker(prototype environment.Environment, seed uint64,
	logger zerolog.Logger) (*worker, error) {
	env, err := prototype.Duplicate()
	if err != nil {
		return nil, fmt.Errorf("newWorker: cannot duplicate environment: %w",
			err)
	}
	env.Seed(seed)

	w := &worker{
		id:     uuid.New(),
		env:    env,
		logger: logger,
	}
	w.logger.Info().
		Str("worker", w.id.String()).
		Uint64("seed", seed).
		Msg("worker initialized")
	return w, nil
}

// sample runs episodes to completion until the frame or episode budget
// is exhausted. The frame budget is checked after every step and the
// episode budget at episode boundaries, so the produced batch may
// overshoot the budget by at most one episode.
//
// Environment and policy errors are not handled here; they resolve the
// job as failed.
func (w *worker) sample(lazy agent.LazyAgent, maxFrames,
	maxEpisodes int) (timestep.Batch, int, int, error) {
	frames, episodes := 0, 0

	for frames < maxFrames && episodes < maxEpisodes {
		if err := w.env.Reset(); err != nil {
			return timestep.Batch{}, frames, episodes, err
		}
		action, err := lazy.Act(w.env.State(), w.env.Reward())
		if err != nil {
			return timestep.Batch{}, frames, episodes, err
		}

		for !w.env.Done() {
			if err := w.env.Step(action); err != nil {
				return timestep.Batch{}, frames, episodes, err
			}
			frames++

			action, err = lazy.Act(w.env.State(), w.env.Reward())
			if err != nil {
				return timestep.Batch{}, frames, episodes, err
			}
		}
		episodes++
	}

	return lazy.Rollout(), frames, episodes, nil
}
