// Package sampler implements asynchronous experience collection: a
// pool of rollout workers runs a frozen policy snapshot against
// independent environment copies, and completed trajectory batches are
// harvested into a replay buffer under a bounded wait.
package sampler

import (
	"math"
	"time"

	"github.com/lazyrl/lazyrl/agent"
)

// NoLimit marks a sampling budget as unspecified. At least one of the
// frame and episode budgets passed to StartSampling must be finite.
const NoLimit = math.MaxInt

// SampleInfo aggregates what one StoreSamples call moved into the
// replay buffer, for caller-side progress tracking.
type SampleInfo struct {
	Frames   int
	Episodes int
}

// Sampler collects experience on behalf of a training loop.
type Sampler interface {
	// StartSampling dispatches one sampling job per idle worker. A
	// worker with an outstanding job is left untouched; there is no
	// job queueing. StartSampling never blocks.
	StartSampling(lazy agent.LazyAgent, maxFrames, maxEpisodes int) error

	// StoreSamples waits up to timeout for each outstanding job and
	// stores every batch that completed in time, marking those workers
	// idle again. Jobs that miss the timeout stay outstanding for the
	// next call; no job is ever cancelled.
	StoreSamples(timeout time.Duration) (SampleInfo, error)
}
