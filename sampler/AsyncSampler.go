package sampler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lazyrl/lazyrl/agent"
	"github.com/lazyrl/lazyrl/environment"
	"github.com/lazyrl/lazyrl/replay"
	"github.com/lazyrl/lazyrl/timestep"
)

// jobResult is what a worker goroutine reports back when its sampling
// job resolves, successfully or not.
type jobResult struct {
	batch    timestep.Batch
	frames   int
	episodes int
	err      error
}

// AsyncSampler implements Sampler over a pool of workers, each running
// sampling jobs in its own goroutine. Dispatch and harvesting happen on
// the caller's goroutine; the only blocking point is the bounded wait
// inside StoreSamples.
//
// AsyncSampler is not safe for concurrent use. The replay buffer is
// mutated only on the StoreSamples path, so callers must sequence
// StoreSamples against their own buffer calls.
type AsyncSampler struct {
	workers []*worker
	jobs    map[uuid.UUID]chan jobResult
	buffer  replay.Buffer
	logger  zerolog.Logger
}

// NewAsync returns an AsyncSampler with numWorkers workers, each owning
// an independent copy of the prototype environment seeded with
// consecutive seeds. Harvested batches are stored into buffer.
func NewAsync(prototype environment.Environment, buffer replay.Buffer,
	numWorkers int, seed uint64, logger zerolog.Logger) (*AsyncSampler,
	error) {
	if buffer == nil {
		return nil, fmt.Errorf("newAsync: replay buffer is nil")
	}
	if numWorkers < 1 {
		return nil, fmt.Errorf("newAsync: need at least 1 worker, got %v",
			numWorkers)
	}

	workers := make([]*worker, numWorkers)
	for i := range workers {
		w, err := newWorker(prototype, seed+uint64(i), logger)
		if err != nil {
			return nil, err
		}
		workers[i] = w
	}

	return &AsyncSampler{
		workers: workers,
		jobs:    make(map[uuid.UUID]chan jobResult, numWorkers),
		buffer:  buffer,
		logger:  logger,
	}, nil
}

// StartSampling implements the Sampler interface. Every idle worker
// receives its own copy of the policy snapshot; busy workers keep
// running their current job.
func (s *AsyncSampler) StartSampling(lazy agent.LazyAgent, maxFrames,
	maxEpisodes int) error {
	if lazy == nil {
		return fmt.Errorf("startSampling: lazy agent is nil")
	}
	if maxFrames == NoLimit && maxEpisodes == NoLimit {
		return fmt.Errorf("startSampling: maxFrames or maxEpisodes must " +
			"be specified")
	}
	if maxFrames < 1 || maxEpisodes < 1 {
		return fmt.Errorf("startSampling: budgets must be positive, got "+
			"maxFrames=%v maxEpisodes=%v", maxFrames, maxEpisodes)
	}

	dispatched := 0
	for _, w := range s.workers {
		if s.jobs[w.id] != nil {
			continue
		}

		result := make(chan jobResult, 1)
		s.jobs[w.id] = result
		dispatched++

		go func(w *worker, lazy agent.LazyAgent) {
			batch, frames, episodes, err := w.sample(lazy, maxFrames,
				maxEpisodes)
			result <- jobResult{
				batch:    batch,
				frames:   frames,
				episodes: episodes,
				err:      err,
			}
		}(w, lazy.Dup())
	}

	s.logger.Debug().
		Int("dispatched", dispatched).
		Int("workers", len(s.workers)).
		Msg("sampling jobs dispatched")
	return nil
}

// StoreSamples implements the Sampler interface. Each outstanding job
// is waited on for up to timeout. A job that resolved to an error marks
// its worker idle again and the first such error is returned after the
// round's completed batches have been stored.
func (s *AsyncSampler) StoreSamples(timeout time.Duration) (SampleInfo,
	error) {
	var info SampleInfo
	var firstErr error

	for _, w := range s.workers {
		result := s.jobs[w.id]
		if result == nil {
			continue
		}

		res, ok := waitResult(result, timeout)
		if !ok {
			continue
		}
		s.jobs[w.id] = nil

		if res.err != nil {
			s.logger.Error().
				Str("worker", w.id.String()).
				Err(res.err).
				Msg("sampling job failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("storeSamples: worker %v: %w", w.id,
					res.err)
			}
			continue
		}

		if err := s.buffer.Store(res.batch); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("storeSamples: %w", err)
			}
			continue
		}
		info.Frames += res.frames
		info.Episodes += res.episodes
	}

	s.logger.Debug().
		Int("frames", info.Frames).
		Int("episodes", info.Episodes).
		Msg("samples stored")
	return info, firstErr
}

// Outstanding returns the number of workers with jobs still running.
func (s *AsyncSampler) Outstanding() int {
	busy := 0
	for _, result := range s.jobs {
		if result != nil {
			busy++
		}
	}
	return busy
}

// NumWorkers returns the size of the worker pool.
func (s *AsyncSampler) NumWorkers() int {
	return len(s.workers)
}

// waitResult waits up to timeout for a job result. A non-positive
// timeout polls without blocking.
func waitResult(result chan jobResult, timeout time.Duration) (jobResult,
	bool) {
	if timeout <= 0 {
		select {
		case res := <-result:
			return res, true
		default:
			return jobResult{}, false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case res := <-result:
		return res, true
	case <-timer.C:
		return jobResult{}, false
	}
}
