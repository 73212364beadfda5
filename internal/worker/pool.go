// Package worker runs similarity queries on a bounded pool of goroutines.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/coooow/VibeMatcher/internal/logging"
	"github.com/coooow/VibeMatcher/internal/metrics"
)

// ErrPoolStopped is returned when submitting to a stopped pool.
var ErrPoolStopped = errors.New("worker: pool stopped")

// Matcher is the query surface the pool drives.
type Matcher interface {
	Match(ctx context.Context, title, artist string, k int) ([]domain.MatchResult, error)
}

// Job is one (title, artist) selection to match.
type Job struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	K      int    `json:"k,omitempty"`
}

// Outcome is the result of one Job. Exactly one of Results and Err is set.
type Outcome struct {
	Job     Job
	Results []domain.MatchResult
	Err     error
}

type task struct {
	ctx  context.Context
	job  Job
	done func(Outcome)
}

// Pool manages background workers for match jobs.
type Pool struct {
	matcher Matcher
	jobs    chan task
	wg      sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a worker pool with the given queue size.
func NewPool(matcher Matcher, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{matcher: matcher, jobs: make(chan task, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for t := range p.jobs {
				metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
				t.done(p.process(t.ctx, t.job))
			}
		}()
	}
}

// Stop waits for queued jobs to finish after closing the queue. It is safe
// to call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues a job, blocking while the queue is full. done is called
// from a worker goroutine once the job finishes.
func (p *Pool) Submit(ctx context.Context, job Job, done func(Outcome)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- task{ctx: ctx, job: job, done: done}:
		metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Batch runs every job on the pool and returns outcomes in input order.
// Per-job failures are reported in the Outcome; the returned error is set
// only when jobs could not be queued.
func (p *Pool) Batch(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))
	var wg sync.WaitGroup

	var submitErr error
	for i, job := range jobs {
		i := i // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loopvar semantics)
		wg.Add(1)
		err := p.Submit(ctx, job, func(o Outcome) {
			outcomes[i] = o
			wg.Done()
		})
		if err != nil {
			wg.Done()
			submitErr = err
			for j := i; j < len(jobs); j++ {
				outcomes[j] = Outcome{Job: jobs[j], Err: err}
			}
			break
		}
	}
	wg.Wait()
	return outcomes, submitErr
}

func (p *Pool) process(ctx context.Context, job Job) Outcome {
	if err := ctx.Err(); err != nil {
		metrics.RecordBatchJob(metrics.ResultError)
		return Outcome{Job: job, Err: err}
	}

	results, err := p.matcher.Match(ctx, job.Title, job.Artist, job.K)
	if err != nil {
		result := metrics.ResultError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			result = metrics.ResultNotFound
		default:
			logging.Warn().
				Err(err).
				Str("title", job.Title).
				Str("artist", job.Artist).
				Msg("batch match failed")
		}
		metrics.RecordBatchJob(result)
		return Outcome{Job: job, Err: err}
	}

	metrics.RecordBatchJob(metrics.ResultOK)
	logging.Debug().
		Str("title", job.Title).
		Int("results", len(results)).
		Msg("batch job processed")
	return Outcome{Job: job, Results: results}
}
