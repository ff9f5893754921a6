package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a Job
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines.
//
// Results are drained by a collector goroutine from the moment the pool
// starts, so Submit never waits on a reader that only appears in Wait.
type Pool struct {
	size   int
	ctx    context.Context
	cancel context.CancelFunc

	queue   chan Job
	results chan Result

	running   sync.WaitGroup
	collected []Result
	drained   chan struct{}

	startCollector sync.Once
	closeQueue     sync.Once
	closeResults   sync.Once
}

// NewPool creates a pool with the given number of workers (at least 1).
// Cancelling parent stops the workers after their current job.
func NewPool(parent context.Context, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(parent)
	return &Pool{
		size:    workers,
		ctx:     ctx,
		cancel:  cancel,
		queue:   make(chan Job, workers),
		results: make(chan Result, workers),
		drained: make(chan struct{}),
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start() {
	p.startCollector.Do(func() { go p.collect() })

	p.running.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.run()
	}
}

func (p *Pool) collect() {
	defer close(p.drained)
	for r := range p.results {
		p.collected = append(p.collected, r)
	}
}

func (p *Pool) run() {
	defer p.running.Done()

	for {
		// A cancelled pool leaves queued jobs unexecuted
		if p.ctx.Err() != nil {
			return
		}

		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.queue:
			if !ok {
				return
			}
			// The collector reads until every worker has exited, so this never blocks for good
			p.results <- job.Execute(p.ctx)
		}
	}
}

// Submit queues a job. It returns false once the pool is shut down or its
// context is cancelled.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.queue <- job:
		return true
	}
}

// Wait stops accepting jobs, lets the workers finish the queue and returns
// every result in completion order.
func (p *Pool) Wait() []Result {
	p.closeQueue.Do(func() { close(p.queue) })
	results := p.finish()
	p.cancel()
	return results
}

// Shutdown cancels the pool without running queued jobs and returns the
// results of jobs that already finished.
func (p *Pool) Shutdown() []Result {
	p.cancel()
	return p.finish()
}

func (p *Pool) finish() []Result {
	p.startCollector.Do(func() { go p.collect() })
	p.running.Wait()
	p.closeResults.Do(func() { close(p.results) })
	<-p.drained
	return p.collected
}
