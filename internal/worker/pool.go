// Package worker runs clause and document jobs on a bounded set of goroutines.
package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) Result

// Execute calls f(ctx)
func (f JobFunc) Execute(ctx context.Context) Result {
	return f(ctx)
}

// Pool runs jobs on a fixed number of goroutines.
// A pool is single use: Start, Submit any number of jobs, then Wait once.
type Pool struct {
	size    int
	jobs    chan Job
	results chan Result
	running sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	drained sync.Once
}

// NewPool creates a worker pool detached from any request context
func NewPool(workers int) *Pool {
	return NewPoolWithContext(context.Background(), workers)
}

// NewPoolWithContext creates a worker pool whose jobs observe ctx.
// Cancelling ctx stops workers the same way Shutdown does.
func NewPoolWithContext(ctx context.Context, workers int) *Pool {
	workers = max(workers, 1)
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		size:    workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Workers returns the number of worker goroutines
func (p *Pool) Workers() int {
	return p.size
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	p.running.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.running.Done()

	for {
		var job Job
		select {
		case <-p.ctx.Done():
			return
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			job = j
		}

		select {
		case p.results <- job.Execute(p.ctx):
		case <-p.ctx.Done():
			return
		}
	}
}

// Submit queues a job. It returns without queuing once the pool is cancelled.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	case <-p.ctx.Done():
	}
}

// Wait closes the queue, waits for all workers and returns the results in
// completion order. Submit must not be called concurrently with Wait.
func (p *Pool) Wait() []Result {
	close(p.jobs)

	go func() {
		p.running.Wait()
		p.closeResults()
		p.cancel()
	}()

	var out []Result
	for r := range p.results {
		out = append(out, r)
	}
	return out
}

// Shutdown stops the pool immediately, dropping queued jobs
func (p *Pool) Shutdown() {
	p.cancel()
	p.running.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.drained.Do(func() { close(p.results) })
}
