package worker

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

// clauseResult implements Result for a numbered unit of work
type clauseResult struct {
	index int
	err   error
}

func (r *clauseResult) GetError() error {
	return r.err
}

// clauseJob pretends to analyze one clause
type clauseJob struct {
	index int
	delay time.Duration
	fail  bool
	runs  *int32
}

func (j *clauseJob) Execute(ctx context.Context) Result {
	if j.runs != nil {
		atomic.AddInt32(j.runs, 1)
	}
	if j.delay > 0 {
		select {
		case <-time.After(j.delay):
		case <-ctx.Done():
			return &clauseResult{index: j.index, err: ctx.Err()}
		}
	}
	if j.fail {
		return &clauseResult{index: j.index, err: errors.New("detector failed")}
	}
	return &clauseResult{index: j.index}
}

func TestNewPool(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{5, 5},
		{1, 1},
		{0, 1},
		{-3, 1},
	}
	for _, tt := range tests {
		if got := NewPool(tt.in).Workers(); got != tt.want {
			t.Errorf("NewPool(%d).Workers() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPool_EveryJobReturnsOnce(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var runs int32
	const clauses = 25
	for i := 1; i <= clauses; i++ {
		pool.Submit(&clauseJob{index: i, runs: &runs})
	}

	results := pool.Wait()
	if len(results) != clauses {
		t.Fatalf("Expected %d results, got %d", clauses, len(results))
	}
	if got := atomic.LoadInt32(&runs); got != clauses {
		t.Errorf("Expected %d executions, got %d", clauses, got)
	}

	indices := make([]int, 0, len(results))
	for _, r := range results {
		indices = append(indices, r.(*clauseResult).index)
	}
	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i+1 {
			t.Fatalf("Expected clause %d in results, got %v", i+1, indices)
		}
	}
}

func TestPool_RespectsWorkerBound(t *testing.T) {
	const workers = 4
	pool := NewPool(workers)
	pool.Start()

	var active, peak int32
	for i := 0; i < 40; i++ {
		pool.Submit(JobFunc(func(ctx context.Context) Result {
			n := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return &clauseResult{}
		}))
	}
	pool.Wait()

	if got := atomic.LoadInt32(&peak); got > workers {
		t.Errorf("Expected at most %d concurrent jobs, saw %d", workers, got)
	}
}

func TestPool_ErrorsAreReturnedNotDropped(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	for i := 1; i <= 6; i++ {
		pool.Submit(&clauseJob{index: i, fail: i%3 == 0})
	}

	failed := 0
	for _, r := range pool.Wait() {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("Expected 2 failed jobs, got %d", failed)
	}
}

func TestPool_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPoolWithContext(ctx, 1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(JobFunc(func(ctx context.Context) Result {
		close(started)
		<-ctx.Done()
		return &clauseResult{err: ctx.Err()}
	}))

	<-started
	cancel()

	done := make(chan []Result, 1)
	go func() { done <- pool.Wait() }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after context cancel")
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(&clauseJob{index: 1})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_ShutdownInterruptsRunningJob(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(JobFunc(func(ctx context.Context) Result {
		close(started)
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return &clauseResult{err: ctx.Err()}
	}))
	<-started

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not interrupt the running job")
	}
}
