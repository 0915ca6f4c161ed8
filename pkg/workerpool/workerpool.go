// Package workerpool provides a fixed-size pool of goroutines fed by a bounded queue.
package workerpool

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrStopped is returned by Submit once Stop has been called.
	ErrStopped = errors.New("worker pool stopped")
	// ErrNotStarted is returned by Submit before Start, when no worker could drain the queue.
	ErrNotStarted = errors.New("worker pool not started")
)

// Task is a unit of work executed by a pool worker.
type Task func(ctx context.Context) error

// Metrics receives task outcomes and queue depth.
type Metrics interface {
	ObserveTask(err error, started time.Time)
	SetQueueDepth(depth int)
}

// Pool runs submitted tasks on a fixed number of workers. Submit blocks while the
// queue is full, so producers are throttled by the workers.
type Pool struct {
	workers   int
	tasks     chan Task
	metrics   Metrics
	onFailure func(error)

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// New creates a pool. queueSize < 0 is treated as 0, which makes Submit hand tasks
// directly to an idle worker. metrics and onFailure may be nil.
func New(workers, queueSize int, metrics Metrics, onFailure func(error)) (*Pool, error) {
	if workers <= 0 {
		return nil, errors.New("worker count must be positive")
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pool{
		workers:   workers,
		tasks:     make(chan Task, queueSize),
		metrics:   metrics,
		onFailure: onFailure,
	}, nil
}

// Start launches the workers. Tasks receive ctx; pass a context that outlives
// shutdown if queued work must still complete during Stop.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				p.setQueueDepth()
				p.run(ctx, task)
			}
		}()
	}
}

// Submit enqueues task, blocking while the queue is full. It returns ctx.Err() if ctx
// ends first, ErrNotStarted before Start and ErrStopped after Stop.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	if !p.started {
		return ErrNotStarted
	}

	select {
	case p.tasks <- task:
		p.setQueueDepth()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new tasks and waits until every queued task has run.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.setQueueDepth()
}

func (p *Pool) run(ctx context.Context, task Task) {
	started := time.Now()
	err := task(ctx)
	if p.metrics != nil {
		p.metrics.ObserveTask(err, started)
	}
	if err != nil && p.onFailure != nil {
		p.onFailure(err)
	}
}

func (p *Pool) setQueueDepth() {
	if p.metrics != nil {
		p.metrics.SetQueueDepth(len(p.tasks))
	}
}
