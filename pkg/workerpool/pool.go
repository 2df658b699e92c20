// Package workerpool runs fire-and-forget tasks on a fixed set of
// goroutines. Submit never blocks: when every worker is busy and the
// backlog is full it returns ErrPoolFull and the caller decides what to drop.
package workerpool

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/chiquebutik/butik/pkg/logger"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	once   sync.Once
	active atomic.Int64
	panics atomic.Int64
}

// New starts size workers with a backlog of 2*size tasks.
func New(size int) *Pool {
	return NewWithBacklog(size, size*2)
}

func NewWithBacklog(size, backlog int) *Pool {
	if size <= 0 {
		size = 1
	}
	if backlog < 0 {
		backlog = 0
	}
	p := &Pool{tasks: make(chan func(), backlog)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is accepted.
func (p *Pool) SubmitWait(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.tasks <- task
	return nil
}

// Shutdown stops intake and waits for queued and running tasks to finish.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

// Active is the number of tasks currently executing.
func (p *Pool) Active() int64 { return p.active.Load() }

// Panics is the number of recovered task panics.
func (p *Pool) Panics() int64 { return p.panics.Load() }

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	p.active.Add(1)
	defer p.active.Add(-1)
	defer func() {
		if rec := recover(); rec != nil {
			p.panics.Add(1)
			logger.Error("workerpool: task panicked", "panic", rec)
		}
	}()
	task()
}
