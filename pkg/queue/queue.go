// Package queue runs background jobs with retries.
//
// Jobs are JSON encoded into an envelope carrying their registered name so
// any worker process, in-memory or reading from Redis, can rebuild them:
//
//	q := queue.New(queue.NewMemoryDriver(100))
//	q.Register(func() queue.Job { return &jobs.ContactOwnerEmail{} })
//	q.Dispatch(ctx, &jobs.ContactOwnerEmail{MessageID: 7})
//	go q.Run(ctx, 2)
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/metrics"
)

// Job is a unit of background work. Name must be stable across releases:
// it is how queued payloads find their type again.
type Job interface {
	Name() string
	Handle(ctx context.Context) error
}

// Driver stores encoded jobs between Dispatch and a worker.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is available. A nil payload with a nil
	// error means the wait timed out and the caller should poll again.
	Pop(ctx context.Context) ([]byte, error)
}

var ErrUnknownJob = errors.New("queue: unknown job")

// FailedJob describes a job that exhausted its retries.
type FailedJob struct {
	Name     string
	Payload  []byte
	Err      error
	Attempts int
	FailedAt time.Time
}

type envelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

type Manager struct {
	driver   Driver
	db       *gorm.DB
	maxRetry int
	backoff  time.Duration

	mu       sync.RWMutex
	registry map[string]func() Job
	failed   []FailedJob
}

type Option func(*Manager)

// WithMaxRetry sets the total number of attempts per job.
func WithMaxRetry(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxRetry = n
		}
	}
}

// WithBackoff sets the base delay between attempts; attempt k waits k*d.
func WithBackoff(d time.Duration) Option {
	return func(m *Manager) { m.backoff = d }
}

// WithFailedStore persists exhausted jobs to the failed_jobs table.
func WithFailedStore(db *gorm.DB) Option {
	return func(m *Manager) { m.db = db }
}

func New(driver Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:   driver,
		maxRetry: 3,
		backoff:  time.Second,
		registry: map[string]func() Job{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register makes a job type decodable by workers.
func (m *Manager) Register(factory func() Job) {
	name := factory().Name()
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

// Dispatch encodes job and hands it to the driver.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", job.Name(), err)
	}
	raw, err := json.Marshal(envelope{Name: job.Name(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	if err := m.driver.Push(ctx, raw); err != nil {
		return fmt.Errorf("queue: push %s: %w", job.Name(), err)
	}
	return nil
}

// Run starts n workers and blocks until ctx is cancelled and every worker
// has finished its current job.
func (m *Manager) Run(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	wg.Wait()
	logger.Info("queue: workers stopped")
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		// A job in flight finishes even if shutdown starts.
		m.process(context.WithoutCancel(ctx), raw)
	}
}

// process decodes and runs one payload. Exposed to tests through Drain.
func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	job, err := m.decode(env)
	if err != nil {
		logger.Error("queue: decode job", "job", env.Name, "error", err)
		m.fail(ctx, env, err, 0)
		return
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			metrics.RecordQueueJob(env.Name, "processed", start)
			logger.Debug("queue: job processed", "job", env.Name, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed", "job", env.Name, "attempt", attempt, "error", lastErr)
		if attempt < m.maxRetry {
			sleep(ctx, time.Duration(attempt)*m.backoff)
		}
	}

	metrics.RecordQueueJob(env.Name, "failed", start)
	m.fail(ctx, env, lastErr, m.maxRetry)
}

func (m *Manager) decode(env envelope) (Job, error) {
	m.mu.RLock()
	factory, ok := m.registry[env.Name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJob, env.Name)
	}
	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		return nil, fmt.Errorf("queue: unmarshal %s: %w", env.Name, err)
	}
	return job, nil
}

// Drain processes payloads already queued without blocking, returning how
// many were handled. Used by the queue:work --once command and tests.
func (m *Manager) Drain(ctx context.Context) int {
	n := 0
	for {
		pctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		raw, err := m.driver.Pop(pctx)
		cancel()
		if err != nil || raw == nil {
			return n
		}
		m.process(ctx, raw)
		n++
	}
}

// Failed returns a snapshot of jobs that failed in this process.
func (m *Manager) Failed() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
