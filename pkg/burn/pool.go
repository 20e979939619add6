// Package burn runs groups of workers that each occupy one CPU core until a
// shared deadline.
package burn

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrSchedule is returned when one or more requested workers could not be started.
	ErrSchedule = errors.New("burn: unable to schedule workers")

	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("burn: pool already started")

	errInvalidWorkerCount = errors.New("burn: worker count must be positive")
	errInvalidDuration    = errors.New("burn: duration must be positive")
	errStartedLate        = errors.New("burn: worker started too late")
)

const (
	// HardMaxWorkers bounds every pool below the runtime's OS thread limit.
	HardMaxWorkers = 8192

	workersPerCPU = 8

	minStartGrace = 250 * time.Millisecond

	accumulatorResetThreshold = 1_000_000
)

// DefaultMaxWorkers is the cap applied when none is configured.
func DefaultMaxWorkers() int {
	return min(runtime.NumCPU()*workersPerCPU, HardMaxWorkers)
}

// Pool owns the burn workers created for a single request. It is started once
// and is done only after every worker has terminated.
type Pool struct {
	workers    int
	duration   time.Duration
	maxWorkers int

	spinFunc        func(deadline time.Time, stop <-chan struct{})
	now             func() time.Time
	workerStartHook func() error

	started   atomic.Bool
	startedAt time.Time
	group     errgroup.Group
	stop      chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// Option customises a Pool.
type Option func(*Pool)

// WithMaxWorkers caps the number of workers a pool may launch. Non-positive
// limits keep DefaultMaxWorkers; limits above HardMaxWorkers are clamped.
func WithMaxWorkers(limit int) Option {
	return func(p *Pool) {
		if limit > 0 {
			p.maxWorkers = min(limit, HardMaxWorkers)
		}
	}
}

// WithIdlePriority demotes every worker thread to the idle scheduling class
// before it starts spinning.
func WithIdlePriority(enabled bool) Option {
	if !enabled {
		return func(*Pool) {}
	}

	return WithStartHook(trySchedIdle)
}

// WithStartHook installs a hook that runs on each locked worker thread before
// spinning. A hook error aborts the whole pool.
func WithStartHook(hook func() error) Option {
	return func(p *Pool) {
		p.workerStartHook = hook
	}
}

// NewPool constructs a pool of workers that will each burn for duration.
func NewPool(workers int, duration time.Duration, opts ...Option) (*Pool, error) {
	if workers <= 0 {
		return nil, errInvalidWorkerCount
	}

	if duration <= 0 {
		return nil, errInvalidDuration
	}

	poolInstance := new(Pool)
	poolInstance.workers = workers
	poolInstance.duration = duration
	poolInstance.maxWorkers = DefaultMaxWorkers()
	poolInstance.spinFunc = spin
	poolInstance.now = time.Now
	poolInstance.stop = make(chan struct{})
	poolInstance.done = make(chan struct{})

	for _, opt := range opts {
		opt(poolInstance)
	}

	return poolInstance, nil
}

// Start launches every worker and returns once each of them is spinning. If any
// worker fails to start, or becomes ready too late to burn for most of the
// duration, the workers that did start are stopped and the error wraps
// ErrSchedule.
func (p *Pool) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if p.workers > p.maxWorkers {
		close(p.done)

		return fmt.Errorf("%w: %d workers requested, limit is %d", ErrSchedule, p.workers, p.maxWorkers)
	}

	p.startedAt = p.now()
	deadline := p.startedAt.Add(p.duration)
	readyBy := p.startedAt.Add(startGrace(p.duration))
	ready := make(chan error, p.workers)

	for i := 0; i < p.workers; i++ {
		p.group.Go(func() error {
			p.worker(deadline, readyBy, ready)

			return nil
		})
	}

	go func() {
		_ = p.group.Wait()
		close(p.done)
	}()

	var startErr error

	for i := 0; i < p.workers; i++ {
		select {
		case err := <-ready:
			if err != nil && startErr == nil {
				startErr = err
				p.abort()
			}
		case <-ctx.Done():
			p.abort()

			return fmt.Errorf("start burn workers: %w", ctx.Err())
		}
	}

	if startErr != nil {
		return fmt.Errorf("%w: %w", ErrSchedule, startErr)
	}

	return nil
}

// Wait blocks until every worker has terminated or ctx is cancelled. Cancelling
// ctx only stops the wait; the workers keep burning until their deadline.
func (p *Pool) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for burn workers: %w", ctx.Err())
	}
}

// Done returns a channel closed once every worker has terminated.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// StartedAt reports when the burn began. It is zero before Start.
func (p *Pool) StartedAt() time.Time {
	return p.startedAt
}

// Workers returns the number of workers the pool launches.
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) abort() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

// startGrace is how long after the pool start a worker may become ready:
// a tenth of the duration, at least minStartGrace, never past the deadline.
func startGrace(duration time.Duration) time.Duration {
	return min(max(duration/10, minStartGrace), duration)
}

func (p *Pool) worker(deadline, readyBy time.Time, ready chan<- error) {
	// The thread stays locked on exit so the runtime retires it together with
	// any scheduling changes made by the start hook.
	runtime.LockOSThread()

	if hook := p.workerStartHook; hook != nil {
		err := hook()
		if err != nil {
			ready <- err

			return
		}
	}

	if at := p.now(); at.After(readyBy) {
		ready <- fmt.Errorf("%w: ready %s after start", errStartedLate, at.Sub(p.startedAt))

		return
	}

	ready <- nil

	p.spinFunc(deadline, p.stop)
}

func spin(deadline time.Time, stop <-chan struct{}) {
	var accumulator float64

	for time.Now().Before(deadline) {
		select {
		case <-stop:
			return
		default:
		}

		accumulator += math.Sqrt(accumulator + 1)
		if accumulator > accumulatorResetThreshold {
			accumulator = 0
		}
	}
}
