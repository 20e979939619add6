// Package hostcpu samples host-wide CPU utilisation from /proc/stat so a burn
// can report how much load the host actually saw while it ran.
package hostcpu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/procfs"
	"go.uber.org/zap/zapcore"
)

// DefaultInterval is used when a zero or negative interval is supplied.
const DefaultInterval = time.Second

// Counters are the cumulative idle and total CPU seconds at one point in time.
type Counters struct {
	Idle  float64
	Total float64
}

// Source returns cumulative CPU counters.
type Source interface {
	Counters(ctx context.Context) (Counters, error)
}

// ProcStat reads counters from the stat file of a proc filesystem mounted at
// Root, or at procfs.DefaultMountPoint when Root is empty.
type ProcStat struct {
	Root string
}

// Counters implements Source.
func (p ProcStat) Counters(ctx context.Context) (Counters, error) {
	err := ctx.Err()
	if err != nil {
		return Counters{}, fmt.Errorf("proc stat context: %w", err)
	}

	root := p.Root
	if root == "" {
		root = procfs.DefaultMountPoint
	}

	fs, err := procfs.NewFS(root)
	if err != nil {
		return Counters{}, fmt.Errorf("open procfs %s: %w", root, err)
	}

	stat, err := fs.Stat()
	if err != nil {
		return Counters{}, fmt.Errorf("read %s/stat: %w", root, err)
	}

	return countersFromCPUStat(stat.CPUTotal), nil
}

// countersFromCPUStat treats idle and iowait time as idle. Guest time is
// already included in user and nice.
func countersFromCPUStat(cpu procfs.CPUStat) Counters {
	idle := cpu.Idle + cpu.Iowait

	return Counters{
		Idle:  idle,
		Total: idle + cpu.User + cpu.Nice + cpu.System + cpu.IRQ + cpu.SoftIRQ + cpu.Steal,
	}
}

// Summary aggregates the utilisation samples taken during one watch.
// Utilisation values are ratios in [0,1].
type Summary struct {
	Samples int
	Mean    float64
	Peak    float64
	Err     error
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("samples", s.Samples)
	enc.AddFloat64("mean", s.Mean)
	enc.AddFloat64("peak", s.Peak)

	if s.Err != nil {
		enc.AddString("error", s.Err.Error())
	}

	return nil
}

// Watch samples a Source on a fixed interval until stopped.
type Watch struct {
	cancel  context.CancelFunc
	done    chan struct{}
	observe func(float64)

	mu      sync.Mutex
	summary Summary
	sum     float64
}

// Option customises a Watch.
type Option func(*Watch)

// WithObserver forwards every utilisation sample, for example to a gauge.
func WithObserver(observe func(float64)) Option {
	return func(w *Watch) {
		w.observe = observe
	}
}

// Start begins sampling src every interval. A nil src reads /proc/stat.
func Start(ctx context.Context, src Source, interval time.Duration, opts ...Option) *Watch {
	if src == nil {
		src = ProcStat{Root: ""}
	}

	if interval <= 0 {
		interval = DefaultInterval
	}

	watchCtx, cancel := context.WithCancel(ctx)

	watch := &Watch{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(watch)
	}

	go watch.run(watchCtx, src, interval)

	return watch
}

// Stop ends sampling and returns what was observed.
func (w *Watch) Stop() Summary {
	w.cancel()
	<-w.done

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.summary
}

func (w *Watch) run(ctx context.Context, src Source, interval time.Duration) {
	defer close(w.done)

	last, err := src.Counters(ctx)
	if err != nil {
		w.fail(fmt.Errorf("initial sample: %w", err))

		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current, err := src.Counters(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				w.fail(fmt.Errorf("sample: %w", err))

				continue
			}

			w.record(utilisation(last, current))
			last = current
		}
	}
}

func (w *Watch) record(value float64) {
	w.mu.Lock()
	w.summary.Samples++
	w.sum += value
	w.summary.Mean = w.sum / float64(w.summary.Samples)
	w.summary.Peak = max(w.summary.Peak, value)
	w.mu.Unlock()

	if w.observe != nil {
		w.observe(value)
	}
}

func (w *Watch) fail(err error) {
	w.mu.Lock()
	w.summary.Err = err
	w.mu.Unlock()
}

func utilisation(previous, current Counters) float64 {
	totalDelta := diffCounter(previous.Total, current.Total)
	idleDelta := diffCounter(previous.Idle, current.Idle)

	if totalDelta == 0 || idleDelta > totalDelta {
		return 0
	}

	ratio := (totalDelta - idleDelta) / totalDelta

	return min(max(ratio, 0), 1)
}

func diffCounter(previous, current float64) float64 {
	if current >= previous {
		return current - previous
	}
	// Counter wrapped; reset to zero delta.
	return 0
}
