// Package progress produces the bounded sequence of progress updates streamed
// back to a caller while (or after) its burn runs.
package progress

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap/zapcore"
)

// DefaultInterval is the reporting cadence used when none is configured.
const DefaultInterval = 5 * time.Second

// MaxInterval is the longest cadence an Emitter accepts. Longer intervals are
// clamped so a step still fits an int32 count of seconds.
const MaxInterval = math.MaxInt32 * time.Second

const minInterval = time.Second

// Update reports how many of the requested seconds have been accounted for.
// Elapsed never exceeds Total.
type Update struct {
	Elapsed int32
	Total   int32
}

// Final reports whether the update closes its sequence.
func (u Update) Final() bool {
	return u.Elapsed >= u.Total
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (u Update) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt32("elapsed", u.Elapsed)
	enc.AddInt32("total", u.Total)

	return nil
}

// Emitter schedules progress updates at a fixed cadence relative to a start time.
type Emitter struct {
	interval time.Duration
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time
}

// Option customises an Emitter.
type Option func(*Emitter)

// WithClock replaces the wall clock used to schedule updates.
func WithClock(now func() time.Time, after func(time.Duration) <-chan time.Time) Option {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}

		if after != nil {
			e.after = after
		}
	}
}

// NewEmitter constructs an Emitter. The interval is truncated to whole seconds
// and kept between one second and MaxInterval; non-positive values select
// DefaultInterval.
func NewEmitter(interval time.Duration, opts ...Option) *Emitter {
	if interval <= 0 {
		interval = DefaultInterval
	}

	interval = min(max(interval.Truncate(time.Second), minInterval), MaxInterval)

	emitter := new(Emitter)
	emitter.interval = interval
	emitter.now = time.Now
	emitter.after = time.After

	for _, opt := range opts {
		opt(emitter)
	}

	return emitter
}

// Interval returns the cadence between updates.
func (e *Emitter) Interval() time.Duration {
	return e.interval
}

// Count returns how many updates a sequence of total seconds produces.
func (e *Emitter) Count(total int32) int {
	if total <= 0 {
		return 0
	}

	step := e.step()

	return int((int64(total) + step - 1) / step)
}

// Stream starts producing updates for a burn of total seconds that began at
// start. Update k is released at start+min(k*interval, total). The final update
// additionally waits for gate to close when gate is non-nil.
//
// The returned channel holds at most one pending update; production pauses
// until the consumer drains it. The channel is closed after the final update
// or as soon as ctx is cancelled.
func (e *Emitter) Stream(
	ctx context.Context,
	total int32,
	start time.Time,
	gate <-chan struct{},
) <-chan Update {
	updates := make(chan Update, 1)

	go e.produce(ctx, total, start, gate, updates)

	return updates
}

func (e *Emitter) produce(
	ctx context.Context,
	total int32,
	start time.Time,
	gate <-chan struct{},
	updates chan<- Update,
) {
	defer close(updates)

	step := e.step()

	for elapsed := int32(0); elapsed < total; {
		next := int32(min(int64(elapsed)+step, int64(total)))

		if !e.waitUntil(ctx, start.Add(time.Duration(next)*time.Second)) {
			return
		}

		if next == total && gate != nil {
			select {
			case <-gate:
			case <-ctx.Done():
				return
			}
		}

		if !publish(ctx, updates, Update{Elapsed: next, Total: total}) {
			return
		}

		elapsed = next
	}
}

func (e *Emitter) waitUntil(ctx context.Context, at time.Time) bool {
	delay := at.Sub(e.now())
	if delay <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-e.after(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *Emitter) step() int64 {
	return int64(e.interval / time.Second)
}

func publish(ctx context.Context, updates chan<- Update, update Update) bool {
	// A cancelled consumer wins over a free slot.
	if ctx.Err() != nil {
		return false
	}

	select {
	case updates <- update:
		return true
	case <-ctx.Done():
		return false
	}
}
