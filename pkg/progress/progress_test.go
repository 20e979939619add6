package progress

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
	delays  []time.Duration
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

func (c *fakeClock) after(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delays = append(c.delays, d)
	c.current = c.current.Add(d)

	fired := make(chan time.Time, 1)
	fired <- c.current

	return fired
}

func newTestEmitter(interval time.Duration, start time.Time) (*Emitter, *fakeClock) {
	clock := &fakeClock{current: start}

	return NewEmitter(interval, WithClock(clock.now, clock.after)), clock
}

func collect(t *testing.T, updates <-chan Update) []Update {
	t.Helper()

	var got []Update

	timeout := time.After(2 * time.Second)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return got
			}

			got = append(got, update)
		case <-timeout:
			t.Fatalf("timed out after %d updates", len(got))
		}
	}
}

func TestStreamProducesScheduledUpdates(t *testing.T) {
	t.Parallel()

	start := time.Unix(1_700_000_000, 0)
	emitter, clock := newTestEmitter(5*time.Second, start)

	got := collect(t, emitter.Stream(context.Background(), 7, start, nil))

	want := []Update{{Elapsed: 5, Total: 7}, {Elapsed: 7, Total: 7}}
	if len(got) != len(want) {
		t.Fatalf("unexpected updates: got %v want %v", got, want)
	}

	for index := range want {
		if got[index] != want[index] {
			t.Fatalf("update %d: got %v want %v", index, got[index], want[index])
		}
	}

	if len(clock.delays) != 2 || clock.delays[0] != 5*time.Second || clock.delays[1] != 2*time.Second {
		t.Fatalf("unexpected wait schedule: %v", clock.delays)
	}
}

func TestStreamCountMatchesCeiling(t *testing.T) {
	t.Parallel()

	for _, total := range []int32{1, 4, 5, 6, 10, 11, 23} {
		start := time.Unix(0, 0)
		emitter, _ := newTestEmitter(DefaultInterval, start)

		got := collect(t, emitter.Stream(context.Background(), total, start, nil))

		want := int((total + 4) / 5)
		if len(got) != want || emitter.Count(total) != want {
			t.Fatalf("total %d: got %d updates (Count=%d), want %d", total, len(got), emitter.Count(total), want)
		}

		previous := int32(0)

		for _, update := range got {
			if update.Elapsed > update.Total || update.Total != total {
				t.Fatalf("total %d: update out of bounds: %v", total, update)
			}

			if update.Elapsed <= previous {
				t.Fatalf("total %d: updates not increasing: %v", total, got)
			}

			previous = update.Elapsed
		}

		if last := got[len(got)-1]; !last.Final() || last.Elapsed != total {
			t.Fatalf("total %d: last update %v is not final", total, last)
		}
	}
}

func TestStreamSingleSecond(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	emitter, _ := newTestEmitter(DefaultInterval, start)

	got := collect(t, emitter.Stream(context.Background(), 1, start, nil))

	if len(got) != 1 || got[0] != (Update{Elapsed: 1, Total: 1}) {
		t.Fatalf("unexpected updates: %v", got)
	}
}

func TestStreamFinalUpdateWaitsForGate(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	emitter, _ := newTestEmitter(5*time.Second, start)
	gate := make(chan struct{})

	updates := emitter.Stream(context.Background(), 7, start, gate)

	first := <-updates
	if first != (Update{Elapsed: 5, Total: 7}) {
		t.Fatalf("unexpected first update: %v", first)
	}

	select {
	case update := <-updates:
		t.Fatalf("final update %v emitted before the gate closed", update)
	case <-time.After(20 * time.Millisecond):
	}

	close(gate)

	got := collect(t, updates)
	if len(got) != 1 || got[0] != (Update{Elapsed: 7, Total: 7}) {
		t.Fatalf("unexpected trailing updates: %v", got)
	}
}

func TestStreamStopsWhenConsumerGoes(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	emitter, _ := newTestEmitter(time.Second, start)

	ctx, cancel := context.WithCancel(context.Background())

	updates := emitter.Stream(ctx, 100, start, nil)

	for i := 0; i < 3; i++ {
		<-updates
	}

	cancel()
	time.Sleep(20 * time.Millisecond)

	// At most the single buffered update may still be drained.
	remaining := collect(t, updates)
	if len(remaining) > 1 {
		t.Fatalf("producer kept going after cancellation: %v", remaining)
	}
}

func TestStreamCatchesUpWhenStartIsInThePast(t *testing.T) {
	t.Parallel()

	emitter := NewEmitter(time.Second)
	start := time.Now().Add(-2 * time.Second)

	began := time.Now()
	got := collect(t, emitter.Stream(context.Background(), 2, start, nil))

	if len(got) != 2 || got[0] != (Update{Elapsed: 1, Total: 2}) || got[1] != (Update{Elapsed: 2, Total: 2}) {
		t.Fatalf("unexpected updates for an elapsed burn: %v", got)
	}

	if elapsed := time.Since(began); elapsed > 500*time.Millisecond {
		t.Fatalf("past-due updates should not wait, took %v", elapsed)
	}
}

func TestNewEmitterNormalisesInterval(t *testing.T) {
	t.Parallel()

	if got := NewEmitter(0).Interval(); got != DefaultInterval {
		t.Fatalf("expected default interval, got %s", got)
	}

	if got := NewEmitter(300 * time.Millisecond).Interval(); got != time.Second {
		t.Fatalf("expected interval to clamp to 1s, got %s", got)
	}

	if got := NewEmitter(2500 * time.Millisecond).Interval(); got != 2*time.Second {
		t.Fatalf("expected interval truncated to 2s, got %s", got)
	}
}

func TestStreamWithNonPositiveTotalIsEmpty(t *testing.T) {
	t.Parallel()

	got := collect(t, NewEmitter(time.Second).Stream(context.Background(), 0, time.Now(), nil))
	if len(got) != 0 {
		t.Fatalf("expected no updates, got %v", got)
	}
}

func TestNewEmitterClampsOversizedInterval(t *testing.T) {
	t.Parallel()

	start := time.Unix(1_700_000_000, 0)
	emitter, _ := newTestEmitter(1_000_000*time.Hour, start)

	if got := emitter.Interval(); got != MaxInterval {
		t.Fatalf("expected interval clamped to %v, got %v", MaxInterval, got)
	}

	got := collect(t, emitter.Stream(context.Background(), 7, start, nil))

	if len(got) != 1 || got[0] != (Update{Elapsed: 7, Total: 7}) {
		t.Fatalf("expected a single final update, got %v", got)
	}
}

func TestCountDoesNotOverflowForLargeTotals(t *testing.T) {
	t.Parallel()

	emitter := NewEmitter(5 * time.Second)

	if got, want := emitter.Count(math.MaxInt32), 429496730; got != want {
		t.Fatalf("unexpected count: got %d want %d", got, want)
	}

	if got := NewEmitter(MaxInterval).Count(math.MaxInt32); got != 1 {
		t.Fatalf("unexpected count at max interval: got %d want 1", got)
	}
}

func TestStreamElapsedStaysWithinTotalNearInt32Limit(t *testing.T) {
	t.Parallel()

	start := time.Unix(1_700_000_000, 0)
	emitter, _ := newTestEmitter(MaxInterval-time.Second, start)

	const total = math.MaxInt32

	got := collect(t, emitter.Stream(context.Background(), total, start, nil))

	want := []Update{{Elapsed: math.MaxInt32 - 1, Total: total}, {Elapsed: total, Total: total}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected updates: got %v want %v", got, want)
	}
}
