package service

import "sync"

// Stats is a point-in-time view of the calls a Service is handling.
type Stats struct {
	Active          int
	ByState         map[string]int
	WorkersBurning  int
	Completed       uint64
	Disconnected    uint64
	Failed          uint64
	LastLaunchError string
}

type statsRegistry struct {
	mu              sync.Mutex
	byState         map[State]int
	workers         int
	completed       uint64
	disconnected    uint64
	failed          uint64
	lastLaunchError string
}

func newStatsRegistry() *statsRegistry {
	return &statsRegistry{byState: make(map[State]int)}
}

func (r *statsRegistry) enter(state State) {
	r.mu.Lock()
	r.byState[state]++
	r.mu.Unlock()
}

func (r *statsRegistry) move(from, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byState[from]--

	if to != StateClosed {
		r.byState[to]++
	}
}

func (r *statsRegistry) addWorkers(delta int) {
	r.mu.Lock()
	r.workers += delta
	r.mu.Unlock()
}

func (r *statsRegistry) finish(result string, launchErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch result {
	case resultCompleted:
		r.completed++
	case resultDisconnected, resultCancelled:
		r.disconnected++
	default:
		r.failed++
	}

	if launchErr != nil {
		r.lastLaunchError = launchErr.Error()
	}
}

func (r *statsRegistry) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		ByState:         make(map[string]int, len(r.byState)),
		WorkersBurning:  r.workers,
		Completed:       r.completed,
		Disconnected:    r.disconnected,
		Failed:          r.failed,
		LastLaunchError: r.lastLaunchError,
	}

	for state, count := range r.byState {
		if count == 0 {
			continue
		}

		stats.ByState[state.String()] = count
		stats.Active += count
	}

	return stats
}
