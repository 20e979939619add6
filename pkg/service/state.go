package service

// State is the lifecycle position of a single SetLoad call.
type State int

const (
	// StateReceived is entered when the call arrives and its load is normalised.
	StateReceived State = iota
	// StateLaunching covers starting the burn workers.
	StateLaunching
	// StateBurning covers waiting for every worker to finish (replay mode).
	StateBurning
	// StateReporting covers streaming progress to the caller.
	StateReporting
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateLaunching:
		return "launching"
	case StateBurning:
		return "burning"
	case StateReporting:
		return "reporting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Mode selects how progress relates to the burn.
type Mode string

const (
	// ModeConcurrent streams progress while the workers burn. The final update
	// is held back until every worker has joined.
	ModeConcurrent Mode = "concurrent"
	// ModeReplay waits for the burn to finish and then replays the progress
	// cadence over the same duration.
	ModeReplay Mode = "replay"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeConcurrent || m == ModeReplay
}
