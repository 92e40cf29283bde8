package planner

import "time"

type State int32

const (
	StateIdle State = iota
	StateScanning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	default:
		return "unknown"
	}
}

// RunStats summarises the last finished pass.
type RunStats struct {
	TraceID       string
	StartedAt     time.Time
	Duration      time.Duration
	Candidates    int
	Deals         int
	Skipped       int
	Opportunities int
	Err           error
}
