package pipeline

import "time"

// State is the stage a run is in.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateTokenizing
	StateMapping
	StateShuffling
	StateReducing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateFetching:   "fetching",
	StateTokenizing: "tokenizing",
	StateMapping:    "mapping",
	StateShuffling:  "shuffling",
	StateReducing:   "reducing",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText lets State appear by name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StageTiming records how long a run spent in one state.
type StageTiming struct {
	Stage State         `json:"stage" yaml:"stage"`
	Took  time.Duration `json:"took_ns" yaml:"took_ns"`
}
