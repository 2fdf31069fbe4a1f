// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package refresh

import "encoding/json"

// State is the Manager's run state. It advances through the pipeline
// stages while a run is in flight and returns to Idle afterwards. A
// failed run parks in Failed until the next run starts; the freshness
// record is never stamped from a failed run.
type State int

const (
	StateIdle State = iota
	StateExtracting
	StateJoining
	StateProjecting
	StateCleaning
	StatePublishing
	StateLoggingFreshness
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateExtracting:       "extracting",
	StateJoining:          "joining",
	StateProjecting:       "projecting",
	StateCleaning:         "cleaning",
	StatePublishing:       "publishing",
	StateLoggingFreshness: "logging_freshness",
	StateFailed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the state as its name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Running reports whether a pipeline run is in flight.
func (s State) Running() bool {
	return s != StateIdle && s != StateFailed
}

// stageState maps a pipeline stage name to its run state.
func stageState(stage string) State {
	switch stage {
	case "extract":
		return StateExtracting
	case "join":
		return StateJoining
	case "project":
		return StateProjecting
	case "clean":
		return StateCleaning
	case "publish":
		return StatePublishing
	default:
		return StateIdle
	}
}
