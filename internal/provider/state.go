package provider

import (
	"fmt"
	"strings"
)

// State is the position of one Complete call in the primary/fallback sequence.
type State int

const (
	StateNotStarted State = iota
	StatePrimaryAttempted
	StateFallbackAttempted
	StateSucceeded
	StateFailed
)

var stateNames = map[State]string{
	StateNotStarted:        "not_started",
	StatePrimaryAttempted:  "primary_attempted",
	StateFallbackAttempted: "fallback_attempted",
	StateSucceeded:         "succeeded",
	StateFailed:            "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

var transitions = map[State][]State{
	StateNotStarted:        {StatePrimaryAttempted},
	StatePrimaryAttempted:  {StateSucceeded, StateFallbackAttempted, StateFailed},
	StateFallbackAttempted: {StateSucceeded, StateFailed},
}

// CanTransition reports whether from -> to is a legal step.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// attempt tracks the state of a single Complete call.
type attempt struct {
	state State
	path  []State
}

func newAttempt() *attempt {
	return &attempt{state: StateNotStarted, path: []State{StateNotStarted}}
}

func (a *attempt) advance(to State) error {
	if !CanTransition(a.state, to) {
		return fmt.Errorf("provider: illegal state transition %s -> %s", a.state, to)
	}
	a.state = to
	a.path = append(a.path, to)
	return nil
}

func (a *attempt) String() string {
	names := make([]string, len(a.path))
	for i, s := range a.path {
		names[i] = s.String()
	}
	return strings.Join(names, " -> ")
}
