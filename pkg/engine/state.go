// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"
	"slices"
)

// Invocation states in lifecycle order.
const (
	StateResolvingCommand State = iota
	StateBindingTokens
	StateApplyingDefaults
	StateValidating
	StateExecutingActions
	StateDone
	StateFailed
)

// transitions lists the states reachable from each non-terminal state.
var transitions = map[State][]State{
	StateResolvingCommand: {StateBindingTokens, StateFailed},
	StateBindingTokens:    {StateApplyingDefaults, StateExecutingActions, StateFailed},
	StateApplyingDefaults: {StateValidating, StateFailed},
	StateValidating:       {StateExecutingActions, StateFailed},
	StateExecutingActions: {StateDone, StateFailed},
}

// State is a phase of a single invocation.
type State uint8

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateResolvingCommand:
		return "ResolvingCommand"
	case StateBindingTokens:
		return "BindingTokens"
	case StateApplyingDefaults:
		return "ApplyingDefaults"
	case StateValidating:
		return "Validating"
	case StateExecutingActions:
		return "ExecutingActions"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s State) CanTransition(next State) bool {
	return slices.Contains(transitions[s], next)
}
