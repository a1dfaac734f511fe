// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package toggle decides how many clicks turn a two-state control into a
// requested state. Page objects read the current state back from the DOM
// and click exactly DesiredClickCount times, which makes "set to X"
// idempotent regardless of the starting state.
package toggle

import (
	"fmt"
	"strings"
)

// State is the checked state of a checkbox or switch.
type State int

const (
	// Unknown means the state attribute was missing or unparsable.
	Unknown State = iota
	// Off is an unchecked control.
	Off
	// On is a checked control.
	On
)

func (s State) String() string {
	switch s {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "unknown"
	}
}

// ParseState reads a data-checked-state / aria-checked style attribute.
func ParseState(attr string) State {
	switch strings.ToLower(strings.TrimSpace(attr)) {
	case "true":
		return On
	case "false":
		return Off
	default:
		return Unknown
	}
}

// DesiredClickCount returns 0 when the control already has the target state
// and 1 otherwise.
func DesiredClickCount(current, target State) (int, error) {
	if current == Unknown {
		return 0, fmt.Errorf("cannot toggle from unknown state to %s", target)
	}
	if target == Unknown {
		return 0, fmt.Errorf("target state must be on or off")
	}
	if current == target {
		return 0, nil
	}
	return 1, nil
}

// Action maps a page object verb to the control state it requests.
type Action string

// Actions understood by the user preference toggles.
const (
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
	ActionHide    Action = "hide"
)

// TargetFor returns the state an action asks for. onAction is the verb that
// corresponds to a checked control, e.g. "hide" for
// "Hide user workload notifications".
func TargetFor(action, onAction, offAction Action) (State, error) {
	switch action {
	case onAction:
		return On, nil
	case offAction:
		return Off, nil
	default:
		return Unknown, fmt.Errorf("unsupported action %q, want %q or %q", action, onAction, offAction)
	}
}
