// Package lifecycle models the booking lifecycle shared by customers and
// providers. A single internal state set backs both actor vocabularies:
// the customer label for an accepted booking is "confirmed", the provider
// label is "accepted". Mapping happens at the edges so the two views
// cannot drift.
package lifecycle

import (
	"fixly/internal/models"
)

type State int

const (
	StateUnknown State = iota
	StatePending
	StateAccepted
	StateCompleted
	StateCancelled
	StateRejected
)

// transitions is the legal lifecycle graph. Terminal states have no
// outgoing edges; nothing ever re-enters a prior state.
var transitions = map[State][]State{
	StatePending:  {StateAccepted, StateCancelled, StateRejected},
	StateAccepted: {StateCompleted, StateCancelled},
}

// Parse accepts either actor vocabulary and returns the internal state.
func Parse(status string) State {
	switch status {
	case models.StatusPending:
		return StatePending
	case models.StatusConfirmed, models.StatusAccepted:
		return StateAccepted
	case models.StatusCompleted:
		return StateCompleted
	case models.StatusCancelled:
		return StateCancelled
	case models.StatusRejected:
		return StateRejected
	default:
		return StateUnknown
	}
}

// CustomerLabel renders the state in the customer vocabulary.
func (s State) CustomerLabel() string {
	switch s {
	case StatePending:
		return models.StatusPending
	case StateAccepted:
		return models.StatusConfirmed
	case StateCompleted:
		return models.StatusCompleted
	case StateCancelled:
		return models.StatusCancelled
	case StateRejected:
		// Customers see a rejected booking as cancelled.
		return models.StatusCancelled
	default:
		return ""
	}
}

// ProviderLabel renders the state in the provider vocabulary.
func (s State) ProviderLabel() string {
	switch s {
	case StatePending:
		return models.StatusPending
	case StateAccepted:
		return models.StatusAccepted
	case StateCompleted:
		return models.StatusCompleted
	case StateCancelled:
		return models.StatusCancelled
	case StateRejected:
		return models.StatusRejected
	default:
		return ""
	}
}

func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateCancelled, StateRejected:
		return true
	default:
		return false
	}
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether a booking in the given wire status may still be
// cancelled by the customer.
func CanCancel(status string) bool {
	return CanTransition(Parse(status), StateCancelled)
}

// CanAccept and CanReject guard the provider's decision on a pending
// booking; CanComplete guards closing out an accepted one.
func CanAccept(status string) bool {
	return CanTransition(Parse(status), StateAccepted)
}

func CanReject(status string) bool {
	return CanTransition(Parse(status), StateRejected)
}

func CanComplete(status string) bool {
	return CanTransition(Parse(status), StateCompleted)
}
