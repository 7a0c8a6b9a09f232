// Package fsm defines the reading session view transitions.
package fsm

import (
	"errors"
	"fmt"
)

type View string

type Event string

const (
	ViewSetup   View = "setup"
	ViewTesting View = "testing"
	ViewResults View = "results"
)

const (
	EventStart    Event = "start"
	EventComplete Event = "complete"
	EventRestart  Event = "restart"
)

// ErrInvalidTransition is wrapped by every rejected transition.
var ErrInvalidTransition = errors.New("invalid transition")

func Transition(current View, event Event) (View, error) {
	switch current {
	case ViewSetup:
		switch event {
		case EventStart:
			return ViewTesting, nil
		case EventRestart:
			return ViewSetup, nil
		default:
			return current, invalidTransition(current, event)
		}
	case ViewTesting:
		switch event {
		case EventComplete:
			return ViewResults, nil
		case EventRestart:
			return ViewSetup, nil
		default:
			return current, invalidTransition(current, event)
		}
	case ViewResults:
		switch event {
		case EventRestart:
			return ViewSetup, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown view %q", current)
	}
}

func invalidTransition(view View, event Event) error {
	return fmt.Errorf("%w: %s --(%s)--> ?", ErrInvalidTransition, view, event)
}
