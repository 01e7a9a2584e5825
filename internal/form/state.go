package form

import (
	"errors"
	"fmt"

	"filmdesk/internal/services"
)

// State is the submission state of a controller.
type State int

const (
	StateIdle State = iota
	StateNormalizing
	StateDispatching
	StateCreated
	StateUpdated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNormalizing:
		return "normalizing"
	case StateDispatching:
		return "dispatching"
	case StateCreated:
		return "created"
	case StateUpdated:
		return "updated"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// InFlight reports whether a submission is being prepared or sent.
func (s State) InFlight() bool {
	return s == StateNormalizing || s == StateDispatching
}

// Mode says whether the form creates a new work or edits an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submission has not settled.
	ErrSubmitInFlight = fmt.Errorf("%w: submission already in flight", services.ErrValidation)
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("form closed")
)
