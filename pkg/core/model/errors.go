package model

import "errors"

// Conflict errors: the requested transition is valid in shape but collides
// with current state. The caller sees the error and no state changes.
var (
	ErrAlreadySignedUp      = errors.New("volunteer already has a signup for this shift")
	ErrDuplicateDailySignup = errors.New("volunteer already has a confirmed signup that day")
	ErrTargetFull           = errors.New("target shift has no remaining capacity")
	ErrDoubleBooking        = errors.New("move would double-book the volunteer")
	ErrAlreadyPlaced        = errors.New("flexible signup has already been placed")
	ErrNoOpMove             = errors.New("target shift is the signup's current shift")
	ErrVolunteerInactive    = errors.New("volunteer is deactivated")
)

// Not-found errors
var (
	ErrShiftNotFound     = errors.New("shift not found")
	ErrSignupNotFound    = errors.New("signup not found")
	ErrVolunteerNotFound = errors.New("volunteer not found")
)

// Transition errors
var (
	ErrSignupTerminal   = errors.New("signup is in a terminal state")
	ErrNotConfirmed     = errors.New("signup is not confirmed")
	ErrNotFlexible      = errors.New("signup is not a flexible placement")
	ErrShiftNotFinished = errors.New("shift has not ended yet")
)

// IsConflict reports whether err is one of the deterministic conflict
// errors that map to a rejected-but-consistent transition.
func IsConflict(err error) bool {
	for _, conflict := range []error{
		ErrAlreadySignedUp,
		ErrDuplicateDailySignup,
		ErrTargetFull,
		ErrDoubleBooking,
		ErrAlreadyPlaced,
		ErrNoOpMove,
		ErrVolunteerInactive,
		ErrSignupTerminal,
		ErrNotConfirmed,
		ErrNotFlexible,
		ErrShiftNotFinished,
	} {
		if errors.Is(err, conflict) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is one of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrSignupNotFound) ||
		errors.Is(err, ErrVolunteerNotFound)
}
