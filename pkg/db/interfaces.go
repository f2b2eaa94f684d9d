package db

import (
	"context"
	"time"
)

// ShiftTx is the store view inside a shift-scoped transaction. The
// implementation must hold the locks for every shift ID the transaction was
// opened with, so that {count confirmed signups, decide, write} is
// serializable per shift and the capacity invariant cannot transiently
// break under concurrent load.
type ShiftTx interface {
	GetShift(ctx context.Context, shiftID string) (*Shift, error)

	// CountConfirmed counts CONFIRMED signups for the shift.
	CountConfirmed(ctx context.Context, shiftID string) (int, error)

	GetSignup(ctx context.Context, signupID string) (*Signup, error)

	// GetSignupForVolunteerAndShift returns the signup for the
	// (volunteer, shift) pair, or nil when none exists.
	GetSignupForVolunteerAndShift(ctx context.Context, volunteerID, shiftID string) (*Signup, error)

	// ListConfirmedForVolunteerBetween returns the volunteer's CONFIRMED
	// signups whose shift starts in [from, to).
	ListConfirmedForVolunteerBetween(ctx context.Context, volunteerID string, from, to time.Time) ([]Signup, error)

	// ListWaitlisted returns the shift's WAITLISTED signups ordered oldest
	// first (FIFO by created_at). Queried fresh on every cancellation so
	// the ordering never goes stale.
	ListWaitlisted(ctx context.Context, shiftID string) ([]Signup, error)

	InsertSignup(ctx context.Context, signup *Signup) error
	UpdateSignup(ctx context.Context, signup *Signup) error
}

// TxRunner opens a transaction scoped to one or more shifts. Every shift in
// shiftIDs is locked (in a stable order, to avoid deadlock between
// concurrent movements) before fn runs; returning an error rolls the
// transaction back with no partial writes.
type TxRunner interface {
	InShiftTx(ctx context.Context, shiftIDs []string, fn func(tx ShiftTx) error) error
}

// ShiftStore defines non-transactional shift operations
type ShiftStore interface {
	GetShift(ctx context.Context, shiftID string) (*Shift, error)
	ListShiftsBetween(ctx context.Context, from, to time.Time) ([]Shift, error)
	InsertShifts(ctx context.Context, shifts []Shift) error
	GetShiftType(ctx context.Context, shiftTypeID string) (*ShiftType, error)
	ListShiftTypes(ctx context.Context) ([]ShiftType, error)
}

// VolunteerStore defines volunteer profile operations
type VolunteerStore interface {
	GetVolunteer(ctx context.Context, volunteerID string) (*Volunteer, error)
	ListActiveVolunteers(ctx context.Context) ([]Volunteer, error)

	// UpdateVolunteerRecord persists grade, completed-shift count,
	// attendance rate and experience changes.
	UpdateVolunteerRecord(ctx context.Context, volunteer *Volunteer) error

	SetVolunteerActive(ctx context.Context, volunteerID string, active bool) error
}

// RuleStore defines auto-accept rule operations. Rules are read-only to the
// engine at evaluation time.
type RuleStore interface {
	ListRules(ctx context.Context) ([]AutoAcceptRule, error)
	InsertRule(ctx context.Context, rule *AutoAcceptRule) error
}

// SignupReader defines non-transactional signup lookups
type SignupReader interface {
	GetSignup(ctx context.Context, signupID string) (*Signup, error)
	ListSignupsForShift(ctx context.Context, shiftID string) ([]Signup, error)
	ListSignupsForVolunteer(ctx context.Context, volunteerID string) ([]Signup, error)
}

// Store is the full persistence surface the service layer builds on
type Store interface {
	TxRunner
	ShiftStore
	VolunteerStore
	RuleStore
	SignupReader
}
