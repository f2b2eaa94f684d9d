package model

import "time"

// Grade is the ordinal trust tier a volunteer can hold.
// Volunteers without a grade yet are treated as below Green.
type Grade string

const (
	GradeNone   Grade = ""
	GradeGreen  Grade = "GREEN"
	GradeYellow Grade = "YELLOW"
	GradePink   Grade = "PINK"
)

// Rank returns the ordering position of a grade (Green < Yellow < Pink).
// An unknown or empty grade ranks below Green.
func (g Grade) Rank() int {
	switch g {
	case GradeGreen:
		return 1
	case GradeYellow:
		return 2
	case GradePink:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether g meets or exceeds the minimum grade.
func (g Grade) AtLeast(minimum Grade) bool {
	return g.Rank() >= minimum.Rank()
}

func (g Grade) IsValid() bool {
	return g == GradeNone || g == GradeGreen || g == GradeYellow || g == GradePink
}

// Completed-shift thresholds for automatic grade promotion
const (
	PromotionThresholdYellow = 10
	PromotionThresholdPink   = 25
)

// GradeForCompletedShifts returns the grade a volunteer should hold after
// completing the given number of shifts. Grades are never demoted, so the
// current grade wins if it already ranks higher.
func GradeForCompletedShifts(completed int, current Grade) Grade {
	earned := GradeGreen
	if completed >= PromotionThresholdPink {
		earned = GradePink
	} else if completed >= PromotionThresholdYellow {
		earned = GradeYellow
	}
	if current.Rank() > earned.Rank() {
		return current
	}
	return earned
}

// SignupStatus is the lifecycle state of a signup.
type SignupStatus string

const (
	StatusPending    SignupStatus = "PENDING"
	StatusConfirmed  SignupStatus = "CONFIRMED"
	StatusWaitlisted SignupStatus = "WAITLISTED"
	StatusCanceled   SignupStatus = "CANCELED"
	StatusNoShow     SignupStatus = "NO_SHOW"
)

func (s SignupStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusWaitlisted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether a signup in this status can no longer
// transition. Canceled and no-show signups are final.
func (s SignupStatus) IsTerminal() bool {
	return s == StatusCanceled || s == StatusNoShow
}

// QueueKind distinguishes a signup for a concrete shift from one placed in
// the general volunteering queue. It replaces a second pending status so
// that status filters and counts stay unambiguous.
type QueueKind string

const (
	QueueShift   QueueKind = "SHIFT"
	QueueGeneral QueueKind = "GENERAL"
)

func (q QueueKind) IsValid() bool {
	return q == QueueShift || q == QueueGeneral
}

// CriteriaLogic is the combinator applied to an auto-accept rule's predicates.
type CriteriaLogic string

const (
	LogicAnd CriteriaLogic = "AND"
	LogicOr  CriteriaLogic = "OR"
)

func (l CriteriaLogic) IsValid() bool {
	return l == LogicAnd || l == LogicOr
}

// NotificationKind identifies the user-facing message a state transition
// produces. Placement and movement use distinct kinds so recipients can tell
// "you were placed" apart from "you were moved".
type NotificationKind string

const (
	NotifySignupConfirmed  NotificationKind = "SIGNUP_CONFIRMED"
	NotifySignupPending    NotificationKind = "SIGNUP_PENDING"
	NotifySignupWaitlisted NotificationKind = "SIGNUP_WAITLISTED"
	NotifySignupCanceled   NotificationKind = "SIGNUP_CANCELED"
	NotifyPromoted         NotificationKind = "WAITLIST_PROMOTED"
	NotifyPlaced           NotificationKind = "FLEXIBLE_PLACED"
	NotifyMoved            NotificationKind = "SHIFT_MOVED"
	NotifyNoShow           NotificationKind = "MARKED_NO_SHOW"
	NotifyGradePromoted    NotificationKind = "GRADE_PROMOTED"
)

// NotificationEvent describes a user-visible state transition. Events are
// ephemeral: they are handed to the dispatcher after the transition commits
// and are not persisted by the core.
type NotificationEvent struct {
	UserID         string
	Kind           NotificationKind
	RelatedShiftID string
	Message        string
	OccurredAt     time.Time
}
