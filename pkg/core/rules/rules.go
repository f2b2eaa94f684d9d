package rules

import (
	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
)

// Rule is an admin-authored auto-accept rule. Threshold fields are pointers:
// a nil threshold contributes no predicate at all, it never forces a failure.
// Rules are read-only at evaluation time.
type Rule struct {
	ID          string
	Name        string
	Enabled     bool
	Priority    int
	ShiftTypeID string // empty = global, applies to every shift type

	MinVolunteerGrade          *model.Grade
	MinCompletedShifts         *int
	MinAttendanceRate          *int
	MinAccountAgeDays          *int
	MaxDaysInAdvance           *int
	RequireShiftTypeExperience bool

	CriteriaLogic model.CriteriaLogic
	StopOnMatch   bool
}

// Context carries the volunteer and shift facts a rule is evaluated against.
type Context struct {
	VolunteerGrade         model.Grade
	CompletedShifts        int
	AttendanceRate         int
	AccountAgeDays         int
	DaysUntilShift         int
	HasShiftTypeExperience bool
}

// Verdict is the engine's decision for one volunteer/shift pair.
type Verdict struct {
	Status        model.SignupStatus // StatusConfirmed or StatusPending
	MatchedRuleID string             // empty when no rule matched
}
