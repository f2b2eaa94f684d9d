package db

import (
	"time"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
)

// ShiftType categorizes shifts. A flexible shift type is the "anywhere
// needed" queue whose signups are later placed onto a concrete shift.
type ShiftType struct {
	ID       string
	Name     string
	Flexible bool
}

// Shift represents a scheduled restaurant shift record
type Shift struct {
	ID          string
	ShiftTypeID string
	Location    string
	Start       time.Time
	End         time.Time
	Capacity    int
	Notes       string
	CreatedAt   time.Time
}

// Volunteer represents a volunteer profile record. Volunteers are
// deactivated rather than deleted.
type Volunteer struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	Grade           model.Grade
	CompletedShifts int
	AttendanceRate  int // 0-100
	JoinedAt        time.Time
	Active          bool
	NotifyByEmail   bool

	// Shift type IDs this volunteer has worked before
	ExperienceShiftTypeIDs []string
}

// HasExperience reports whether the volunteer has worked the shift type.
func (v *Volunteer) HasExperience(shiftTypeID string) bool {
	for _, id := range v.ExperienceShiftTypeIDs {
		if id == shiftTypeID {
			return true
		}
	}
	return false
}

// AccountAgeDays returns the whole days since the volunteer joined.
func (v *Volunteer) AccountAgeDays(now time.Time) int {
	age := int(now.Sub(v.JoinedAt).Hours() / 24)
	if age < 0 {
		return 0
	}
	return age
}

// Signup represents a signup record. Signups are never deleted, only
// transitioned to a terminal status.
type Signup struct {
	ID                  string
	VolunteerID         string
	ShiftID             string
	Status              model.SignupStatus
	Queue               model.QueueKind
	IsFlexiblePlacement bool
	OriginalShiftID     *string // set when a placement or move relocates the signup
	PlacedAt            *time.Time
	PlacementNotes      string
	CreatedAt           time.Time
}

// AutoAcceptRule represents an admin-authored auto-accept rule record.
// Nil thresholds are unset and contribute no predicate.
type AutoAcceptRule struct {
	ID          string
	Name        string
	Enabled     bool
	Priority    int
	ShiftTypeID *string // nil = global

	MinVolunteerGrade          *model.Grade
	MinCompletedShifts         *int
	MinAttendanceRate          *int
	MinAccountAgeDays          *int
	MaxDaysInAdvance           *int
	RequireShiftTypeExperience bool

	CriteriaLogic model.CriteriaLogic
	StopOnMatch   bool
	CreatedAt     time.Time
}
