package services

import (
	"time"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/rules"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// Notifier accepts notification events for asynchronous delivery. Publishing
// must never block the calling transition; delivery failures are the
// dispatcher's problem, not the caller's.
type Notifier interface {
	Publish(event model.NotificationEvent)
}

// dayBounds returns the start of t's calendar day and the start of the next
// day, both in the venue's local timezone.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// sameCalendarDay reports whether a and b fall on the same calendar day in
// the venue's local timezone.
func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// daysUntil returns the whole calendar days from now until the shift start,
// in the venue's local timezone. A shift starting today is 0 days away.
func daysUntil(shiftStart, now time.Time, loc *time.Location) int {
	nowDay, _ := dayBounds(now, loc)
	shiftDay, _ := dayBounds(shiftStart, loc)
	return int(shiftDay.Sub(nowDay).Hours() / 24)
}

// ruleFromRecord converts a stored auto-accept rule into the engine's
// domain type.
func ruleFromRecord(record db.AutoAcceptRule) rules.Rule {
	rule := rules.Rule{
		ID:                         record.ID,
		Name:                       record.Name,
		Enabled:                    record.Enabled,
		Priority:                   record.Priority,
		MinVolunteerGrade:          record.MinVolunteerGrade,
		MinCompletedShifts:         record.MinCompletedShifts,
		MinAttendanceRate:          record.MinAttendanceRate,
		MinAccountAgeDays:          record.MinAccountAgeDays,
		MaxDaysInAdvance:           record.MaxDaysInAdvance,
		RequireShiftTypeExperience: record.RequireShiftTypeExperience,
		CriteriaLogic:              record.CriteriaLogic,
		StopOnMatch:                record.StopOnMatch,
	}
	if record.ShiftTypeID != nil {
		rule.ShiftTypeID = *record.ShiftTypeID
	}
	return rule
}

// rulesFromRecords converts the full stored rule set.
func rulesFromRecords(records []db.AutoAcceptRule) []rules.Rule {
	converted := make([]rules.Rule, len(records))
	for i, record := range records {
		converted[i] = ruleFromRecord(record)
	}
	return converted
}

// evaluationContext builds the rule engine's view of one volunteer/shift
// pair at the given instant.
func evaluationContext(volunteer *db.Volunteer, shift *db.Shift, now time.Time, loc *time.Location) rules.Context {
	return rules.Context{
		VolunteerGrade:         volunteer.Grade,
		CompletedShifts:        volunteer.CompletedShifts,
		AttendanceRate:         volunteer.AttendanceRate,
		AccountAgeDays:         volunteer.AccountAgeDays(now),
		DaysUntilShift:         daysUntil(shift.Start, now, loc),
		HasShiftTypeExperience: volunteer.HasExperience(shift.ShiftTypeID),
	}
}

// publish hands an event to the notifier if one is wired. Dispatch is
// fire-and-forget relative to the state transition that produced the event.
func publish(sink Notifier, event model.NotificationEvent) {
	if sink == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	sink.Publish(event)
}
