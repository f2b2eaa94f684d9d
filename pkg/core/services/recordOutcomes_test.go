package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

func endedShift() db.Shift {
	return db.Shift{
		ID: "ended", ShiftTypeID: "kitchen", Location: "Main kitchen",
		Start: time.Now().Add(-26 * time.Hour), End: time.Now().Add(-23 * time.Hour), Capacity: 4,
	}
}

func TestRecordShiftOutcomes_UpdatesCountsAndExperience(t *testing.T) {
	store := fixtureStore()
	store.addShift(endedShift())
	store.addSignup(db.Signup{
		ID: "attended", VolunteerID: "vera", ShiftID: "ended",
		Status: model.StatusConfirmed, CreatedAt: time.Now().Add(-48 * time.Hour),
	})

	result, err := RecordShiftOutcomes(context.Background(), store, nil, testConfig(), zap.NewNop(), "ended")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attended)
	assert.Equal(t, 0, result.NoShows)

	vera := store.volunteers["vera"]
	assert.Equal(t, 7, vera.CompletedShifts)
	assert.True(t, vera.HasExperience("kitchen"))
	assert.Equal(t, 100, vera.AttendanceRate)
}

func TestRecordShiftOutcomes_GradePromotionAtThreshold(t *testing.T) {
	store := fixtureStore()
	store.addShift(endedShift())
	store.addVolunteer(db.Volunteer{
		ID: "nia", Grade: model.GradeGreen,
		CompletedShifts: model.PromotionThresholdYellow - 1,
		JoinedAt:        time.Now().AddDate(0, -6, 0), Active: true,
	})
	store.addSignup(db.Signup{
		ID: "attended", VolunteerID: "nia", ShiftID: "ended",
		Status: model.StatusConfirmed, CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	sink := &mockNotifier{}

	result, err := RecordShiftOutcomes(context.Background(), store, sink, testConfig(), zap.NewNop(), "ended")
	require.NoError(t, err)

	assert.Equal(t, model.GradeYellow, result.GradePromotions["nia"])
	assert.Equal(t, model.GradeYellow, store.volunteers["nia"].Grade)
	assert.Equal(t, []model.NotificationKind{model.NotifyGradePromoted}, sink.kinds())
}

func TestRecordShiftOutcomes_NoShowLowersAttendance(t *testing.T) {
	store := fixtureStore()
	store.addShift(endedShift())
	store.addVolunteer(db.Volunteer{
		ID: "theo", Grade: model.GradeGreen, CompletedShifts: 2,
		JoinedAt: time.Now().AddDate(0, -3, 0), Active: true,
	})
	store.addSignup(db.Signup{
		ID: "attended", VolunteerID: "theo", ShiftID: "ended",
		Status: model.StatusConfirmed, CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	store.addSignup(db.Signup{
		ID: "missed", VolunteerID: "theo", ShiftID: "other",
		Status: model.StatusNoShow, CreatedAt: time.Now().Add(-72 * time.Hour),
	})

	result, err := RecordShiftOutcomes(context.Background(), store, nil, testConfig(), zap.NewNop(), "ended")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attended)
	// 3 completed, 1 no-show -> 75%
	assert.Equal(t, 3, store.volunteers["theo"].CompletedShifts)
	assert.Equal(t, 75, store.volunteers["theo"].AttendanceRate)
}

func TestRecordShiftOutcomes_ShiftNotEnded(t *testing.T) {
	store := fixtureStore()
	store.addShift(db.Shift{
		ID: "future", ShiftTypeID: "kitchen",
		Start: tomorrowAt(18), End: tomorrowAt(21), Capacity: 4,
	})

	_, err := RecordShiftOutcomes(context.Background(), store, nil, testConfig(), zap.NewNop(), "future")

	assert.ErrorIs(t, err, model.ErrShiftNotFinished)
}

func TestRecordShiftOutcomes_CountsNoShows(t *testing.T) {
	store := fixtureStore()
	store.addShift(endedShift())
	store.addSignup(db.Signup{
		ID: "missed", VolunteerID: "vera", ShiftID: "ended",
		Status: model.StatusNoShow, CreatedAt: time.Now().Add(-48 * time.Hour),
	})

	result, err := RecordShiftOutcomes(context.Background(), store, nil, testConfig(), zap.NewNop(), "ended")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Attended)
	assert.Equal(t, 1, result.NoShows)
	// No-show volunteers gain no completed-shift credit
	assert.Equal(t, 6, store.volunteers["vera"].CompletedShifts)
}
