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

func placementFixture() *mockStore {
	store := fixtureStore()
	store.addShift(db.Shift{
		ID: "flex-pool", ShiftTypeID: "anywhere", Location: "Wherever needed",
		Start: tomorrowAt(17), End: tomorrowAt(22), Capacity: 10,
	})
	store.addShift(db.Shift{
		ID: "dinner", ShiftTypeID: "kitchen", Location: "Main kitchen",
		Start: tomorrowAt(18), End: tomorrowAt(21), Capacity: 2,
	})
	return store
}

func TestPlaceFlexible_Success(t *testing.T) {
	store := placementFixture()
	store.addSignup(db.Signup{
		ID: "flex-signup", VolunteerID: "vera", ShiftID: "flex-pool",
		Status: model.StatusConfirmed, Queue: model.QueueGeneral,
		IsFlexiblePlacement: true, CreatedAt: time.Now(),
	})
	sink := &mockNotifier{}

	placed, err := PlaceFlexible(context.Background(), store, sink, testConfig(), zap.NewNop(),
		"flex-signup", "dinner", "short on servers")
	require.NoError(t, err)

	assert.Equal(t, "dinner", placed.ShiftID)
	require.NotNil(t, placed.OriginalShiftID)
	assert.Equal(t, "flex-pool", *placed.OriginalShiftID)
	assert.NotNil(t, placed.PlacedAt)
	assert.Equal(t, "short on servers", placed.PlacementNotes)
	assert.Equal(t, model.StatusConfirmed, placed.Status)

	assert.Equal(t, []model.NotificationKind{model.NotifyPlaced}, sink.kinds())

	// Both the origin and target shifts were in the lock scope
	require.Len(t, store.lockScopes, 1)
	assert.ElementsMatch(t, []string{"flex-pool", "dinner"}, store.lockScopes[0])
}

func TestPlaceFlexible_SecondPlacementRejected(t *testing.T) {
	store := placementFixture()
	store.addSignup(db.Signup{
		ID: "flex-signup", VolunteerID: "vera", ShiftID: "flex-pool",
		Status: model.StatusConfirmed, IsFlexiblePlacement: true, CreatedAt: time.Now(),
	})

	_, err := PlaceFlexible(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"flex-signup", "dinner", "")
	require.NoError(t, err)

	before := *store.signups["flex-signup"]

	_, err = PlaceFlexible(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"flex-signup", "dinner", "again")
	assert.ErrorIs(t, err, model.ErrAlreadyPlaced)

	// State unchanged by the rejected call
	assert.Equal(t, before, *store.signups["flex-signup"])
}

func TestPlaceFlexible_TargetFull(t *testing.T) {
	store := placementFixture()
	store.addSignup(db.Signup{
		ID: "flex-signup", VolunteerID: "vera", ShiftID: "flex-pool",
		Status: model.StatusConfirmed, IsFlexiblePlacement: true, CreatedAt: time.Now(),
	})
	store.addSignup(db.Signup{
		ID: "d1", VolunteerID: "alice", ShiftID: "dinner",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})
	store.addSignup(db.Signup{
		ID: "d2", VolunteerID: "bruno", ShiftID: "dinner",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})

	_, err := PlaceFlexible(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"flex-signup", "dinner", "")

	assert.ErrorIs(t, err, model.ErrTargetFull)
}

func TestPlaceFlexible_NotFlexibleSignup(t *testing.T) {
	store := placementFixture()
	store.addSignup(db.Signup{
		ID: "plain", VolunteerID: "vera", ShiftID: "dinner",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})

	_, err := PlaceFlexible(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"plain", "dinner", "")

	assert.ErrorIs(t, err, model.ErrNotFlexible)
}

func TestMoveVolunteer_Success(t *testing.T) {
	store := placementFixture()
	store.addShift(db.Shift{
		ID: "prep", ShiftTypeID: "kitchen", Location: "Prep room",
		Start: tomorrowAt(10).AddDate(0, 0, 1), End: tomorrowAt(13).AddDate(0, 0, 1), Capacity: 2,
	})
	store.addSignup(db.Signup{
		ID: "signup", VolunteerID: "vera", ShiftID: "dinner",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})
	sink := &mockNotifier{}

	moved, err := MoveVolunteer(context.Background(), store, sink, testConfig(), zap.NewNop(),
		"signup", "prep", "needed earlier")
	require.NoError(t, err)

	assert.Equal(t, "prep", moved.ShiftID)
	require.NotNil(t, moved.OriginalShiftID)
	assert.Equal(t, "dinner", *moved.OriginalShiftID)
	assert.Equal(t, model.StatusConfirmed, moved.Status)
	assert.Equal(t, []model.NotificationKind{model.NotifyMoved}, sink.kinds())
}

func TestMoveVolunteer_NoOpMove(t *testing.T) {
	store := placementFixture()
	store.addSignup(db.Signup{
		ID: "signup", VolunteerID: "vera", ShiftID: "dinner",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})

	_, err := MoveVolunteer(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"signup", "dinner", "")

	assert.ErrorIs(t, err, model.ErrNoOpMove)
	// Rejected before any lock was taken
	assert.Empty(t, store.lockScopes)
}

func TestMoveVolunteer_TargetFull(t *testing.T) {
	store := placementFixture()
	store.addShift(db.Shift{
		ID: "tiny", ShiftTypeID: "kitchen",
		Start: tomorrowAt(9).AddDate(0, 0, 1), End: tomorrowAt(12).AddDate(0, 0, 1), Capacity: 1,
	})
	store.addSignup(db.Signup{
		ID: "taken", VolunteerID: "alice", ShiftID: "tiny",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})
	store.addSignup(db.Signup{
		ID: "signup", VolunteerID: "vera", ShiftID: "dinner",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})

	_, err := MoveVolunteer(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"signup", "tiny", "")

	assert.ErrorIs(t, err, model.ErrTargetFull)
}

func TestMoveVolunteer_DoubleBooking(t *testing.T) {
	store := placementFixture()
	// Lunch is on the same day as dinner; Vera is confirmed for both the
	// shift being moved and another same-day shift
	store.addShift(db.Shift{
		ID: "lunch", ShiftTypeID: "kitchen",
		Start: tomorrowAt(11), End: tomorrowAt(14), Capacity: 4,
	})
	store.addShift(db.Shift{
		ID: "next-week", ShiftTypeID: "kitchen",
		Start: tomorrowAt(18).AddDate(0, 0, 7), End: tomorrowAt(21).AddDate(0, 0, 7), Capacity: 4,
	})
	store.addSignup(db.Signup{
		ID: "vera-lunch", VolunteerID: "vera", ShiftID: "lunch",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})
	store.addSignup(db.Signup{
		ID: "vera-next-week", VolunteerID: "vera", ShiftID: "next-week",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})

	// Moving the next-week signup onto tomorrow's dinner collides with the
	// lunch confirmation, which is not the shift being vacated
	_, err := MoveVolunteer(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"vera-next-week", "dinner", "")
	assert.ErrorIs(t, err, model.ErrDoubleBooking)

	// Moving the lunch signup itself to dinner is fine: the only same-day
	// confirmation is the one being replaced
	moved, err := MoveVolunteer(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"vera-lunch", "dinner", "")
	require.NoError(t, err)
	assert.Equal(t, "dinner", moved.ShiftID)
}

func TestMoveVolunteer_KeepsOriginalLineage(t *testing.T) {
	store := placementFixture()
	store.addShift(db.Shift{
		ID: "prep", ShiftTypeID: "kitchen",
		Start: tomorrowAt(10).AddDate(0, 0, 1), End: tomorrowAt(13).AddDate(0, 0, 1), Capacity: 2,
	})
	store.addShift(db.Shift{
		ID: "stores", ShiftTypeID: "kitchen",
		Start: tomorrowAt(10).AddDate(0, 0, 2), End: tomorrowAt(13).AddDate(0, 0, 2), Capacity: 2,
	})
	store.addSignup(db.Signup{
		ID: "signup", VolunteerID: "vera", ShiftID: "dinner",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})

	_, err := MoveVolunteer(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"signup", "prep", "")
	require.NoError(t, err)

	moved, err := MoveVolunteer(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"signup", "stores", "")
	require.NoError(t, err)

	// The first move set the origin; the second must not overwrite it
	require.NotNil(t, moved.OriginalShiftID)
	assert.Equal(t, "dinner", *moved.OriginalShiftID)
}

func TestMoveVolunteer_RequiresConfirmed(t *testing.T) {
	store := placementFixture()
	store.addSignup(db.Signup{
		ID: "waiting", VolunteerID: "vera", ShiftID: "dinner",
		Status: model.StatusWaitlisted, CreatedAt: time.Now(),
	})
	store.addShift(db.Shift{
		ID: "prep", ShiftTypeID: "kitchen",
		Start: tomorrowAt(10).AddDate(0, 0, 1), End: tomorrowAt(13).AddDate(0, 0, 1), Capacity: 2,
	})

	_, err := MoveVolunteer(context.Background(), store, nil, testConfig(), zap.NewNop(),
		"waiting", "prep", "")

	assert.ErrorIs(t, err, model.ErrNotConfirmed)
}
