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

func TestEvaluateRules_PreviewWithoutWrites(t *testing.T) {
	store := fixtureStore()
	store.ruleRows = []db.AutoAcceptRule{trustedRule()}
	store.addShift(db.Shift{
		ID: "shift-1", ShiftTypeID: "kitchen",
		Start: tomorrowAt(18), End: tomorrowAt(21), Capacity: 4,
	})

	preview, err := EvaluateRules(context.Background(), store, testConfig(), zap.NewNop(), "vera", "shift-1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, preview.Verdict.Status)
	assert.Equal(t, "rule-trusted", preview.Verdict.MatchedRuleID)
	assert.Equal(t, []string{"rule-trusted"}, preview.AllMatching)
	assert.Equal(t, model.GradeYellow, preview.Context.VolunteerGrade)

	// Preview commits nothing
	assert.Empty(t, store.signups)
	assert.Empty(t, store.lockScopes)
}

func TestEvaluateRules_PendingWhenNothingMatches(t *testing.T) {
	store := fixtureStore()
	store.addShift(db.Shift{
		ID: "shift-1", ShiftTypeID: "kitchen",
		Start: tomorrowAt(18), End: tomorrowAt(21), Capacity: 4,
	})

	preview, err := EvaluateRules(context.Background(), store, testConfig(), zap.NewNop(), "vera", "shift-1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, preview.Verdict.Status)
	assert.Empty(t, preview.AllMatching)
}

func TestEvaluateRules_UnknownVolunteer(t *testing.T) {
	store := fixtureStore()
	store.addShift(db.Shift{
		ID: "shift-1", ShiftTypeID: "kitchen",
		Start: tomorrowAt(18), End: tomorrowAt(21), Capacity: 4,
	})

	_, err := EvaluateRules(context.Background(), store, testConfig(), zap.NewNop(), "nobody", "shift-1")

	assert.ErrorIs(t, err, model.ErrVolunteerNotFound)
}

func TestApproveSignup_ConfirmsPending(t *testing.T) {
	store := fixtureStore()
	store.addShift(db.Shift{
		ID: "shift-1", ShiftTypeID: "kitchen", Location: "Main kitchen",
		Start: tomorrowAt(18), End: tomorrowAt(21), Capacity: 4,
	})
	store.addSignup(db.Signup{
		ID: "pending", VolunteerID: "vera", ShiftID: "shift-1",
		Status: model.StatusPending, CreatedAt: time.Now(),
	})
	sink := &mockNotifier{}

	approved, err := ApproveSignup(context.Background(), store, sink, testConfig(), zap.NewNop(), "pending")
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, approved.Status)
	assert.Equal(t, []model.NotificationKind{model.NotifySignupConfirmed}, sink.kinds())
}

func TestApproveSignup_FullShiftWaitlists(t *testing.T) {
	store := fixtureStore()
	store.addShift(db.Shift{
		ID: "shift-1", ShiftTypeID: "kitchen",
		Start: tomorrowAt(18), End: tomorrowAt(21), Capacity: 1,
	})
	store.addSignup(db.Signup{
		ID: "taken", VolunteerID: "alice", ShiftID: "shift-1",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})
	store.addSignup(db.Signup{
		ID: "pending", VolunteerID: "vera", ShiftID: "shift-1",
		Status: model.StatusPending, CreatedAt: time.Now(),
	})

	approved, err := ApproveSignup(context.Background(), store, nil, testConfig(), zap.NewNop(), "pending")
	require.NoError(t, err)

	assert.Equal(t, model.StatusWaitlisted, approved.Status)
}

func TestApproveSignup_DailyConstraint(t *testing.T) {
	store := fixtureStore()
	store.addShift(db.Shift{
		ID: "lunch", ShiftTypeID: "kitchen",
		Start: tomorrowAt(11), End: tomorrowAt(14), Capacity: 4,
	})
	store.addShift(db.Shift{
		ID: "dinner", ShiftTypeID: "kitchen",
		Start: tomorrowAt(18), End: tomorrowAt(21), Capacity: 4,
	})
	store.addSignup(db.Signup{
		ID: "confirmed-lunch", VolunteerID: "vera", ShiftID: "lunch",
		Status: model.StatusConfirmed, CreatedAt: time.Now(),
	})
	store.addSignup(db.Signup{
		ID: "pending-dinner", VolunteerID: "vera", ShiftID: "dinner",
		Status: model.StatusPending, CreatedAt: time.Now(),
	})

	_, err := ApproveSignup(context.Background(), store, nil, testConfig(), zap.NewNop(), "pending-dinner")

	assert.ErrorIs(t, err, model.ErrDuplicateDailySignup)
	assert.Equal(t, model.StatusPending, store.signups["pending-dinner"].Status)
}
