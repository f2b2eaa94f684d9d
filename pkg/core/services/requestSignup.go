package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/rules"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// RequestSignupStore defines the database operations needed to admit a signup
type RequestSignupStore interface {
	db.TxRunner
	GetVolunteer(ctx context.Context, volunteerID string) (*db.Volunteer, error)
	GetShift(ctx context.Context, shiftID string) (*db.Shift, error)
	GetShiftType(ctx context.Context, shiftTypeID string) (*db.ShiftType, error)
	ListRules(ctx context.Context) ([]db.AutoAcceptRule, error)
}

// RequestSignup admits a volunteer's signup request for a shift. It runs the
// auto-accept rule engine for a verdict, enforces the capacity limit and the
// one-confirmed-signup-per-day constraint, and persists the resulting
// status. The capacity check and the write happen inside one shift-scoped
// transaction so two concurrent requests cannot both take the last slot.
func RequestSignup(
	ctx context.Context,
	database RequestSignupStore,
	sink Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	volunteerID string,
	shiftID string,
) (*db.Signup, error) {
	logger.Debug("Processing signup request",
		zap.String("volunteer_id", volunteerID),
		zap.String("shift_id", shiftID))

	volunteer, err := database.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer %s: %w", volunteerID, err)
	}
	if !volunteer.Active {
		return nil, model.ErrVolunteerInactive
	}

	// Shift type lookup happens outside the lock; the type of a shift
	// never changes after creation
	shift, err := database.GetShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift %s: %w", shiftID, err)
	}
	shiftType, err := database.GetShiftType(ctx, shift.ShiftTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift type %s: %w", shift.ShiftTypeID, err)
	}

	ruleRecords, err := database.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch auto-accept rules: %w", err)
	}
	ruleSet := rulesFromRecords(ruleRecords)

	now := time.Now()
	loc := cfg.Location()
	verdict := rules.Decide(ruleSet, shift.ShiftTypeID, evaluationContext(volunteer, shift, now, loc))

	logger.Debug("Rule engine verdict",
		zap.String("status", string(verdict.Status)),
		zap.String("matched_rule_id", verdict.MatchedRuleID))

	queue := model.QueueShift
	if shiftType.Flexible {
		queue = model.QueueGeneral
	}

	signup := &db.Signup{
		ID:                  uuid.New().String(),
		VolunteerID:         volunteerID,
		ShiftID:             shiftID,
		Queue:               queue,
		IsFlexiblePlacement: shiftType.Flexible,
		CreatedAt:           now,
	}

	err = database.InShiftTx(ctx, []string{shiftID}, func(tx db.ShiftTx) error {
		lockedShift, err := tx.GetShift(ctx, shiftID)
		if err != nil {
			return fmt.Errorf("failed to fetch shift %s: %w", shiftID, err)
		}

		existing, err := tx.GetSignupForVolunteerAndShift(ctx, volunteerID, shiftID)
		if err != nil {
			return fmt.Errorf("failed to check existing signup: %w", err)
		}
		if existing != nil {
			return model.ErrAlreadySignedUp
		}

		confirmedCount, err := tx.CountConfirmed(ctx, shiftID)
		if err != nil {
			return fmt.Errorf("failed to count confirmed signups: %w", err)
		}

		switch {
		case confirmedCount >= lockedShift.Capacity:
			// Full shifts waitlist every new signup regardless of the
			// rule verdict
			signup.Status = model.StatusWaitlisted

		case verdict.Status == model.StatusConfirmed:
			ok, err := dailyConstraintSatisfied(ctx, tx, volunteerID, signup.ID, lockedShift.Start, now, loc)
			if err != nil {
				return err
			}
			if !ok {
				return model.ErrDuplicateDailySignup
			}
			signup.Status = model.StatusConfirmed

		default:
			signup.Status = model.StatusPending
		}

		if err := tx.InsertSignup(ctx, signup); err != nil {
			return fmt.Errorf("failed to insert signup: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Signup admitted",
		zap.String("signup_id", signup.ID),
		zap.String("volunteer_id", volunteerID),
		zap.String("shift_id", shiftID),
		zap.String("status", string(signup.Status)),
		zap.String("matched_rule_id", verdict.MatchedRuleID))

	publish(sink, signupOutcomeEvent(signup, shift))

	return signup, nil
}

// dailyConstraintSatisfied checks the one-confirmed-signup-per-calendar-day
// rule for the volunteer against the target shift's day. The constraint is
// waived when the shift starts today (venue local time) so that same-day
// fill operations always go through.
func dailyConstraintSatisfied(
	ctx context.Context,
	tx db.ShiftTx,
	volunteerID string,
	excludeSignupID string,
	shiftStart time.Time,
	now time.Time,
	loc *time.Location,
) (bool, error) {
	if sameCalendarDay(shiftStart, now, loc) {
		return true, nil
	}

	dayStart, dayEnd := dayBounds(shiftStart, loc)
	confirmed, err := tx.ListConfirmedForVolunteerBetween(ctx, volunteerID, dayStart, dayEnd)
	if err != nil {
		return false, fmt.Errorf("failed to check daily signups: %w", err)
	}

	for _, other := range confirmed {
		if other.ID != excludeSignupID {
			return false, nil
		}
	}
	return true, nil
}

// signupOutcomeEvent builds the notification for a freshly admitted signup.
func signupOutcomeEvent(signup *db.Signup, shift *db.Shift) model.NotificationEvent {
	event := model.NotificationEvent{
		UserID:         signup.VolunteerID,
		RelatedShiftID: signup.ShiftID,
	}

	shiftLabel := fmt.Sprintf("%s on %s", shift.Location, shift.Start.Format("Mon Jan 2"))

	switch signup.Status {
	case model.StatusConfirmed:
		event.Kind = model.NotifySignupConfirmed
		event.Message = fmt.Sprintf("You're confirmed for %s.", shiftLabel)
	case model.StatusWaitlisted:
		event.Kind = model.NotifySignupWaitlisted
		event.Message = fmt.Sprintf("The shift at %s is full; you've been added to the waitlist.", shiftLabel)
	default:
		event.Kind = model.NotifySignupPending
		event.Message = fmt.Sprintf("Your signup for %s is awaiting approval.", shiftLabel)
	}

	return event
}
