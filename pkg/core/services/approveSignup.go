package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// ApproveSignupStore defines the database operations needed for manual approval
type ApproveSignupStore interface {
	db.TxRunner
	GetSignup(ctx context.Context, signupID string) (*db.Signup, error)
}

// ApproveSignup is the manual-admin path for signups the rule engine left
// pending. The same capacity and daily constraints as automatic admission
// apply: a full shift waitlists the signup instead of confirming it.
func ApproveSignup(
	ctx context.Context,
	database ApproveSignupStore,
	sink Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	signupID string,
) (*db.Signup, error) {
	logger.Debug("Approving signup", zap.String("signup_id", signupID))

	existing, err := database.GetSignup(ctx, signupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
	}

	now := time.Now()
	loc := cfg.Location()
	var approved *db.Signup
	var shift *db.Shift

	err = database.InShiftTx(ctx, []string{existing.ShiftID}, func(tx db.ShiftTx) error {
		signup, err := tx.GetSignup(ctx, signupID)
		if err != nil {
			return fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
		}
		if signup.Status.IsTerminal() {
			return model.ErrSignupTerminal
		}
		if signup.Status == model.StatusConfirmed {
			approved = signup
			return nil
		}

		shift, err = tx.GetShift(ctx, signup.ShiftID)
		if err != nil {
			return fmt.Errorf("failed to fetch shift %s: %w", signup.ShiftID, err)
		}

		confirmedCount, err := tx.CountConfirmed(ctx, shift.ID)
		if err != nil {
			return fmt.Errorf("failed to count confirmed signups: %w", err)
		}
		if confirmedCount >= shift.Capacity {
			signup.Status = model.StatusWaitlisted
			if err := tx.UpdateSignup(ctx, signup); err != nil {
				return fmt.Errorf("failed to waitlist signup: %w", err)
			}
			approved = signup
			return nil
		}

		ok, err := dailyConstraintSatisfied(ctx, tx, signup.VolunteerID, signup.ID, shift.Start, now, loc)
		if err != nil {
			return err
		}
		if !ok {
			return model.ErrDuplicateDailySignup
		}

		signup.Status = model.StatusConfirmed
		if err := tx.UpdateSignup(ctx, signup); err != nil {
			return fmt.Errorf("failed to confirm signup: %w", err)
		}
		approved = signup
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Signup approval processed",
		zap.String("signup_id", signupID),
		zap.String("status", string(approved.Status)))

	if shift != nil {
		publish(sink, signupOutcomeEvent(approved, shift))
	}

	return approved, nil
}
