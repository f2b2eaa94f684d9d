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

// CancelSignupStore defines the database operations needed to cancel a signup
type CancelSignupStore interface {
	db.TxRunner
	GetSignup(ctx context.Context, signupID string) (*db.Signup, error)
}

// CancelResult reports what a cancellation did.
type CancelResult struct {
	Canceled *db.Signup
	// Promoted is the waitlisted signup that took the freed slot, nil when
	// the waitlist was empty or every candidate failed the daily check
	Promoted *db.Signup
}

// CancelSignup transitions a signup to CANCELED. Cancelling a confirmed
// signup frees a slot and triggers waitlist promotion: the longest-waiting
// waitlisted signup that passes the daily constraint is confirmed inside the
// same shift-scoped transaction, so two cancellations cannot promote two
// volunteers into one freed slot.
//
// Actor identifies who asked (the owning volunteer or an admin); it is
// recorded in the log, authorization itself happens at the boundary.
func CancelSignup(
	ctx context.Context,
	database CancelSignupStore,
	sink Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	signupID string,
	actor string,
) (*CancelResult, error) {
	logger.Debug("Cancelling signup",
		zap.String("signup_id", signupID),
		zap.String("actor", actor))

	// Resolve the shift to lock before opening the transaction
	existing, err := database.GetSignup(ctx, signupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
	}

	now := time.Now()
	loc := cfg.Location()
	result := &CancelResult{}
	var shift *db.Shift

	err = database.InShiftTx(ctx, []string{existing.ShiftID}, func(tx db.ShiftTx) error {
		signup, err := tx.GetSignup(ctx, signupID)
		if err != nil {
			return fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
		}
		if signup.Status.IsTerminal() {
			return model.ErrSignupTerminal
		}

		shift, err = tx.GetShift(ctx, signup.ShiftID)
		if err != nil {
			return fmt.Errorf("failed to fetch shift %s: %w", signup.ShiftID, err)
		}

		wasConfirmed := signup.Status == model.StatusConfirmed
		signup.Status = model.StatusCanceled
		if err := tx.UpdateSignup(ctx, signup); err != nil {
			return fmt.Errorf("failed to cancel signup: %w", err)
		}
		result.Canceled = signup

		if !wasConfirmed {
			return nil
		}

		promoted, err := promoteFromWaitlist(ctx, tx, shift, now, loc, logger)
		if err != nil {
			return err
		}
		result.Promoted = promoted
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Signup canceled",
		zap.String("signup_id", signupID),
		zap.String("actor", actor),
		zap.Bool("promotion", result.Promoted != nil))

	publish(sink, model.NotificationEvent{
		UserID:         result.Canceled.VolunteerID,
		Kind:           model.NotifySignupCanceled,
		RelatedShiftID: result.Canceled.ShiftID,
		Message:        fmt.Sprintf("Your signup for %s on %s was canceled.", shift.Location, shift.Start.Format("Mon Jan 2")),
	})
	if result.Promoted != nil {
		publish(sink, model.NotificationEvent{
			UserID:         result.Promoted.VolunteerID,
			Kind:           model.NotifyPromoted,
			RelatedShiftID: result.Promoted.ShiftID,
			Message:        fmt.Sprintf("A spot opened up: you're confirmed for %s on %s.", shift.Location, shift.Start.Format("Mon Jan 2")),
		})
	}

	return result, nil
}

// promoteFromWaitlist confirms the longest-waiting waitlisted signup for the
// shift. Candidates that would break the one-confirmed-per-day constraint
// are skipped and stay waitlisted; if every candidate is skipped the freed
// slot simply remains open.
func promoteFromWaitlist(
	ctx context.Context,
	tx db.ShiftTx,
	shift *db.Shift,
	now time.Time,
	loc *time.Location,
	logger *zap.Logger,
) (*db.Signup, error) {
	confirmedCount, err := tx.CountConfirmed(ctx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed signups: %w", err)
	}
	if confirmedCount >= shift.Capacity {
		return nil, nil
	}

	waitlisted, err := tx.ListWaitlisted(ctx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}

	for i := range waitlisted {
		candidate := &waitlisted[i]

		ok, err := dailyConstraintSatisfied(ctx, tx, candidate.VolunteerID, candidate.ID, shift.Start, now, loc)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Debug("Skipping waitlist candidate over daily constraint",
				zap.String("signup_id", candidate.ID),
				zap.String("volunteer_id", candidate.VolunteerID))
			continue
		}

		candidate.Status = model.StatusConfirmed
		if err := tx.UpdateSignup(ctx, candidate); err != nil {
			return nil, fmt.Errorf("failed to promote signup %s: %w", candidate.ID, err)
		}
		return candidate, nil
	}

	return nil, nil
}
