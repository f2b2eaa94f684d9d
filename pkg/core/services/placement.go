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

// PlacementStore defines the database operations needed by placement and movement
type PlacementStore interface {
	db.TxRunner
	GetSignup(ctx context.Context, signupID string) (*db.Signup, error)
}

// PlaceFlexible resolves a flexible "anywhere needed" signup onto a concrete
// target shift. A signup can be placed once: re-placement is rejected with
// ErrAlreadyPlaced and leaves state unchanged. The signup keeps its
// CONFIRMED status; the previous (flexible) shift is recorded as the
// signup's origin.
func PlaceFlexible(
	ctx context.Context,
	database PlacementStore,
	sink Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	signupID string,
	targetShiftID string,
	notes string,
) (*db.Signup, error) {
	logger.Debug("Placing flexible signup",
		zap.String("signup_id", signupID),
		zap.String("target_shift_id", targetShiftID))

	existing, err := database.GetSignup(ctx, signupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
	}
	if !existing.IsFlexiblePlacement {
		return nil, model.ErrNotFlexible
	}

	now := time.Now()
	var placed *db.Signup
	var target *db.Shift

	err = database.InShiftTx(ctx, []string{existing.ShiftID, targetShiftID}, func(tx db.ShiftTx) error {
		signup, err := tx.GetSignup(ctx, signupID)
		if err != nil {
			return fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
		}
		if signup.PlacedAt != nil {
			return model.ErrAlreadyPlaced
		}
		if signup.Status.IsTerminal() {
			return model.ErrSignupTerminal
		}

		target, err = tx.GetShift(ctx, targetShiftID)
		if err != nil {
			return fmt.Errorf("failed to fetch target shift %s: %w", targetShiftID, err)
		}

		confirmedCount, err := tx.CountConfirmed(ctx, targetShiftID)
		if err != nil {
			return fmt.Errorf("failed to count confirmed signups: %w", err)
		}
		if confirmedCount >= target.Capacity {
			return model.ErrTargetFull
		}

		relocate(signup, targetShiftID, notes, now)
		if err := tx.UpdateSignup(ctx, signup); err != nil {
			return fmt.Errorf("failed to place signup: %w", err)
		}
		placed = signup
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Flexible signup placed",
		zap.String("signup_id", signupID),
		zap.String("origin_shift_id", existing.ShiftID),
		zap.String("target_shift_id", targetShiftID))

	publish(sink, model.NotificationEvent{
		UserID:         placed.VolunteerID,
		Kind:           model.NotifyPlaced,
		RelatedShiftID: targetShiftID,
		Message: fmt.Sprintf("You've been placed: %s on %s at %s.",
			target.Location, target.Start.Format("Mon Jan 2"), target.Start.In(cfg.Location()).Format("15:04")),
	})

	return placed, nil
}

// MoveVolunteer relocates a confirmed signup from its current shift to
// another. Preconditions are checked in order, first failure wins: the move
// must change shifts, the target must have capacity, and the move must not
// leave the volunteer confirmed twice on the target's calendar day (the
// vacated shift itself does not count, since it is the one being replaced).
// The first movement establishes lineage; later moves keep the original
// origin shift.
func MoveVolunteer(
	ctx context.Context,
	database PlacementStore,
	sink Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	signupID string,
	targetShiftID string,
	notes string,
) (*db.Signup, error) {
	logger.Debug("Moving volunteer",
		zap.String("signup_id", signupID),
		zap.String("target_shift_id", targetShiftID))

	existing, err := database.GetSignup(ctx, signupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
	}
	if existing.ShiftID == targetShiftID {
		return nil, model.ErrNoOpMove
	}

	loc := cfg.Location()
	var moved *db.Signup
	var origin, target *db.Shift

	err = database.InShiftTx(ctx, []string{existing.ShiftID, targetShiftID}, func(tx db.ShiftTx) error {
		signup, err := tx.GetSignup(ctx, signupID)
		if err != nil {
			return fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
		}
		if signup.Status.IsTerminal() {
			return model.ErrSignupTerminal
		}
		if signup.Status != model.StatusConfirmed {
			return model.ErrNotConfirmed
		}
		if signup.ShiftID == targetShiftID {
			return model.ErrNoOpMove
		}

		origin, err = tx.GetShift(ctx, signup.ShiftID)
		if err != nil {
			return fmt.Errorf("failed to fetch origin shift %s: %w", signup.ShiftID, err)
		}
		target, err = tx.GetShift(ctx, targetShiftID)
		if err != nil {
			return fmt.Errorf("failed to fetch target shift %s: %w", targetShiftID, err)
		}

		confirmedCount, err := tx.CountConfirmed(ctx, targetShiftID)
		if err != nil {
			return fmt.Errorf("failed to count confirmed signups: %w", err)
		}
		if confirmedCount >= target.Capacity {
			return model.ErrTargetFull
		}

		// The moving signup vacates its shift, so it is excluded; any
		// other confirmed signup on the target day blocks the move
		dayStart, dayEnd := dayBounds(target.Start, loc)
		confirmed, err := tx.ListConfirmedForVolunteerBetween(ctx, signup.VolunteerID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to check daily signups: %w", err)
		}
		for _, other := range confirmed {
			if other.ID != signup.ID {
				return model.ErrDoubleBooking
			}
		}

		relocate(signup, targetShiftID, notes, time.Now())
		if err := tx.UpdateSignup(ctx, signup); err != nil {
			return fmt.Errorf("failed to move signup: %w", err)
		}
		moved = signup
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Volunteer moved",
		zap.String("signup_id", signupID),
		zap.String("from_shift_id", existing.ShiftID),
		zap.String("to_shift_id", targetShiftID))

	publish(sink, model.NotificationEvent{
		UserID:         moved.VolunteerID,
		Kind:           model.NotifyMoved,
		RelatedShiftID: targetShiftID,
		Message: fmt.Sprintf("Your shift has moved: %s on %s is now %s on %s.",
			origin.Location, origin.Start.Format("Mon Jan 2"),
			target.Location, target.Start.Format("Mon Jan 2")),
	})

	return moved, nil
}

// relocate applies the shared field mutations of placement and movement.
// OriginalShiftID is only set when still unset: the first relocation
// establishes lineage and later moves never overwrite it.
func relocate(signup *db.Signup, targetShiftID, notes string, now time.Time) {
	if signup.OriginalShiftID == nil {
		origin := signup.ShiftID
		signup.OriginalShiftID = &origin
	}
	signup.ShiftID = targetShiftID
	signup.PlacedAt = &now
	signup.PlacementNotes = notes
}
