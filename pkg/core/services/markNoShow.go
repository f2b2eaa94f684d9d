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

// MarkNoShowStore defines the database operations needed for no-show marking
type MarkNoShowStore interface {
	db.TxRunner
	GetSignup(ctx context.Context, signupID string) (*db.Signup, error)
}

// MarkNoShow flags a confirmed signup whose shift has ended as a no-show.
// NO_SHOW is terminal: it does not free capacity retroactively and does not
// trigger waitlist promotion.
func MarkNoShow(
	ctx context.Context,
	database MarkNoShowStore,
	sink Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	signupID string,
) error {
	logger.Debug("Marking no-show", zap.String("signup_id", signupID))

	existing, err := database.GetSignup(ctx, signupID)
	if err != nil {
		return fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
	}

	var marked *db.Signup
	var shift *db.Shift

	err = database.InShiftTx(ctx, []string{existing.ShiftID}, func(tx db.ShiftTx) error {
		signup, err := tx.GetSignup(ctx, signupID)
		if err != nil {
			return fmt.Errorf("failed to fetch signup %s: %w", signupID, err)
		}
		if signup.Status != model.StatusConfirmed {
			return model.ErrNotConfirmed
		}

		shift, err = tx.GetShift(ctx, signup.ShiftID)
		if err != nil {
			return fmt.Errorf("failed to fetch shift %s: %w", signup.ShiftID, err)
		}
		if time.Now().Before(shift.End) {
			return model.ErrShiftNotFinished
		}

		signup.Status = model.StatusNoShow
		if err := tx.UpdateSignup(ctx, signup); err != nil {
			return fmt.Errorf("failed to mark no-show: %w", err)
		}
		marked = signup
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Signup marked as no-show",
		zap.String("signup_id", signupID),
		zap.String("volunteer_id", marked.VolunteerID))

	publish(sink, model.NotificationEvent{
		UserID:         marked.VolunteerID,
		Kind:           model.NotifyNoShow,
		RelatedShiftID: marked.ShiftID,
		Message: fmt.Sprintf("You were marked as a no-show for %s on %s.",
			shift.Location, shift.Start.Format("Mon Jan 2")),
	})

	return nil
}
