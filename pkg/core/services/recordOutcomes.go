package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// RecordOutcomesStore defines the database operations needed to close out a shift
type RecordOutcomesStore interface {
	GetShift(ctx context.Context, shiftID string) (*db.Shift, error)
	ListSignupsForShift(ctx context.Context, shiftID string) ([]db.Signup, error)
	ListSignupsForVolunteer(ctx context.Context, volunteerID string) ([]db.Signup, error)
	GetVolunteer(ctx context.Context, volunteerID string) (*db.Volunteer, error)
	UpdateVolunteerRecord(ctx context.Context, volunteer *db.Volunteer) error
}

// OutcomeResult reports what closing out a shift changed.
type OutcomeResult struct {
	ShiftID         string
	Attended        int
	NoShows         int
	GradePromotions map[string]model.Grade // volunteer ID -> new grade
}

// RecordShiftOutcomes closes out an ended shift: every still-confirmed
// signup counts as attended, completed-shift counts and attendance rates
// are updated, shift-type experience is recorded, and volunteers crossing a
// promotion threshold move up a grade. No-shows must already be marked
// (MarkNoShow) before calling this.
func RecordShiftOutcomes(
	ctx context.Context,
	database RecordOutcomesStore,
	sink Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	shiftID string,
) (*OutcomeResult, error) {
	shift, err := database.GetShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift %s: %w", shiftID, err)
	}
	if time.Now().Before(shift.End) {
		return nil, model.ErrShiftNotFinished
	}

	signups, err := database.ListSignupsForShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups for shift %s: %w", shiftID, err)
	}

	result := &OutcomeResult{
		ShiftID:         shiftID,
		GradePromotions: make(map[string]model.Grade),
	}

	for i := range signups {
		signup := &signups[i]
		switch signup.Status {
		case model.StatusNoShow:
			result.NoShows++
			continue
		case model.StatusConfirmed:
			// attended
		default:
			continue
		}
		result.Attended++

		volunteer, err := database.GetVolunteer(ctx, signup.VolunteerID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch volunteer %s: %w", signup.VolunteerID, err)
		}

		volunteer.CompletedShifts++
		volunteer.AttendanceRate, err = attendanceRate(ctx, database, volunteer)
		if err != nil {
			return nil, err
		}
		if !volunteer.HasExperience(shift.ShiftTypeID) {
			volunteer.ExperienceShiftTypeIDs = append(volunteer.ExperienceShiftTypeIDs, shift.ShiftTypeID)
		}

		promoted := model.GradeForCompletedShifts(volunteer.CompletedShifts, volunteer.Grade)
		gradeChanged := promoted != volunteer.Grade
		volunteer.Grade = promoted

		if err := database.UpdateVolunteerRecord(ctx, volunteer); err != nil {
			return nil, fmt.Errorf("failed to update volunteer %s: %w", volunteer.ID, err)
		}

		if gradeChanged {
			result.GradePromotions[volunteer.ID] = promoted
			logger.Info("Volunteer grade promoted",
				zap.String("volunteer_id", volunteer.ID),
				zap.String("grade", string(promoted)),
				zap.Int("completed_shifts", volunteer.CompletedShifts))
			publish(sink, model.NotificationEvent{
				UserID: volunteer.ID,
				Kind:   model.NotifyGradePromoted,
				Message: fmt.Sprintf("Congratulations, you've reached %s grade after %d completed shifts.",
					promoted, volunteer.CompletedShifts),
			})
		}
	}

	logger.Info("Shift outcomes recorded",
		zap.String("shift_id", shiftID),
		zap.Int("attended", result.Attended),
		zap.Int("no_shows", result.NoShows),
		zap.Int("promotions", len(result.GradePromotions)))

	return result, nil
}

// attendanceRate recomputes the volunteer's attendance percentage from
// their full signup history: completed shifts over completed plus no-shows.
// A volunteer with no history counts as 100.
func attendanceRate(ctx context.Context, database RecordOutcomesStore, volunteer *db.Volunteer) (int, error) {
	history, err := database.ListSignupsForVolunteer(ctx, volunteer.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list signups for volunteer %s: %w", volunteer.ID, err)
	}

	noShows := 0
	for _, signup := range history {
		if signup.Status == model.StatusNoShow {
			noShows++
		}
	}

	total := volunteer.CompletedShifts + noShows
	if total == 0 {
		return 100, nil
	}
	return int(math.Round(100 * float64(volunteer.CompletedShifts) / float64(total))), nil
}
