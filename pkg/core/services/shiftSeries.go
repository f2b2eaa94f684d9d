package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// ShiftSeriesStore defines the database operations needed to create shifts
type ShiftSeriesStore interface {
	GetShiftType(ctx context.Context, shiftTypeID string) (*db.ShiftType, error)
	InsertShifts(ctx context.Context, shifts []db.Shift) error
}

// seriesHorizon caps how far ahead a series is expanded when the rrule
// itself has no UNTIL or COUNT.
const seriesHorizon = 365 * 24 * time.Hour

// CreateShiftSeries expands a recurring series template into concrete shift
// records. Occurrence dates come from the template's RRULE evaluated from
// now to the horizon; each occurrence becomes one shift at the template's
// start time and duration in the venue's local timezone.
func CreateShiftSeries(
	ctx context.Context,
	database ShiftSeriesStore,
	cfg *config.Config,
	logger *zap.Logger,
	template config.SeriesTemplate,
) ([]db.Shift, error) {
	logger.Debug("Creating shift series",
		zap.String("name", template.Name),
		zap.String("rrule", template.RRule))

	shiftType, err := database.GetShiftType(ctx, template.ShiftTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift type %s: %w", template.ShiftTypeID, err)
	}

	rule, err := rrule.StrToRRule(template.RRule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule for series %s: %w", template.Name, err)
	}

	startOfDay, err := time.Parse("15:04", template.StartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time for series %s: %w", template.Name, err)
	}

	loc := cfg.Location()
	now := time.Now().In(loc)
	rule.DTStart(now)

	occurrences := rule.Between(now, now.Add(seriesHorizon), true)
	if len(occurrences) == 0 {
		return nil, fmt.Errorf("series %s yields no occurrences within the next year", template.Name)
	}

	shifts := make([]db.Shift, 0, len(occurrences))
	for _, occurrence := range occurrences {
		day := occurrence.In(loc)
		start := time.Date(day.Year(), day.Month(), day.Day(),
			startOfDay.Hour(), startOfDay.Minute(), 0, 0, loc)

		shifts = append(shifts, db.Shift{
			ID:          uuid.New().String(),
			ShiftTypeID: shiftType.ID,
			Location:    template.Location,
			Start:       start,
			End:         start.Add(time.Duration(template.DurationMinutes) * time.Minute),
			Capacity:    template.Capacity,
			Notes:       template.Notes,
			CreatedAt:   time.Now(),
		})
	}

	if err := database.InsertShifts(ctx, shifts); err != nil {
		return nil, fmt.Errorf("failed to insert shifts for series %s: %w", template.Name, err)
	}

	logger.Info("Shift series created",
		zap.String("name", template.Name),
		zap.Int("shift_count", len(shifts)),
		zap.String("first", shifts[0].Start.Format("2006-01-02 15:04")),
		zap.String("last", shifts[len(shifts)-1].Start.Format("2006-01-02 15:04")))

	return shifts, nil
}
