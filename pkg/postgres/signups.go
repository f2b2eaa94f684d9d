package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

const signupColumns = `id, volunteer_id, shift_id, status, queue, is_flexible_placement,
	original_shift_id, placed_at, placement_notes, created_at`

func scanSignupRow(scan func(dest ...any) error) (*db.Signup, error) {
	var signup db.Signup
	var status, queue string
	err := scan(&signup.ID, &signup.VolunteerID, &signup.ShiftID, &status, &queue,
		&signup.IsFlexiblePlacement, &signup.OriginalShiftID, &signup.PlacedAt,
		&signup.PlacementNotes, &signup.CreatedAt)
	if err != nil {
		return nil, err
	}
	signup.Status = model.SignupStatus(status)
	signup.Queue = model.QueueKind(queue)
	return &signup, nil
}

func getSignup(ctx context.Context, q querier, signupID string) (*db.Signup, error) {
	row := q.QueryRow(ctx, `SELECT `+signupColumns+` FROM signup WHERE id = $1`, signupID)
	signup, err := scanSignupRow(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrSignupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan signup: %w", err)
	}
	return signup, nil
}

func querySignups(ctx context.Context, q querier, sql string, args ...any) ([]db.Signup, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	defer rows.Close()

	var signups []db.Signup
	for rows.Next() {
		signup, err := scanSignupRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}
		signups = append(signups, *signup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signups: %w", err)
	}

	return signups, nil
}

func insertSignup(ctx context.Context, q querier, signup *db.Signup) error {
	_, err := q.Exec(ctx, `
		INSERT INTO signup (`+signupColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, signup.ID, signup.VolunteerID, signup.ShiftID, string(signup.Status), string(signup.Queue),
		signup.IsFlexiblePlacement, signup.OriginalShiftID, signup.PlacedAt,
		signup.PlacementNotes, signup.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert signup: %w", err)
	}
	return nil
}

func updateSignup(ctx context.Context, q querier, signup *db.Signup) error {
	tag, err := q.Exec(ctx, `
		UPDATE signup
		SET shift_id = $2, status = $3, queue = $4, is_flexible_placement = $5,
			original_shift_id = $6, placed_at = $7, placement_notes = $8
		WHERE id = $1
	`, signup.ID, signup.ShiftID, string(signup.Status), string(signup.Queue),
		signup.IsFlexiblePlacement, signup.OriginalShiftID, signup.PlacedAt,
		signup.PlacementNotes)
	if err != nil {
		return fmt.Errorf("failed to update signup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSignupNotFound
	}
	return nil
}

// GetSignup retrieves a single signup by ID
func (d *DB) GetSignup(ctx context.Context, signupID string) (*db.Signup, error) {
	return getSignup(ctx, d.pool, signupID)
}

// ListSignupsForShift retrieves all signups for a shift, oldest first
func (d *DB) ListSignupsForShift(ctx context.Context, shiftID string) ([]db.Signup, error) {
	return querySignups(ctx, d.pool, `
		SELECT `+signupColumns+`
		FROM signup
		WHERE shift_id = $1
		ORDER BY created_at
	`, shiftID)
}

// ListSignupsForVolunteer retrieves all signups for a volunteer, oldest first
func (d *DB) ListSignupsForVolunteer(ctx context.Context, volunteerID string) ([]db.Signup, error) {
	return querySignups(ctx, d.pool, `
		SELECT `+signupColumns+`
		FROM signup
		WHERE volunteer_id = $1
		ORDER BY created_at
	`, volunteerID)
}
