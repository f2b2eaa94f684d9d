package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

const volunteerColumns = `id, first_name, last_name, email, grade, completed_shifts,
	attendance_rate, joined_at, active, notify_by_email`

// GetVolunteer retrieves a volunteer profile with their shift type experience
func (d *DB) GetVolunteer(ctx context.Context, volunteerID string) (*db.Volunteer, error) {
	var volunteer db.Volunteer
	var grade string
	err := d.pool.QueryRow(ctx, `
		SELECT `+volunteerColumns+` FROM volunteer WHERE id = $1
	`, volunteerID).Scan(&volunteer.ID, &volunteer.FirstName, &volunteer.LastName,
		&volunteer.Email, &grade, &volunteer.CompletedShifts, &volunteer.AttendanceRate,
		&volunteer.JoinedAt, &volunteer.Active, &volunteer.NotifyByEmail)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrVolunteerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan volunteer: %w", err)
	}
	volunteer.Grade = model.Grade(grade)

	experience, err := d.volunteerExperience(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	volunteer.ExperienceShiftTypeIDs = experience

	return &volunteer, nil
}

func (d *DB) volunteerExperience(ctx context.Context, volunteerID string) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT shift_type_id FROM volunteer_experience WHERE volunteer_id = $1
	`, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteer experience: %w", err)
	}
	defer rows.Close()

	var shiftTypeIDs []string
	for rows.Next() {
		var shiftTypeID string
		if err := rows.Scan(&shiftTypeID); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		shiftTypeIDs = append(shiftTypeIDs, shiftTypeID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating experience: %w", err)
	}

	return shiftTypeIDs, nil
}

// ListActiveVolunteers retrieves all active volunteer profiles
func (d *DB) ListActiveVolunteers(ctx context.Context) ([]db.Volunteer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+volunteerColumns+`
		FROM volunteer
		WHERE active
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []db.Volunteer
	for rows.Next() {
		var volunteer db.Volunteer
		var grade string
		if err := rows.Scan(&volunteer.ID, &volunteer.FirstName, &volunteer.LastName,
			&volunteer.Email, &grade, &volunteer.CompletedShifts, &volunteer.AttendanceRate,
			&volunteer.JoinedAt, &volunteer.Active, &volunteer.NotifyByEmail); err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		volunteer.Grade = model.Grade(grade)
		volunteers = append(volunteers, volunteer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}

	return volunteers, nil
}

// UpdateVolunteerRecord persists grade, completed-shift count, attendance
// rate and experience changes after shift outcomes are recorded.
func (d *DB) UpdateVolunteerRecord(ctx context.Context, volunteer *db.Volunteer) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE volunteer
		SET grade = $2, completed_shifts = $3, attendance_rate = $4
		WHERE id = $1
	`, volunteer.ID, string(volunteer.Grade), volunteer.CompletedShifts, volunteer.AttendanceRate)
	if err != nil {
		return fmt.Errorf("failed to update volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVolunteerNotFound
	}

	for _, shiftTypeID := range volunteer.ExperienceShiftTypeIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO volunteer_experience (volunteer_id, shift_type_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, volunteer.ID, shiftTypeID)
		if err != nil {
			return fmt.Errorf("failed to record experience: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetVolunteerActive activates or deactivates a volunteer profile
func (d *DB) SetVolunteerActive(ctx context.Context, volunteerID string, active bool) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE volunteer SET active = $2 WHERE id = $1
	`, volunteerID, active)
	if err != nil {
		return fmt.Errorf("failed to update volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVolunteerNotFound
	}
	return nil
}
