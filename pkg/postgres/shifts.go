package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

const shiftColumns = `id, shift_type_id, location, start_at, end_at, capacity, notes, created_at`

func scanShift(row pgx.Row) (*db.Shift, error) {
	var shift db.Shift
	err := row.Scan(&shift.ID, &shift.ShiftTypeID, &shift.Location, &shift.Start,
		&shift.End, &shift.Capacity, &shift.Notes, &shift.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift: %w", err)
	}
	return &shift, nil
}

func getShift(ctx context.Context, q querier, shiftID string) (*db.Shift, error) {
	row := q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shift WHERE id = $1`, shiftID)
	return scanShift(row)
}

// GetShift retrieves a single shift by ID
func (d *DB) GetShift(ctx context.Context, shiftID string) (*db.Shift, error) {
	return getShift(ctx, d.pool, shiftID)
}

// ListShiftsBetween retrieves shifts starting in [from, to), ordered by start time
func (d *DB) ListShiftsBetween(ctx context.Context, from, to time.Time) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE start_at >= $1 AND start_at < $2
		ORDER BY start_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.Shift
	for rows.Next() {
		var shift db.Shift
		if err := rows.Scan(&shift.ID, &shift.ShiftTypeID, &shift.Location, &shift.Start,
			&shift.End, &shift.Capacity, &shift.Notes, &shift.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// InsertShifts inserts shift records into the database
func (d *DB) InsertShifts(ctx context.Context, shifts []db.Shift) error {
	if len(shifts) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, shift := range shifts {
		_, err := tx.Exec(ctx, `
			INSERT INTO shift (id, shift_type_id, location, start_at, end_at, capacity, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, shift.ID, shift.ShiftTypeID, shift.Location, shift.Start, shift.End,
			shift.Capacity, shift.Notes, shift.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert shift: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetShiftType retrieves a single shift type by ID
func (d *DB) GetShiftType(ctx context.Context, shiftTypeID string) (*db.ShiftType, error) {
	var shiftType db.ShiftType
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, flexible FROM shift_type WHERE id = $1
	`, shiftTypeID).Scan(&shiftType.ID, &shiftType.Name, &shiftType.Flexible)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift type: %w", err)
	}
	return &shiftType, nil
}

// ListShiftTypes retrieves all shift types
func (d *DB) ListShiftTypes(ctx context.Context) ([]db.ShiftType, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name, flexible FROM shift_type ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift types: %w", err)
	}
	defer rows.Close()

	var shiftTypes []db.ShiftType
	for rows.Next() {
		var shiftType db.ShiftType
		if err := rows.Scan(&shiftType.ID, &shiftType.Name, &shiftType.Flexible); err != nil {
			return nil, fmt.Errorf("failed to scan shift type: %w", err)
		}
		shiftTypes = append(shiftTypes, shiftType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift types: %w", err)
	}

	return shiftTypes, nil
}
