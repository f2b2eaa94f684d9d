package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// shiftTx is the db.ShiftTx view over an open pgx transaction.
type shiftTx struct {
	tx pgx.Tx
}

// InShiftTx runs fn inside a transaction holding row locks on every shift
// in shiftIDs. Locks are acquired in sorted ID order so two concurrent
// movements touching the same pair of shifts cannot deadlock. Admission
// decisions made under a shift's lock are serialized with every other
// decision for that shift.
func (d *DB) InShiftTx(ctx context.Context, shiftIDs []string, fn func(tx db.ShiftTx) error) error {
	ids := dedupeSorted(shiftIDs)

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, shiftID := range ids {
		var locked string
		err := tx.QueryRow(ctx, `SELECT id FROM shift WHERE id = $1 FOR UPDATE`, shiftID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrShiftNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock shift %s: %w", shiftID, err)
		}
	}

	if err := fn(&shiftTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (t *shiftTx) GetShift(ctx context.Context, shiftID string) (*db.Shift, error) {
	return getShift(ctx, t.tx, shiftID)
}

func (t *shiftTx) CountConfirmed(ctx context.Context, shiftID string) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM signup WHERE shift_id = $1 AND status = $2
	`, shiftID, string(model.StatusConfirmed)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed signups: %w", err)
	}
	return count, nil
}

func (t *shiftTx) GetSignup(ctx context.Context, signupID string) (*db.Signup, error) {
	return getSignup(ctx, t.tx, signupID)
}

func (t *shiftTx) GetSignupForVolunteerAndShift(ctx context.Context, volunteerID, shiftID string) (*db.Signup, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+signupColumns+`
		FROM signup
		WHERE volunteer_id = $1 AND shift_id = $2
	`, volunteerID, shiftID)
	signup, err := scanSignupRow(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan signup: %w", err)
	}
	return signup, nil
}

func (t *shiftTx) ListConfirmedForVolunteerBetween(ctx context.Context, volunteerID string, from, to time.Time) ([]db.Signup, error) {
	return querySignups(ctx, t.tx, `
		SELECT s.id, s.volunteer_id, s.shift_id, s.status, s.queue, s.is_flexible_placement,
			s.original_shift_id, s.placed_at, s.placement_notes, s.created_at
		FROM signup s
		JOIN shift ON shift.id = s.shift_id
		WHERE s.volunteer_id = $1 AND s.status = $2
			AND shift.start_at >= $3 AND shift.start_at < $4
	`, volunteerID, string(model.StatusConfirmed), from, to)
}

func (t *shiftTx) ListWaitlisted(ctx context.Context, shiftID string) ([]db.Signup, error) {
	return querySignups(ctx, t.tx, `
		SELECT `+signupColumns+`
		FROM signup
		WHERE shift_id = $1 AND status = $2
		ORDER BY created_at
	`, shiftID, string(model.StatusWaitlisted))
}

func (t *shiftTx) InsertSignup(ctx context.Context, signup *db.Signup) error {
	return insertSignup(ctx, t.tx, signup)
}

func (t *shiftTx) UpdateSignup(ctx context.Context, signup *db.Signup) error {
	return updateSignup(ctx, t.tx, signup)
}
