package postgres

import (
	"context"
	"fmt"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// ListRules retrieves all auto-accept rules, highest priority first
func (d *DB) ListRules(ctx context.Context) ([]db.AutoAcceptRule, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, enabled, priority, shift_type_id,
			min_volunteer_grade, min_completed_shifts, min_attendance_rate,
			min_account_age_days, max_days_in_advance, require_shift_type_experience,
			criteria_logic, stop_on_match, created_at
		FROM auto_accept_rule
		ORDER BY priority DESC, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query auto-accept rules: %w", err)
	}
	defer rows.Close()

	var rules []db.AutoAcceptRule
	for rows.Next() {
		var rule db.AutoAcceptRule
		var grade *string
		var logic string
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Enabled, &rule.Priority, &rule.ShiftTypeID,
			&grade, &rule.MinCompletedShifts, &rule.MinAttendanceRate,
			&rule.MinAccountAgeDays, &rule.MaxDaysInAdvance, &rule.RequireShiftTypeExperience,
			&logic, &rule.StopOnMatch, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan auto-accept rule: %w", err)
		}
		if grade != nil {
			g := model.Grade(*grade)
			rule.MinVolunteerGrade = &g
		}
		rule.CriteriaLogic = model.CriteriaLogic(logic)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating auto-accept rules: %w", err)
	}

	return rules, nil
}

// InsertRule inserts an auto-accept rule record
func (d *DB) InsertRule(ctx context.Context, rule *db.AutoAcceptRule) error {
	var grade *string
	if rule.MinVolunteerGrade != nil {
		g := string(*rule.MinVolunteerGrade)
		grade = &g
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO auto_accept_rule (id, name, enabled, priority, shift_type_id,
			min_volunteer_grade, min_completed_shifts, min_attendance_rate,
			min_account_age_days, max_days_in_advance, require_shift_type_experience,
			criteria_logic, stop_on_match, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, rule.ID, rule.Name, rule.Enabled, rule.Priority, rule.ShiftTypeID,
		grade, rule.MinCompletedShifts, rule.MinAttendanceRate,
		rule.MinAccountAgeDays, rule.MaxDaysInAdvance, rule.RequireShiftTypeExperience,
		string(rule.CriteriaLogic), rule.StopOnMatch, rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert auto-accept rule: %w", err)
	}

	return nil
}
