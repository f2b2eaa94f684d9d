package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/rules"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// EvaluateRulesStore defines the database operations needed for a rule preview
type EvaluateRulesStore interface {
	GetVolunteer(ctx context.Context, volunteerID string) (*db.Volunteer, error)
	GetShift(ctx context.Context, shiftID string) (*db.Shift, error)
	ListRules(ctx context.Context) ([]db.AutoAcceptRule, error)
}

// RulePreview is the read-only result of evaluating the rule set for a
// volunteer/shift pair without committing anything.
type RulePreview struct {
	Verdict     rules.Verdict
	AllMatching []string // every matching rule ID, in evaluation order
	Context     rules.Context
}

// EvaluateRules runs the auto-accept engine as a preview for admin tooling.
// Nothing is written; the verdict reflects the rule set and volunteer facts
// at the moment of the call.
func EvaluateRules(
	ctx context.Context,
	database EvaluateRulesStore,
	cfg *config.Config,
	logger *zap.Logger,
	volunteerID string,
	shiftID string,
) (*RulePreview, error) {
	volunteer, err := database.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer %s: %w", volunteerID, err)
	}
	shift, err := database.GetShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift %s: %w", shiftID, err)
	}
	ruleRecords, err := database.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch auto-accept rules: %w", err)
	}

	ruleSet := rulesFromRecords(ruleRecords)
	evalCtx := evaluationContext(volunteer, shift, time.Now(), cfg.Location())

	preview := &RulePreview{
		Verdict:     rules.Decide(ruleSet, shift.ShiftTypeID, evalCtx),
		AllMatching: rules.MatchingRules(ruleSet, shift.ShiftTypeID, evalCtx),
		Context:     evalCtx,
	}

	logger.Debug("Rule preview",
		zap.String("volunteer_id", volunteerID),
		zap.String("shift_id", shiftID),
		zap.String("status", string(preview.Verdict.Status)),
		zap.Strings("matching", preview.AllMatching))

	return preview, nil
}
