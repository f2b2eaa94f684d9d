package rules

import "github.com/communitykitchenhq/shiftdesk/pkg/core/model"

// predicate is one configured threshold check, built from a rule at
// evaluation time. Keeping predicates as a tagged list (rather than a
// hardcoded if/else chain) means new threshold types only need a new
// builder entry, not changes to the combinator logic.
type predicate struct {
	name  string
	holds func(ctx Context) bool
}

// buildPredicates collects one predicate per non-nil threshold on the rule.
// Unset thresholds are omitted entirely.
func buildPredicates(rule Rule) []predicate {
	var preds []predicate

	if rule.MinVolunteerGrade != nil {
		minimum := *rule.MinVolunteerGrade
		preds = append(preds, predicate{
			name: "minVolunteerGrade",
			holds: func(ctx Context) bool {
				return ctx.VolunteerGrade.AtLeast(minimum)
			},
		})
	}

	if rule.MinCompletedShifts != nil {
		minimum := *rule.MinCompletedShifts
		preds = append(preds, predicate{
			name: "minCompletedShifts",
			holds: func(ctx Context) bool {
				return ctx.CompletedShifts >= minimum
			},
		})
	}

	if rule.MinAttendanceRate != nil {
		minimum := *rule.MinAttendanceRate
		preds = append(preds, predicate{
			name: "minAttendanceRate",
			holds: func(ctx Context) bool {
				return ctx.AttendanceRate >= minimum
			},
		})
	}

	if rule.MinAccountAgeDays != nil {
		minimum := *rule.MinAccountAgeDays
		preds = append(preds, predicate{
			name: "minAccountAgeDays",
			holds: func(ctx Context) bool {
				return ctx.AccountAgeDays >= minimum
			},
		})
	}

	if rule.MaxDaysInAdvance != nil {
		maximum := *rule.MaxDaysInAdvance
		preds = append(preds, predicate{
			name: "maxDaysInAdvance",
			holds: func(ctx Context) bool {
				return ctx.DaysUntilShift <= maximum
			},
		})
	}

	if rule.RequireShiftTypeExperience {
		preds = append(preds, predicate{
			name: "requireShiftTypeExperience",
			holds: func(ctx Context) bool {
				return ctx.HasShiftTypeExperience
			},
		})
	}

	return preds
}

// Evaluate runs one rule's predicates against the context and reduces them
// with the rule's combinator.
//
// An empty predicate set is vacuously true under AND and false under OR:
// an unconstrained global AND rule is taken to mean "match everyone", while
// an OR rule with nothing to satisfy has satisfied nothing.
func Evaluate(rule Rule, ctx Context) bool {
	preds := buildPredicates(rule)

	if rule.CriteriaLogic == model.LogicOr {
		for _, p := range preds {
			if p.holds(ctx) {
				return true
			}
		}
		return false
	}

	// AND is the default combinator
	for _, p := range preds {
		if !p.holds(ctx) {
			return false
		}
	}
	return true
}
