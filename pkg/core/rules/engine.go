package rules

import (
	"sort"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
)

// Decide evaluates the rule set for one volunteer/shift context and returns
// the admission verdict. It is a pure function of its inputs: no I/O, no
// clock, no locking.
//
// Rules are filtered to enabled rules that are global or scoped to the
// shift's type, then evaluated in priority order (highest first; ties keep
// authoring order). A matching rule with StopOnMatch halts evaluation
// immediately. Without StopOnMatch the engine records the match and keeps
// evaluating lower-priority rules so that every match is reported; the
// verdict is confirmed if any rule matched, attributed to the highest
// priority match. No match means the signup stays pending for manual
// approval.
func Decide(allRules []Rule, shiftTypeID string, ctx Context) Verdict {
	applicable := selectRules(allRules, shiftTypeID)

	var matched []string
	for _, rule := range applicable {
		if !Evaluate(rule, ctx) {
			continue
		}
		matched = append(matched, rule.ID)
		if rule.StopOnMatch {
			break
		}
	}

	if len(matched) == 0 {
		return Verdict{Status: model.StatusPending}
	}
	return Verdict{Status: model.StatusConfirmed, MatchedRuleID: matched[0]}
}

// MatchingRules returns the IDs of every applicable rule that matches the
// context, in evaluation order and honoring StopOnMatch. Used by admin
// tooling to explain a verdict.
func MatchingRules(allRules []Rule, shiftTypeID string, ctx Context) []string {
	var matched []string
	for _, rule := range selectRules(allRules, shiftTypeID) {
		if !Evaluate(rule, ctx) {
			continue
		}
		matched = append(matched, rule.ID)
		if rule.StopOnMatch {
			break
		}
	}
	return matched
}

// selectRules filters to enabled rules applicable to the shift type and
// sorts them by priority descending. The sort is stable so rules with equal
// priority keep their authoring order.
func selectRules(allRules []Rule, shiftTypeID string) []Rule {
	applicable := make([]Rule, 0, len(allRules))
	for _, rule := range allRules {
		if !rule.Enabled {
			continue
		}
		if rule.ShiftTypeID != "" && rule.ShiftTypeID != shiftTypeID {
			continue
		}
		applicable = append(applicable, rule)
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Priority > applicable[j].Priority
	})

	return applicable
}
