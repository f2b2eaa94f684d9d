package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

type ruleDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Enabled     bool    `json:"enabled"`
	Priority    int     `json:"priority"`
	ShiftTypeID *string `json:"shift_type_id,omitempty"`

	MinVolunteerGrade          *string `json:"min_volunteer_grade,omitempty"`
	MinCompletedShifts         *int    `json:"min_completed_shifts,omitempty"`
	MinAttendanceRate          *int    `json:"min_attendance_rate,omitempty"`
	MinAccountAgeDays          *int    `json:"min_account_age_days,omitempty"`
	MaxDaysInAdvance           *int    `json:"max_days_in_advance,omitempty"`
	RequireShiftTypeExperience bool    `json:"require_shift_type_experience"`

	CriteriaLogic string `json:"criteria_logic"`
	StopOnMatch   bool   `json:"stop_on_match"`
}

func toRuleDTO(rule *db.AutoAcceptRule) ruleDTO {
	dto := ruleDTO{
		ID:                         rule.ID,
		Name:                       rule.Name,
		Enabled:                    rule.Enabled,
		Priority:                   rule.Priority,
		ShiftTypeID:                rule.ShiftTypeID,
		MinCompletedShifts:         rule.MinCompletedShifts,
		MinAttendanceRate:          rule.MinAttendanceRate,
		MinAccountAgeDays:          rule.MinAccountAgeDays,
		MaxDaysInAdvance:           rule.MaxDaysInAdvance,
		RequireShiftTypeExperience: rule.RequireShiftTypeExperience,
		CriteriaLogic:              string(rule.CriteriaLogic),
		StopOnMatch:                rule.StopOnMatch,
	}
	if rule.MinVolunteerGrade != nil {
		grade := string(*rule.MinVolunteerGrade)
		dto.MinVolunteerGrade = &grade
	}
	return dto
}

func (h *Handlers) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.ListRules(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]ruleDTO, 0, len(rules))
	for i := range rules {
		out = append(out, toRuleDTO(&rules[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	logic := model.CriteriaLogic(req.CriteriaLogic)
	if logic == "" {
		logic = model.LogicAnd
	}
	if !logic.IsValid() {
		writeError(w, http.StatusBadRequest, "bad_request", "criteria_logic must be AND or OR")
		return
	}

	rule := db.AutoAcceptRule{
		ID:                         uuid.New().String(),
		Name:                       req.Name,
		Enabled:                    req.Enabled,
		Priority:                   req.Priority,
		ShiftTypeID:                req.ShiftTypeID,
		MinCompletedShifts:         req.MinCompletedShifts,
		MinAttendanceRate:          req.MinAttendanceRate,
		MinAccountAgeDays:          req.MinAccountAgeDays,
		MaxDaysInAdvance:           req.MaxDaysInAdvance,
		RequireShiftTypeExperience: req.RequireShiftTypeExperience,
		CriteriaLogic:              logic,
		StopOnMatch:                req.StopOnMatch,
		CreatedAt:                  time.Now(),
	}
	if req.MinVolunteerGrade != nil {
		grade := model.Grade(*req.MinVolunteerGrade)
		if !grade.IsValid() {
			writeError(w, http.StatusBadRequest, "bad_request", "min_volunteer_grade must be GREEN, YELLOW or PINK")
			return
		}
		rule.MinVolunteerGrade = &grade
	}

	if err := h.store.InsertRule(r.Context(), &rule); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRuleDTO(&rule))
}

// PreviewRules runs the auto-accept engine without committing anything.
// Admin tooling uses this to answer "why was this volunteer left pending".
func (h *Handlers) PreviewRules(w http.ResponseWriter, r *http.Request) {
	volunteerID := r.URL.Query().Get("volunteer_id")
	shiftID := r.URL.Query().Get("shift_id")
	if volunteerID == "" || shiftID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "volunteer_id and shift_id are required")
		return
	}

	preview, err := services.EvaluateRules(r.Context(), h.store, h.cfg, h.logger, volunteerID, shiftID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          string(preview.Verdict.Status),
		"matched_rule_id": preview.Verdict.MatchedRuleID,
		"all_matching":    preview.AllMatching,
		"context": map[string]any{
			"grade":                 string(preview.Context.VolunteerGrade),
			"completed_shifts":      preview.Context.CompletedShifts,
			"attendance_rate":       preview.Context.AttendanceRate,
			"account_age_days":      preview.Context.AccountAgeDays,
			"days_until_shift":      preview.Context.DaysUntilShift,
			"shift_type_experience": preview.Context.HasShiftTypeExperience,
		},
	})
}
