package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

const defaultShiftWindow = 28 * 24 * time.Hour

// ListShifts returns shifts starting in the requested window. Without
// query parameters the window is the next four weeks.
func (h *Handlers) ListShifts(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from, to := now, now.Add(defaultShiftWindow)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "from must be RFC 3339")
			return
		}
		from = parsed
		to = from.Add(defaultShiftWindow)
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "to must be RFC 3339")
			return
		}
		to = parsed
	}

	shifts, err := h.store.ListShiftsBetween(r.Context(), from, to)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]shiftDTO, 0, len(shifts))
	for i := range shifts {
		out = append(out, toShiftDTO(&shifts[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) GetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := h.store.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(shift))
}

func (h *Handlers) ListShiftSignups(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if _, err := h.store.GetShift(r.Context(), shiftID); err != nil {
		serviceError(w, err)
		return
	}
	signups, err := h.store.ListSignupsForShift(r.Context(), shiftID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toSignupDTOs(signups)})
}

func (h *Handlers) RecordShiftOutcomes(w http.ResponseWriter, r *http.Request) {
	result, err := services.RecordShiftOutcomes(r.Context(), h.store, h.sink, h.cfg, h.logger, chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}

	promotions := make(map[string]string, len(result.GradePromotions))
	for volunteerID, grade := range result.GradePromotions {
		promotions[volunteerID] = string(grade)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"shift_id":         result.ShiftID,
		"attended":         result.Attended,
		"no_shows":         result.NoShows,
		"grade_promotions": promotions,
	})
}

func (h *Handlers) ListShiftTypes(w http.ResponseWriter, r *http.Request) {
	shiftTypes, err := h.store.ListShiftTypes(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	type dto struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Flexible bool   `json:"flexible"`
	}
	out := make([]dto, 0, len(shiftTypes))
	for _, st := range shiftTypes {
		out = append(out, dto{ID: st.ID, Name: st.Name, Flexible: st.Flexible})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}
