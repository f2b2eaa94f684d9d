package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

func (h *Handlers) RequestSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VolunteerID string `json:"volunteer_id"`
		ShiftID     string `json:"shift_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if req.VolunteerID == "" || req.ShiftID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "volunteer_id and shift_id are required")
		return
	}

	signup, err := services.RequestSignup(r.Context(), h.store, h.sink, h.cfg, h.logger, req.VolunteerID, req.ShiftID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSignupDTO(signup))
}

func (h *Handlers) GetSignup(w http.ResponseWriter, r *http.Request) {
	signup, err := h.store.GetSignup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSignupDTO(signup))
}

func (h *Handlers) CancelSignup(w http.ResponseWriter, r *http.Request) {
	result, err := services.CancelSignup(r.Context(), h.store, h.sink, h.cfg, h.logger, chi.URLParam(r, "id"), "api")
	if err != nil {
		serviceError(w, err)
		return
	}

	body := map[string]any{"canceled": toSignupDTO(result.Canceled)}
	if result.Promoted != nil {
		body["promoted"] = toSignupDTO(result.Promoted)
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handlers) ApproveSignup(w http.ResponseWriter, r *http.Request) {
	signup, err := services.ApproveSignup(r.Context(), h.store, h.sink, h.cfg, h.logger, chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSignupDTO(signup))
}

type relocateRequest struct {
	TargetShiftID string `json:"target_shift_id"`
	Notes         string `json:"notes"`
}

func (h *Handlers) PlaceFlexible(w http.ResponseWriter, r *http.Request) {
	var req relocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if req.TargetShiftID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "target_shift_id is required")
		return
	}

	signup, err := services.PlaceFlexible(r.Context(), h.store, h.sink, h.cfg, h.logger,
		chi.URLParam(r, "id"), req.TargetShiftID, req.Notes)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSignupDTO(signup))
}

func (h *Handlers) MoveVolunteer(w http.ResponseWriter, r *http.Request) {
	var req relocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if req.TargetShiftID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "target_shift_id is required")
		return
	}

	signup, err := services.MoveVolunteer(r.Context(), h.store, h.sink, h.cfg, h.logger,
		chi.URLParam(r, "id"), req.TargetShiftID, req.Notes)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSignupDTO(signup))
}

func (h *Handlers) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	if err := services.MarkNoShow(r.Context(), h.store, h.sink, h.cfg, h.logger, chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "no_show"})
}
