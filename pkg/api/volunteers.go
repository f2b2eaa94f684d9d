package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.store.ListActiveVolunteers(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]volunteerDTO, 0, len(volunteers))
	for i := range volunteers {
		out = append(out, toVolunteerDTO(&volunteers[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) GetVolunteer(w http.ResponseWriter, r *http.Request) {
	volunteer, err := h.store.GetVolunteer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVolunteerDTO(volunteer))
}

func (h *Handlers) ListVolunteerSignups(w http.ResponseWriter, r *http.Request) {
	volunteerID := chi.URLParam(r, "id")
	if _, err := h.store.GetVolunteer(r.Context(), volunteerID); err != nil {
		serviceError(w, err)
		return
	}
	signups, err := h.store.ListSignupsForVolunteer(r.Context(), volunteerID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toSignupDTOs(signups)})
}

// DeactivateVolunteer retires a volunteer profile. Existing signups are
// untouched; the volunteer simply cannot request new ones.
func (h *Handlers) DeactivateVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SetVolunteerActive(r.Context(), chi.URLParam(r, "id"), false); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handlers) ActivateVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SetVolunteerActive(r.Context(), chi.URLParam(r, "id"), true); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}
