package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// Handlers bundles the dependencies every HTTP handler needs.
type Handlers struct {
	store  db.Store
	sink   services.Notifier
	cfg    *config.Config
	logger *zap.Logger
}

// NewRouter builds the HTTP API. All state-changing signup operations go
// through the service layer so the admission and movement invariants hold
// regardless of transport.
func NewRouter(store db.Store, sink services.Notifier, cfg *config.Config, logger *zap.Logger) http.Handler {
	h := &Handlers{store: store, sink: sink, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.store.ListShiftTypes(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":     "degraded",
				"checked_at": time.Now().UTC().Format(time.RFC3339),
				"error":      err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "ready",
			"checked_at": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/signups", h.RequestSignup)
		r.Get("/signups/{id}", h.GetSignup)
		r.Post("/signups/{id}/cancel", h.CancelSignup)
		r.Post("/signups/{id}/approve", h.ApproveSignup)
		r.Post("/signups/{id}/place", h.PlaceFlexible)
		r.Post("/signups/{id}/move", h.MoveVolunteer)
		r.Post("/signups/{id}/no-show", h.MarkNoShow)

		r.Get("/shifts", h.ListShifts)
		r.Get("/shifts/{id}", h.GetShift)
		r.Get("/shifts/{id}/signups", h.ListShiftSignups)
		r.Post("/shifts/{id}/outcomes", h.RecordShiftOutcomes)
		r.Get("/shift-types", h.ListShiftTypes)

		r.Get("/volunteers", h.ListVolunteers)
		r.Get("/volunteers/{id}", h.GetVolunteer)
		r.Get("/volunteers/{id}/signups", h.ListVolunteerSignups)
		r.Post("/volunteers/{id}/deactivate", h.DeactivateVolunteer)
		r.Post("/volunteers/{id}/activate", h.ActivateVolunteer)

		r.Get("/rules", h.ListRules)
		r.Post("/rules", h.CreateRule)
		r.Get("/rules/preview", h.PreviewRules)
	})

	return r
}
