package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all market calendar routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.Get("/artifacts", h.HandleGetArtifacts)
		r.Get("/{year}.ics", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetICS(w, r, chi.URLParam(r, "year"))
		})
		r.Get("/{year}/events", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetEvents(w, r, chi.URLParam(r, "year"))
		})
		r.Get("/{year}/days/{date}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetDay(w, r, chi.URLParam(r, "year"), chi.URLParam(r, "date"))
		})
	})
}
