package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adpipe/internal/core/port"
)

// Handler is the inbound HTTP adapter. It holds the decision pipeline and
// the event ledger use cases plus a logger, and registers all routes on a
// chi.Router.
type Handler struct {
	ads        port.AdUseCase
	events     port.EventUseCase
	logger     *slog.Logger
	useReferer bool
	router     chi.Router
}

// NewHandler creates a handler with all routes configured. useReferer
// enables falling back to the Referer header for page targeting when the
// request carries no page URL.
func NewHandler(ads port.AdUseCase, events port.EventUseCase, useReferer bool, logger *slog.Logger) *Handler {
	h := &Handler{ads: ads, events: events, logger: logger, useReferer: useReferer}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ad/request", h.handleAdRequest)
		r.Get("/ad/go", h.handleClickThrough)
		r.Get("/px/", h.handlePixel)
		r.Post("/event/track", h.handleTrackEvent)
		r.Get("/stats/overview", h.handleStatsOverview)
		r.Post("/cache/invalidate", h.handleCacheInvalidate)
	})
	r.Handle("/metrics", promhttp.Handler())

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// handleCacheInvalidate lets management operations drop the campaign
// snapshot after campaign state changes.
func (h *Handler) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.ads.InvalidateCampaigns(r.Context()); err != nil {
		h.logger.Error("cache invalidate error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
