package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"adpipe/internal/core/port"
)

type eventRequestBody struct {
	RequestID string `json:"request_id"`
	AdID      string `json:"ad_id"`
	EventType string `json:"event_type"`
	UserID    string `json:"user_id"`
	Timestamp int64  `json:"timestamp"`
}

type eventResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleTrackEvent records an ad event posted as JSON. Tracking failures are
// reported in the body, not as transport errors.
func (h *Handler) handleTrackEvent(w http.ResponseWriter, r *http.Request) {
	var body eventRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var ts time.Time
	if body.Timestamp > 0 {
		ts = time.Unix(body.Timestamp, 0).UTC()
	}
	success := h.events.Track(r.Context(), port.TrackRequest{
		RequestID: body.RequestID,
		AdID:      body.AdID,
		EventType: body.EventType,
		UserID:    body.UserID,
		Timestamp: ts,
	})

	writeJSON(w, h.logger, eventResponse{
		Success: success,
		Message: eventMessage(success),
	})
}

// handlePixel records an event fired from a tracking URL embedded in served
// ads. Parameters are deliberately short: t = event type code, r = request
// id, i = ad id.
func (h *Handler) handlePixel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	success := h.events.Track(r.Context(), port.TrackRequest{
		RequestID: q.Get("r"),
		AdID:      q.Get("i"),
		EventType: q.Get("t"),
	})

	writeJSON(w, h.logger, eventResponse{
		Success: success,
		Message: eventMessage(success),
	})
}

// handleClickThrough records a click and redirects to the creative's
// landing page. Unknown ads redirect to the site root rather than erroring
// in front of a user.
func (h *Handler) handleClickThrough(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	landingURL, err := h.events.ClickThrough(r.Context(), q.Get("r"), q.Get("i"))
	if err != nil || landingURL == "" {
		h.logger.Warn("click-through failed",
			slog.String("ad_id", q.Get("i")), slog.Any("error", err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.Redirect(w, r, landingURL, http.StatusFound)
}

func eventMessage(success bool) string {
	if success {
		return "Event recorded"
	}
	return "Failed to record event"
}
