package httpadapter

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"adpipe/internal/core/port"
)

// handleStatsOverview returns aggregated event statistics over a period. It
// accepts optional `from`, `to` (RFC3339 timestamps) and `campaign_id`
// query parameters; the period defaults to the last 24 hours.
func (h *Handler) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	var (
		q   = r.URL.Query()
		req port.StatsReq
		err error
	)

	if fromStr := q.Get("from"); fromStr != "" {
		req.From, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			http.Error(w, "invalid 'from' timestamp", http.StatusBadRequest)
			return
		}
	} else {
		req.From = time.Now().Add(-24 * time.Hour)
	}

	if toStr := q.Get("to"); toStr != "" {
		req.To, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			http.Error(w, "invalid 'to' timestamp", http.StatusBadRequest)
			return
		}
	} else {
		req.To = time.Now()
	}

	if cid := q.Get("campaign_id"); cid != "" {
		id, err := strconv.ParseInt(cid, 10, 64)
		if err != nil {
			http.Error(w, "invalid campaign_id", http.StatusBadRequest)
			return
		}
		req.CampaignID = &id
	}

	stats, err := h.events.GetStats(r.Context(), req)
	if err != nil {
		h.logger.Error("stats error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, stats)
}
