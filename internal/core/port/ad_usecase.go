package port

import (
	"context"
	"time"

	"adpipe/internal/core/domain"
)

// AdUseCase is the primary inbound port for ad decisions. Mock
// implementations can be generated from this interface for testing.
type AdUseCase interface {
	// ServeAds runs the decision pipeline for one slot request: retrieval,
	// admission, pricing and ranking. It returns at most req.NumAds
	// decisions ordered by descending eCPM. An empty result means no fill
	// and is not an error.
	ServeAds(ctx context.Context, req AdRequest) ([]Decision, error)

	// InvalidateCampaigns drops the cached campaign snapshot so the next
	// retrieval rebuilds it from the system of record. Called by management
	// operations after campaign state changes.
	InvalidateCampaigns(ctx context.Context) error
}

// EventUseCase is the inbound port of the event/cost ledger.
type EventUseCase interface {
	// Track records one ad event, computes its cost and updates spend and
	// frequency state. It reports false for unparseable ad ids, unrecognized
	// event types and store write failures; no error escapes to the caller.
	Track(ctx context.Context, req TrackRequest) bool

	// ClickThrough tracks a click for the given ad and returns the landing
	// URL of its creative for redirection.
	ClickThrough(ctx context.Context, requestID, adID string) (string, error)

	// GetStats aggregates tracked events over a period.
	GetStats(ctx context.Context, req StatsReq) (*StatsResp, error)
}

// AdRequest is the decision pipeline's view of one slot request. RequestID
// is issued by the serving boundary and echoed in tracking identifiers.
type AdRequest struct {
	RequestID string
	SlotID    string
	NumAds    int
	User      domain.UserContext
}

// Decision is one selected ad. AdID is the tracking identifier the caller
// uses for subsequent event tracking.
type Decision struct {
	AdID       string
	CampaignID int64
	CreativeID int64
	ECPM       float64
	PCTR       float64
	Creative   domain.Creative
}

// TrackRequest is one event-tracking call, keyed by a previously issued ad
// identifier. A zero Timestamp means "now".
type TrackRequest struct {
	RequestID string
	AdID      string
	EventType string
	UserID    string
	Timestamp time.Time
}
