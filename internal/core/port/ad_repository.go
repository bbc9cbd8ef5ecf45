package port

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"adpipe/internal/core/domain"
)

// ErrCampaignNotFound is returned by lookups for unknown campaign ids.
var ErrCampaignNotFound = errors.New("campaign not found")

// AdRepository is the outbound port over the system of record. It exposes
// reads of campaign/creative/targeting data and the append-only event write.
// Implementations must perform the event insert and the spend increment in
// one transaction so concurrent events for the same campaign never lose
// updates.
type AdRepository interface {
	// ListActiveCampaigns returns active campaigns, denormalized with their
	// active creatives and targeting rules, up to limit campaigns. Campaigns
	// without any active creative are omitted.
	ListActiveCampaigns(ctx context.Context, limit int) ([]domain.Campaign, error)

	// GetCampaign returns one campaign without creatives or rules. Returns
	// ErrCampaignNotFound when the id is unknown.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)

	// GetCreative returns one creative by id, or ErrCampaignNotFound.
	GetCreative(ctx context.Context, id int64) (*domain.Creative, error)

	// GetSpends returns the committed budget/spend state for the given
	// campaigns. Unknown ids are absent from the result.
	GetSpends(ctx context.Context, ids []int64) (map[int64]domain.CampaignSpend, error)

	// InsertEvent persists the event and, when its cost is positive, adds the
	// cost to the campaign's spent_today and spent_total atomically within
	// the same transaction.
	InsertEvent(ctx context.Context, event domain.AdEvent) error

	// GetStats aggregates tracked events over a period.
	GetStats(ctx context.Context, req StatsReq) (*StatsResp, error)
}

// StatsReq selects the aggregation period and optionally one campaign.
type StatsReq struct {
	From       time.Time
	To         time.Time
	CampaignID *int64
}

// StatsResp carries aggregated event counts and total cost.
type StatsResp struct {
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
	Cost        decimal.Decimal `json:"cost"`
}
