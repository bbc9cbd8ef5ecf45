package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
)

// AdRepository implements port.AdRepository using pgxpool for PostgreSQL.
type AdRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ port.AdRepository = (*AdRepository)(nil)

// NewAdRepository returns a new repository instance.
func NewAdRepository(pool *pgxpool.Pool, logger *slog.Logger) *AdRepository {
	return &AdRepository{pool: pool, logger: logger}
}

const campaignColumns = `id, advertiser_id, name, status, bid_type, bid_amount,
	budget_daily, budget_total, spent_today, spent_total,
	freq_cap_daily, freq_cap_hourly, priority_boost, is_house_ad,
	page_targeting, target_domains, created_at, updated_at`

func scanCampaign(row pgx.CollectableRow) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.ID, &c.AdvertiserID, &c.Name, &c.Status, &c.BidType, &c.BidAmount,
		&c.BudgetDaily, &c.BudgetTotal, &c.SpentToday, &c.SpentTotal,
		&c.FreqCapDaily, &c.FreqCapHourly, &c.PriorityBoost, &c.IsHouseAd,
		&c.PageTargetingRaw, &c.TargetDomainsRaw, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// ListActiveCampaigns loads active campaigns with their active creatives and
// parsed targeting rules, at most limit campaigns per query. The limit is a
// deliberate bound on query cost. Campaigns without active creatives are
// dropped from the result.
func (r *AdRepository) ListActiveCampaigns(ctx context.Context, limit int) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM campaigns WHERE status = 'active' ORDER BY id LIMIT $1`, campaignColumns),
		limit)
	if err != nil {
		return nil, err
	}
	campaigns, err := pgx.CollectRows(rows, scanCampaign)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		return nil, nil
	}

	index := make(map[int64]int, len(campaigns))
	ids := make([]int64, 0, len(campaigns))
	for i, c := range campaigns {
		index[c.ID] = i
		ids = append(ids, c.ID)
	}

	if err := r.attachCreatives(ctx, campaigns, index, ids); err != nil {
		return nil, err
	}
	if err := r.attachRules(ctx, campaigns, index, ids); err != nil {
		return nil, err
	}

	// Only campaigns with at least one active creative are servable.
	result := campaigns[:0]
	for _, c := range campaigns {
		if len(c.Creatives) > 0 {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *AdRepository) attachCreatives(ctx context.Context, campaigns []domain.Campaign, index map[int64]int, ids []int64) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, title, description, image_url, video_url,
		       landing_url, creative_type, COALESCE(width, 0), COALESCE(height, 0), status
		FROM creatives
		WHERE campaign_id = ANY($1) AND status = 'active'
		ORDER BY id`, ids)
	if err != nil {
		return err
	}
	creatives, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Creative, error) {
		var cr domain.Creative
		err := row.Scan(&cr.ID, &cr.CampaignID, &cr.Title, &cr.Description,
			&cr.ImageURL, &cr.VideoURL, &cr.LandingURL, &cr.Type,
			&cr.Width, &cr.Height, &cr.Status)
		return cr, err
	})
	if err != nil {
		return err
	}
	for _, cr := range creatives {
		if i, ok := index[cr.CampaignID]; ok {
			campaigns[i].Creatives = append(campaigns[i].Creatives, cr)
		}
	}
	return nil
}

// attachRules loads targeting rules, validating the stored rule parameters
// once at load time. A malformed rule_value is a data-quality problem; the
// rule degrades to unconstrained rather than blocking the campaign.
func (r *AdRepository) attachRules(ctx context.Context, campaigns []domain.Campaign, index map[int64]int, ids []int64) error {
	rows, err := r.pool.Query(ctx, `
		SELECT campaign_id, rule_type, rule_value, is_include
		FROM targeting_rules
		WHERE campaign_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return err
	}
	type rawRule struct {
		campaignID int64
		ruleType   domain.RuleType
		raw        []byte
		isInclude  bool
	}
	raw, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (rawRule, error) {
		var rr rawRule
		err := row.Scan(&rr.campaignID, &rr.ruleType, &rr.raw, &rr.isInclude)
		return rr, err
	})
	if err != nil {
		return err
	}
	for _, rr := range raw {
		i, ok := index[rr.campaignID]
		if !ok {
			continue
		}
		value, err := domain.ParseRuleValue(rr.ruleType, rr.raw)
		if err != nil {
			r.logger.Warn("malformed rule_value, treating as unconstrained",
				slog.Int64("campaign_id", rr.campaignID),
				slog.String("rule_type", string(rr.ruleType)),
				slog.Any("error", err))
		}
		campaigns[i].Rules = append(campaigns[i].Rules, domain.TargetingRule{
			CampaignID: rr.campaignID,
			Type:       rr.ruleType,
			Value:      value,
			IsInclude:  rr.isInclude,
		})
	}
	return nil
}

// GetCampaign returns one campaign without creatives or rules.
func (r *AdRepository) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1`, campaignColumns), id)
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectOneRow(rows, scanCampaign)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCreative returns one creative by id.
func (r *AdRepository) GetCreative(ctx context.Context, id int64) (*domain.Creative, error) {
	var cr domain.Creative
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, title, description, image_url, video_url,
		       landing_url, creative_type, COALESCE(width, 0), COALESCE(height, 0), status
		FROM creatives WHERE id = $1`, id).
		Scan(&cr.ID, &cr.CampaignID, &cr.Title, &cr.Description,
			&cr.ImageURL, &cr.VideoURL, &cr.LandingURL, &cr.Type,
			&cr.Width, &cr.Height, &cr.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

// GetSpends returns committed budget/spend state for the given campaigns.
func (r *AdRepository) GetSpends(ctx context.Context, ids []int64) (map[int64]domain.CampaignSpend, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, spent_today, spent_total, budget_daily, budget_total
		FROM campaigns WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	spends, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CampaignSpend, error) {
		var s domain.CampaignSpend
		err := row.Scan(&s.CampaignID, &s.SpentToday, &s.SpentTotal, &s.BudgetDaily, &s.BudgetTotal)
		return s, err
	})
	if err != nil {
		return nil, err
	}
	result := make(map[int64]domain.CampaignSpend, len(spends))
	for _, s := range spends {
		result[s.CampaignID] = s
	}
	return result, nil
}

// InsertEvent appends the event and, when it carries a cost, adds the cost
// to the campaign's spend counters in the same transaction. The relative
// UPDATE keeps concurrent events for one campaign from losing increments.
func (r *AdRepository) InsertEvent(ctx context.Context, event domain.AdEvent) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO ad_events (request_id, campaign_id, creative_id, event_type, user_id, event_time, cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.RequestID, event.CampaignID, event.CreativeID,
		string(event.Type), nullableString(event.UserID), event.EventTime, event.Cost)
	if err != nil {
		return err
	}

	if event.Cost.IsPositive() {
		_, err = tx.Exec(ctx, `
			UPDATE campaigns
			SET spent_today = spent_today + $1,
			    spent_total = spent_total + $1,
			    updated_at = now()
			WHERE id = $2`,
			event.Cost, event.CampaignID)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetStats aggregates tracked events over a period, optionally for one
// campaign.
func (r *AdRepository) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE event_type = 'impression'),
		       COUNT(*) FILTER (WHERE event_type = 'click'),
		       COUNT(*) FILTER (WHERE event_type = 'conversion'),
		       COALESCE(SUM(cost), 0)
		FROM ad_events
		WHERE event_time >= $1 AND event_time <= $2`
	args := []any{req.From, req.To}
	if req.CampaignID != nil {
		query += ` AND campaign_id = $3`
		args = append(args, *req.CampaignID)
	}
	var resp port.StatsResp
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&resp.Impressions, &resp.Clicks, &resp.Conversions, &resp.Cost)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
