package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo data: a handful of paid campaigns across bid types with
// targeting rules, plus one house-ad campaign as fallback inventory.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	type seedCampaign struct {
		name      string
		bidType   string
		bidAmount string
		daily     string
		isHouse   bool
	}
	campaigns := []seedCampaign{
		{name: "Spring Sale CPM", bidType: "cpm", bidAmount: "2.000000", daily: "100.000000"},
		{name: "Signup Drive CPC", bidType: "cpc", bidAmount: "0.250000", daily: "50.000000"},
		{name: "App Install CPA", bidType: "cpa", bidAmount: "5.000000", daily: "200.000000"},
		{name: "House Fallback", bidType: "cpm", bidAmount: "0.000000", isHouse: true},
	}

	for i, c := range campaigns {
		id := int64(i + 1)
		var daily any
		if c.daily != "" {
			daily = c.daily
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO campaigns
			    (id, advertiser_id, name, status, bid_type, bid_amount, budget_daily,
			     freq_cap_daily, freq_cap_hourly, priority_boost, is_house_ad)
			VALUES ($1, 1, $2, 'active', $3, $4, $5, 3, 1, 1.0, $6)
			ON CONFLICT DO NOTHING`,
			id, c.name, c.bidType, c.bidAmount, daily, c.isHouse)
		if err != nil {
			return err
		}

		for j, dims := range [][2]int{{300, 250}, {728, 90}} {
			crID := id*10 + int64(j)
			_, err = pool.Exec(ctx, `
				INSERT INTO creatives
				    (id, campaign_id, title, image_url, landing_url, creative_type, width, height, status)
				VALUES ($1, $2, $3, $4, $5, 'banner', $6, $7, 'active')
				ON CONFLICT DO NOTHING`,
				crID, id,
				fmt.Sprintf("%s %dx%d", c.name, dims[0], dims[1]),
				fmt.Sprintf("https://cdn.example.com/creatives/%d.png", crID),
				fmt.Sprintf("https://example.com/landing/%d", crID),
				dims[0], dims[1])
			if err != nil {
				return err
			}
		}

		if !c.isHouse {
			_, err = pool.Exec(ctx, `
				INSERT INTO targeting_rules (campaign_id, rule_type, rule_value, is_include)
				VALUES ($1, 'geo', '{"countries": ["US", "DE", "FR"]}', TRUE)
				ON CONFLICT DO NOTHING`, id)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
