package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"

	"adpipe/internal/core/domain"
)

// slotDimPattern extracts dimensions from slot ids such as "sidebar-300x250".
var slotDimPattern = regexp.MustCompile(`(\d+)x(\d+)`)

type slotDims struct {
	width, height int
}

func parseSlotDims(slotID string) *slotDims {
	m := slotDimPattern.FindStringSubmatch(slotID)
	if m == nil {
		return nil
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return &slotDims{width: w, height: h}
}

// Retriever produces eligible (campaign, creative) pairs for a slot by
// applying targeting rules, page/domain targeting and dimension
// compatibility against the cached campaign snapshot.
type Retriever struct {
	cache  *CampaignCache
	logger *slog.Logger
}

// NewRetriever constructs a Retriever on top of the campaign cache.
func NewRetriever(cache *CampaignCache, logger *slog.Logger) *Retriever {
	return &Retriever{cache: cache, logger: logger}
}

// Retrieve returns up to limit candidates. Paid candidates win over house
// ads; house ads are returned only when no paid inventory qualifies, so the
// slot still fills at zero revenue.
func (r *Retriever) Retrieve(ctx context.Context, user domain.UserContext, slotID string, limit int) ([]domain.AdCandidate, error) {
	campaigns, err := r.cache.ActiveCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		return nil, nil
	}

	dims := parseSlotDims(slotID)

	var paid, house []domain.AdCandidate
	for i := range campaigns {
		campaign := &campaigns[i]

		if !domain.MatchTargeting(campaign.Rules, user) {
			continue
		}
		if !r.matchPage(campaign, user.PageURL) {
			continue
		}
		if !r.matchDomains(campaign, user.PageURL) {
			continue
		}

		for _, creative := range campaign.Creatives {
			if !creativeMatchesSlot(creative, dims) {
				continue
			}
			candidate := domain.AdCandidate{
				CampaignID:    campaign.ID,
				CreativeID:    creative.ID,
				AdvertiserID:  campaign.AdvertiserID,
				Bid:           campaign.BidAmount,
				BidType:       campaign.BidType,
				PriorityBoost: campaign.PriorityBoost,
				IsHouseAd:     campaign.IsHouseAd,
				FreqCapDaily:  campaign.FreqCapDaily,
				FreqCapHourly: campaign.FreqCapHourly,
				Creative:      creative,
			}
			if campaign.IsHouseAd {
				if len(house) < limit {
					house = append(house, candidate)
				}
			} else if len(paid) < limit {
				paid = append(paid, candidate)
			}
			if len(paid) >= limit && len(house) >= limit {
				break
			}
		}
		if len(paid) >= limit && len(house) >= limit {
			break
		}
	}

	if len(paid) > 0 {
		return paid, nil
	}
	if len(house) > 0 {
		r.logger.Debug("no paid inventory, serving house ads",
			slog.Int("count", len(house)))
		return house, nil
	}
	return nil, nil
}

// matchPage applies glob include/exclude page targeting. Malformed stored
// JSON means "no constraint" and is logged as a data-quality warning.
func (r *Retriever) matchPage(campaign *domain.Campaign, pageURL string) bool {
	pt, err := domain.ParsePageTargeting(campaign.PageTargetingRaw)
	if err != nil {
		r.logger.Warn("malformed page_targeting, treating as unconstrained",
			slog.Int64("campaign_id", campaign.ID), slog.Any("error", err))
		return true
	}
	return pt.Matches(pageURL)
}

func (r *Retriever) matchDomains(campaign *domain.Campaign, pageURL string) bool {
	targets, err := domain.ParseTargetDomains(campaign.TargetDomainsRaw)
	if err != nil {
		r.logger.Warn("malformed target_domains, treating as unconstrained",
			slog.Int64("campaign_id", campaign.ID), slog.Any("error", err))
		return true
	}
	return domain.MatchDomains(targets, pageURL)
}

// creativeMatchesSlot accepts a creative when the slot has no dimension
// constraint, the creative has no recorded dimensions (legacy tolerance) or
// the dimensions match exactly.
func creativeMatchesSlot(creative domain.Creative, dims *slotDims) bool {
	if dims == nil {
		return true
	}
	if creative.Width == 0 || creative.Height == 0 {
		return true
	}
	return creative.Width == dims.width && creative.Height == dims.height
}
