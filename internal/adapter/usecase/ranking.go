package usecase

import (
	"context"
	"log/slog"
	"sort"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
)

// Ranker prices admitted candidates and orders them by eCPM. CTR/CVR come
// from the external scorer; any scorer failure degrades to the configured
// defaults so serving never stalls on prediction.
type Ranker struct {
	scorer      port.Scorer
	defaultPCTR float64
	defaultPCVR float64
	logger      *slog.Logger
}

// NewRanker constructs a Ranker. scorer may be nil when no predictor is
// deployed; defaults are used for every candidate then.
func NewRanker(scorer port.Scorer, defaultPCTR, defaultPCVR float64, logger *slog.Logger) *Ranker {
	return &Ranker{
		scorer:      scorer,
		defaultPCTR: defaultPCTR,
		defaultPCVR: defaultPCVR,
		logger:      logger,
	}
}

// Rank scores candidates, sorts them by descending eCPM (ties broken by
// ascending campaign id for determinism) and returns the top n.
func (r *Ranker) Rank(ctx context.Context, user domain.UserContext, candidates []domain.AdCandidate, n int) []domain.AdCandidate {
	for i := range candidates {
		pctr, pcvr := r.predict(ctx, candidates[i], user)
		candidates[i].PCTR = pctr
		candidates[i].PCVR = pcvr
		candidates[i].ECPM = ecpm(&candidates[i])
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ECPM != candidates[j].ECPM {
			return candidates[i].ECPM > candidates[j].ECPM
		}
		return candidates[i].CampaignID < candidates[j].CampaignID
	})

	if n > 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

func (r *Ranker) predict(ctx context.Context, candidate domain.AdCandidate, user domain.UserContext) (float64, float64) {
	if r.scorer == nil {
		return r.defaultPCTR, r.defaultPCVR
	}
	pctr, pcvr, err := r.scorer.Predict(ctx, candidate, user)
	if err != nil {
		r.logger.Warn("scorer unavailable, using default scores", slog.Any("error", err))
		return r.defaultPCTR, r.defaultPCVR
	}
	return pctr, pcvr
}

// ecpm normalizes heterogeneous bid types onto expected revenue per
// thousand impressions, scaled by the campaign's priority boost.
func ecpm(c *domain.AdCandidate) float64 {
	bid := c.Bid.InexactFloat64()
	var score float64
	switch c.BidType {
	case domain.BidCPM, domain.BidOCPM:
		score = bid
	case domain.BidCPC:
		score = bid * c.PCTR * 1000
	case domain.BidCPA:
		score = bid * c.PCTR * c.PCVR * 1000
	}
	return score * c.PriorityBoost
}
