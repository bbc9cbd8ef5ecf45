package domain

import "github.com/shopspring/decimal"

// AdCandidate is the ephemeral output of retrieval: one eligible
// (campaign, creative) pair with everything the later pipeline stages need.
// It lives for a single request and is never shared across requests.
type AdCandidate struct {
	CampaignID   int64
	CreativeID   int64
	AdvertiserID int64

	Bid           decimal.Decimal
	BidType       BidType
	PriorityBoost float64
	IsHouseAd     bool
	FreqCapDaily  int
	FreqCapHourly int

	Creative Creative

	// Scoring fields, filled in by ranking.
	PCTR float64
	PCVR float64
	ECPM float64
}
