package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adpipe/internal/adapter/scorer"
	"adpipe/internal/core/domain"
	"adpipe/internal/core/port/mocks"
)

func candidate(campaignID int64, bidType domain.BidType, bid string) domain.AdCandidate {
	return domain.AdCandidate{
		CampaignID:    campaignID,
		CreativeID:    campaignID * 10,
		Bid:           decimal.RequireFromString(bid),
		BidType:       bidType,
		PriorityBoost: 1.0,
	}
}

func TestRankOrdersByECPMAcrossBidTypes(t *testing.T) {
	ranker := NewRanker(&scorer.Static{PCTR: 0.01, PCVR: 0.001}, 0.01, 0.001, testLogger())

	ranked := ranker.Rank(context.Background(), domain.UserContext{}, []domain.AdCandidate{
		candidate(1, domain.BidCPM, "2.00"),  // eCPM 2.0
		candidate(2, domain.BidCPC, "0.50"),  // 0.5 * 0.01 * 1000 = 5.0
		candidate(3, domain.BidCPA, "50.00"), // 50 * 0.01 * 0.001 * 1000 = 0.5
	}, 0)

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(2), ranked[0].CampaignID)
	assert.Equal(t, int64(1), ranked[1].CampaignID)
	assert.Equal(t, int64(3), ranked[2].CampaignID)

	assert.InDelta(t, 5.0, ranked[0].ECPM, 1e-9)
	assert.InDelta(t, 2.0, ranked[1].ECPM, 1e-9)
	assert.InDelta(t, 0.5, ranked[2].ECPM, 1e-9)
}

func TestRankOCPMPricedAsCPM(t *testing.T) {
	ranker := NewRanker(nil, 0.01, 0.001, testLogger())

	ranked := ranker.Rank(context.Background(), domain.UserContext{},
		[]domain.AdCandidate{candidate(1, domain.BidOCPM, "3.50")}, 0)

	require.Len(t, ranked, 1)
	assert.InDelta(t, 3.5, ranked[0].ECPM, 1e-9)
}

func TestRankPriorityBoostScales(t *testing.T) {
	boosted := candidate(1, domain.BidCPM, "2.00")
	boosted.PriorityBoost = 2.0

	ranker := NewRanker(nil, 0.01, 0.001, testLogger())
	ranked := ranker.Rank(context.Background(), domain.UserContext{},
		[]domain.AdCandidate{boosted, candidate(2, domain.BidCPM, "3.00")}, 0)

	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].CampaignID)
	assert.InDelta(t, 4.0, ranked[0].ECPM, 1e-9)
}

func TestRankTieBreaksByCampaignID(t *testing.T) {
	ranker := NewRanker(nil, 0.01, 0.001, testLogger())

	ranked := ranker.Rank(context.Background(), domain.UserContext{}, []domain.AdCandidate{
		candidate(9, domain.BidCPM, "2.00"),
		candidate(3, domain.BidCPM, "2.00"),
		candidate(5, domain.BidCPM, "2.00"),
	}, 0)

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(3), ranked[0].CampaignID)
	assert.Equal(t, int64(5), ranked[1].CampaignID)
	assert.Equal(t, int64(9), ranked[2].CampaignID)
}

func TestRankScorerFailureUsesDefaults(t *testing.T) {
	failing := &mocks.Scorer{}
	failing.On("Predict", mock.Anything, mock.Anything, mock.Anything).
		Return(0.0, 0.0, errors.New("model offline"))

	ranker := NewRanker(failing, 0.02, 0.002, testLogger())
	ranked := ranker.Rank(context.Background(), domain.UserContext{},
		[]domain.AdCandidate{candidate(1, domain.BidCPC, "0.50")}, 0)

	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.02, ranked[0].PCTR, 1e-9)
	assert.InDelta(t, 10.0, ranked[0].ECPM, 1e-9)
}

func TestRankTruncates(t *testing.T) {
	ranker := NewRanker(nil, 0.01, 0.001, testLogger())

	ranked := ranker.Rank(context.Background(), domain.UserContext{}, []domain.AdCandidate{
		candidate(1, domain.BidCPM, "1.00"),
		candidate(2, domain.BidCPM, "2.00"),
		candidate(3, domain.BidCPM, "3.00"),
	}, 1)

	require.Len(t, ranked, 1)
	assert.Equal(t, int64(3), ranked[0].CampaignID)
}
