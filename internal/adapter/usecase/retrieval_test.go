package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adpipe/internal/adapter/memkv"
	"adpipe/internal/core/domain"
	"adpipe/internal/core/port/mocks"
)

func newTestRetriever(t *testing.T, campaigns []domain.Campaign) *Retriever {
	t.Helper()
	repo := &mocks.AdRepository{}
	repo.On("ListActiveCampaigns", mock.Anything, 1000).Return(campaigns, nil)
	cache := NewCampaignCache(repo, memkv.New(), testCacheConfig(), testLogger())
	return NewRetriever(cache, testLogger())
}

func TestRetrieveMatchingCampaignAndSlot(t *testing.T) {
	retriever := newTestRetriever(t, []domain.Campaign{testCampaign(1, "2.00")})

	candidates, err := retriever.Retrieve(context.Background(), domain.UserContext{}, "sidebar-300x250", 100)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(1), candidates[0].CampaignID)
	assert.Equal(t, int64(10), candidates[0].CreativeID)
	assert.Equal(t, domain.BidCPM, candidates[0].BidType)
}

func TestRetrieveDimensionFiltering(t *testing.T) {
	campaign := testCampaign(1, "2.00")
	campaign.Creatives = append(campaign.Creatives, domain.Creative{
		ID:         11,
		CampaignID: 1,
		Title:      "leaderboard",
		LandingURL: "https://example.com/landing",
		Type:       domain.CreativeBanner,
		Width:      728,
		Height:     90,
		Status:     domain.StatusActive,
	}, domain.Creative{
		ID:         12,
		CampaignID: 1,
		Title:      "no dims",
		LandingURL: "https://example.com/landing",
		Type:       domain.CreativeNative,
		Status:     domain.StatusActive,
	})
	retriever := newTestRetriever(t, []domain.Campaign{campaign})

	candidates, err := retriever.Retrieve(context.Background(), domain.UserContext{}, "sidebar-300x250", 100)
	require.NoError(t, err)

	var ids []int64
	for _, c := range candidates {
		ids = append(ids, c.CreativeID)
	}
	// 728x90 is excluded; a creative without dimensions fits any slot.
	assert.ElementsMatch(t, []int64{10, 12}, ids)
}

func TestRetrieveSlotWithoutDimensions(t *testing.T) {
	retriever := newTestRetriever(t, []domain.Campaign{testCampaign(1, "2.00")})

	candidates, err := retriever.Retrieve(context.Background(), domain.UserContext{}, "homepage-top", 100)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestRetrieveTargetingExcludesCampaign(t *testing.T) {
	campaign := testCampaign(1, "2.00")
	campaign.Rules = []domain.TargetingRule{{
		CampaignID: 1,
		Type:       domain.RuleGeo,
		Value:      domain.RuleValue{Countries: []string{"US"}},
		IsInclude:  true,
	}}
	retriever := newTestRetriever(t, []domain.Campaign{campaign})

	candidates, err := retriever.Retrieve(context.Background(),
		domain.UserContext{Country: "DE"}, "sidebar-300x250", 100)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	candidates, err = retriever.Retrieve(context.Background(),
		domain.UserContext{Country: "US"}, "sidebar-300x250", 100)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestRetrieveDomainTargeting(t *testing.T) {
	campaign := testCampaign(1, "2.00")
	campaign.TargetDomainsRaw = []byte(`["example.com"]`)
	retriever := newTestRetriever(t, []domain.Campaign{campaign})

	candidates, err := retriever.Retrieve(context.Background(),
		domain.UserContext{PageURL: "https://blog.example.com/post"}, "sidebar-300x250", 100)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)

	candidates, err = retriever.Retrieve(context.Background(),
		domain.UserContext{PageURL: "https://notexample.com/post"}, "sidebar-300x250", 100)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestRetrievePaidBeatsHouse(t *testing.T) {
	paid := testCampaign(1, "2.00")
	house := testCampaign(2, "0")
	house.IsHouseAd = true
	retriever := newTestRetriever(t, []domain.Campaign{paid, house})

	candidates, err := retriever.Retrieve(context.Background(), domain.UserContext{}, "sidebar-300x250", 100)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(1), candidates[0].CampaignID)
	assert.False(t, candidates[0].IsHouseAd)
}

func TestRetrieveHouseFallback(t *testing.T) {
	paid := testCampaign(1, "2.00")
	paid.Rules = []domain.TargetingRule{{
		CampaignID: 1,
		Type:       domain.RuleGeo,
		Value:      domain.RuleValue{Countries: []string{"US"}},
		IsInclude:  true,
	}}
	house := testCampaign(2, "0")
	house.IsHouseAd = true
	retriever := newTestRetriever(t, []domain.Campaign{paid, house})

	candidates, err := retriever.Retrieve(context.Background(),
		domain.UserContext{Country: "DE"}, "sidebar-300x250", 100)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].IsHouseAd)
}

func TestRetrieveLimit(t *testing.T) {
	campaigns := []domain.Campaign{
		testCampaign(1, "2.00"),
		testCampaign(2, "3.00"),
		testCampaign(3, "4.00"),
	}
	retriever := newTestRetriever(t, campaigns)

	candidates, err := retriever.Retrieve(context.Background(), domain.UserContext{}, "sidebar-300x250", 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestParseSlotDims(t *testing.T) {
	dims := parseSlotDims("sidebar-300x250")
	require.NotNil(t, dims)
	assert.Equal(t, 300, dims.width)
	assert.Equal(t, 250, dims.height)

	assert.Nil(t, parseSlotDims("homepage-top"))
	assert.Nil(t, parseSlotDims(""))
}
