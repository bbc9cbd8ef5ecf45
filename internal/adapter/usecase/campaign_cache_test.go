package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adpipe/internal/adapter/memkv"
	"adpipe/internal/core/domain"
	"adpipe/internal/core/port/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCacheConfig() CampaignCacheConfig {
	return CampaignCacheConfig{
		TTL:            300 * time.Second,
		LocalTTL:       5 * time.Second,
		LocalCacheSize: 1 << 20,
		QueryLimit:     1000,
	}
}

// testCampaign returns an active CPM campaign with one active creative.
func testCampaign(id int64, bid string) domain.Campaign {
	return domain.Campaign{
		ID:            id,
		AdvertiserID:  1,
		Name:          "campaign",
		Status:        domain.StatusActive,
		BidType:       domain.BidCPM,
		BidAmount:     decimal.RequireFromString(bid),
		PriorityBoost: 1.0,
		Creatives: []domain.Creative{{
			ID:         id * 10,
			CampaignID: id,
			Title:      "creative",
			LandingURL: "https://example.com/landing",
			Type:       domain.CreativeBanner,
			Width:      300,
			Height:     250,
			Status:     domain.StatusActive,
		}},
	}
}

func TestCampaignCacheIdempotentWithinTTL(t *testing.T) {
	repo := &mocks.AdRepository{}
	repo.On("ListActiveCampaigns", mock.Anything, 1000).
		Return([]domain.Campaign{testCampaign(1, "2.00")}, nil).Once()

	cache := NewCampaignCache(repo, memkv.New(), testCacheConfig(), testLogger())

	first, err := cache.ActiveCampaigns(context.Background())
	require.NoError(t, err)
	second, err := cache.ActiveCampaigns(context.Background())
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].BidAmount.Equal(second[0].BidAmount))
	assert.Equal(t, first[0].Creatives, second[0].Creatives)

	repo.AssertNumberOfCalls(t, "ListActiveCampaigns", 1)
}

func TestCampaignCacheInvalidateForcesRebuild(t *testing.T) {
	repo := &mocks.AdRepository{}
	repo.On("ListActiveCampaigns", mock.Anything, 1000).
		Return([]domain.Campaign{testCampaign(1, "2.00")}, nil).Twice()

	cache := NewCampaignCache(repo, memkv.New(), testCacheConfig(), testLogger())

	_, err := cache.ActiveCampaigns(context.Background())
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background()))
	_, err = cache.ActiveCampaigns(context.Background())
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "ListActiveCampaigns", 2)
}

func TestCampaignCacheStoreOutageFallsBackToRepository(t *testing.T) {
	repo := &mocks.AdRepository{}
	repo.On("ListActiveCampaigns", mock.Anything, 1000).
		Return([]domain.Campaign{testCampaign(1, "2.00")}, nil)

	kv := &mocks.KVStore{}
	kv.On("Get", mock.Anything, activeCampaignsKey).
		Return([]byte(nil), false, errors.New("connection refused"))
	kv.On("Set", mock.Anything, activeCampaignsKey, mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))

	cache := NewCampaignCache(repo, kv, testCacheConfig(), testLogger())

	campaigns, err := cache.ActiveCampaigns(context.Background())
	require.NoError(t, err)
	assert.Len(t, campaigns, 1)
}

func TestCampaignCacheEmptyRepository(t *testing.T) {
	repo := &mocks.AdRepository{}
	repo.On("ListActiveCampaigns", mock.Anything, 1000).Return(nil, nil)

	cache := NewCampaignCache(repo, memkv.New(), testCacheConfig(), testLogger())

	campaigns, err := cache.ActiveCampaigns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, campaigns)
}
