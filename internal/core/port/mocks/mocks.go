// Package mocks provides testify mocks for the outbound ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
)

// AdRepository is a mock of port.AdRepository.
type AdRepository struct {
	mock.Mock
}

var _ port.AdRepository = (*AdRepository)(nil)

func (m *AdRepository) ListActiveCampaigns(ctx context.Context, limit int) ([]domain.Campaign, error) {
	args := m.Called(ctx, limit)
	campaigns, _ := args.Get(0).([]domain.Campaign)
	return campaigns, args.Error(1)
}

func (m *AdRepository) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	campaign, _ := args.Get(0).(*domain.Campaign)
	return campaign, args.Error(1)
}

func (m *AdRepository) GetCreative(ctx context.Context, id int64) (*domain.Creative, error) {
	args := m.Called(ctx, id)
	creative, _ := args.Get(0).(*domain.Creative)
	return creative, args.Error(1)
}

func (m *AdRepository) GetSpends(ctx context.Context, ids []int64) (map[int64]domain.CampaignSpend, error) {
	args := m.Called(ctx, ids)
	spends, _ := args.Get(0).(map[int64]domain.CampaignSpend)
	return spends, args.Error(1)
}

func (m *AdRepository) InsertEvent(ctx context.Context, event domain.AdEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *AdRepository) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*port.StatsResp)
	return resp, args.Error(1)
}

// Scorer is a mock of port.Scorer.
type Scorer struct {
	mock.Mock
}

var _ port.Scorer = (*Scorer)(nil)

func (m *Scorer) Predict(ctx context.Context, candidate domain.AdCandidate, user domain.UserContext) (float64, float64, error) {
	args := m.Called(ctx, candidate, user)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

// KVStore is a mock of port.KVStore. Most tests prefer the memkv adapter;
// this mock exists for failure-injection cases.
type KVStore struct {
	mock.Mock
}

var _ port.KVStore = (*KVStore)(nil)

func (m *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Bool(1), args.Error(2)
}

func (m *KVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *KVStore) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *KVStore) IncrWithExpiry(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, delta, ttl)
	return args.Get(0).(int64), args.Error(1)
}

func (m *KVStore) GetCounter(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *KVStore) HIncrWithExpiry(ctx context.Context, key, field string, delta int64, ttl time.Duration) error {
	args := m.Called(ctx, key, field, delta, ttl)
	return args.Error(0)
}
