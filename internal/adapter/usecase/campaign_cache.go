package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coocood/freecache"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
	"adpipe/internal/metrics"
)

// CampaignCache is the read-through cache of active campaigns with their
// creatives and targeting rules. Reads go local freecache layer first, then
// the shared KV store, then the system of record. Concurrent rebuilds on a
// miss are tolerated as idempotent overwrites of the same entry; no lock
// coordinates them. A KV store outage degrades to direct repository reads.
type CampaignCache struct {
	repo   port.AdRepository
	kv     port.KVStore
	local  *freecache.Cache
	logger *slog.Logger

	ttl        time.Duration
	localTTL   time.Duration
	queryLimit int
}

// CampaignCacheConfig bounds the cache behavior. QueryLimit caps how many
// campaigns one rebuild may pull from the store; it is a documented scale
// limit, not an implicit one.
type CampaignCacheConfig struct {
	TTL            time.Duration
	LocalTTL       time.Duration
	LocalCacheSize int
	QueryLimit     int
}

// NewCampaignCache constructs the cache with its two layers.
func NewCampaignCache(repo port.AdRepository, kv port.KVStore, cfg CampaignCacheConfig, logger *slog.Logger) *CampaignCache {
	return &CampaignCache{
		repo:       repo,
		kv:         kv,
		local:      freecache.NewCache(cfg.LocalCacheSize),
		logger:     logger,
		ttl:        cfg.TTL,
		localTTL:   cfg.LocalTTL,
		queryLimit: cfg.QueryLimit,
	}
}

// ActiveCampaigns returns the denormalized snapshot of active campaigns,
// no older than the cache TTL. Within the TTL and without an intervening
// Invalidate, repeated calls return identical snapshots.
func (c *CampaignCache) ActiveCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if data, err := c.local.Get([]byte(activeCampaignsKey)); err == nil {
		if campaigns, ok := decodeSnapshot(data); ok {
			metrics.CampaignCacheHits.WithLabelValues("local").Inc()
			return campaigns, nil
		}
	}

	data, found, err := c.kv.Get(ctx, activeCampaignsKey)
	if err != nil {
		c.logger.Warn("campaign cache store unavailable, reading from repository",
			slog.Any("error", err))
	} else if found {
		if campaigns, ok := decodeSnapshot(data); ok {
			metrics.CampaignCacheHits.WithLabelValues("shared").Inc()
			c.storeLocal(data)
			return campaigns, nil
		}
	}

	return c.rebuild(ctx)
}

// Invalidate drops both cache layers so the next retrieval rebuilds from the
// system of record, regardless of remaining TTL.
func (c *CampaignCache) Invalidate(ctx context.Context) error {
	c.local.Del([]byte(activeCampaignsKey))
	if err := c.kv.Del(ctx, activeCampaignsKey); err != nil {
		return err
	}
	c.logger.Info("campaign cache invalidated")
	return nil
}

func (c *CampaignCache) rebuild(ctx context.Context) ([]domain.Campaign, error) {
	metrics.CampaignCacheMisses.Inc()

	campaigns, err := c.repo.ListActiveCampaigns(ctx, c.queryLimit)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(campaigns)
	if err != nil {
		// Snapshot stays usable even if it cannot be cached.
		c.logger.Warn("campaign snapshot encode failed", slog.Any("error", err))
		return campaigns, nil
	}
	if err := c.kv.Set(ctx, activeCampaignsKey, data, c.ttl); err != nil {
		c.logger.Warn("campaign snapshot cache write failed", slog.Any("error", err))
	}
	c.storeLocal(data)

	c.logger.Debug("campaign snapshot rebuilt", slog.Int("campaigns", len(campaigns)))
	return campaigns, nil
}

func (c *CampaignCache) storeLocal(data []byte) {
	_ = c.local.Set([]byte(activeCampaignsKey), data, int(c.localTTL.Seconds()))
}

func decodeSnapshot(data []byte) ([]domain.Campaign, bool) {
	var campaigns []domain.Campaign
	if err := json.Unmarshal(data, &campaigns); err != nil {
		return nil, false
	}
	return campaigns, true
}
