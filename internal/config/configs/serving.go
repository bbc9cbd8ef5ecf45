package configs

import "time"

// Serving configures the ad decision pipeline.
type Serving struct {
	// CacheTTL bounds the staleness of the shared campaign snapshot; within
	// it a cached copy may be served without touching the system of record.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"300s"`

	// LocalCacheTTL is the expiry of the in-process snapshot layer. Keep it
	// short: local copies on other instances are not dropped by an
	// invalidation issued here.
	LocalCacheTTL time.Duration `env:"LOCAL_CACHE_TTL" envDefault:"5s"`

	// LocalCacheSize is the freecache allocation in bytes.
	LocalCacheSize int `env:"LOCAL_CACHE_SIZE" envDefault:"33554432"`

	// CampaignQueryLimit caps how many campaigns one snapshot rebuild may
	// load. This is a known scale limit; campaigns beyond it are not served.
	CampaignQueryLimit int `env:"CAMPAIGN_QUERY_LIMIT" envDefault:"1000"`

	// RetrievalLimit caps candidates per bucket (paid/house) per request.
	RetrievalLimit int `env:"RETRIEVAL_LIMIT" envDefault:"100"`

	// DefaultNumAds and MaxNumAds bound how many ads a request may receive.
	DefaultNumAds int `env:"DEFAULT_NUM_ADS" envDefault:"1"`
	MaxNumAds     int `env:"MAX_NUM_ADS" envDefault:"10"`

	// DefaultPCTR/DefaultPCVR are the scores used when no scorer is
	// deployed or the scorer fails.
	DefaultPCTR float64 `env:"DEFAULT_PCTR" envDefault:"0.01"`
	DefaultPCVR float64 `env:"DEFAULT_PCVR" envDefault:"0.001"`

	// UseRefererTargeting falls back to the Referer header for page/domain
	// targeting when a request carries no page URL.
	UseRefererTargeting bool `env:"USE_REFERER_TARGETING" envDefault:"true"`
}
