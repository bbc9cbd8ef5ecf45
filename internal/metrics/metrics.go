// Package metrics holds the prometheus instruments of the decision pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdRequests counts slot requests entering the pipeline.
	AdRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpipe_ad_requests_total",
		Help: "Number of ad requests received.",
	})

	// Decisions counts ads returned to callers.
	Decisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpipe_decisions_total",
		Help: "Number of ad decisions served.",
	})

	// NoFill counts requests that returned no ads.
	NoFill = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpipe_no_fill_total",
		Help: "Number of ad requests with no eligible ad.",
	})

	// CampaignCacheHits/Misses track the snapshot cache layers.
	CampaignCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adpipe_campaign_cache_hits_total",
		Help: "Campaign snapshot cache hits by layer.",
	}, []string{"layer"})

	CampaignCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpipe_campaign_cache_misses_total",
		Help: "Campaign snapshot rebuilds from the system of record.",
	})

	// EventsTracked counts accepted events by type.
	EventsTracked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adpipe_events_tracked_total",
		Help: "Number of successfully tracked events by type.",
	}, []string{"type"})

	// EventsRejected counts tracking calls that failed validation or storage.
	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adpipe_events_rejected_total",
		Help: "Number of rejected event tracking calls by reason.",
	}, []string{"reason"})
)
