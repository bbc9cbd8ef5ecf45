package usecase

import (
	"context"
	"log/slog"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
	"adpipe/internal/metrics"
)

// AdService runs the decision pipeline: retrieval through the campaign
// cache, admission control against spend/frequency state, then pricing and
// ranking. It implements port.AdUseCase.
type AdService struct {
	cache     *CampaignCache
	retriever *Retriever
	admission *Admission
	ranker    *Ranker
	logger    *slog.Logger

	defaultNumAds  int
	maxNumAds      int
	retrievalLimit int
}

var _ port.AdUseCase = (*AdService)(nil)

// AdServiceConfig bounds request-level parameters.
type AdServiceConfig struct {
	DefaultNumAds  int
	MaxNumAds      int
	RetrievalLimit int
}

// NewAdService wires the pipeline stages together.
func NewAdService(cache *CampaignCache, retriever *Retriever, admission *Admission, ranker *Ranker, cfg AdServiceConfig, logger *slog.Logger) *AdService {
	return &AdService{
		cache:          cache,
		retriever:      retriever,
		admission:      admission,
		ranker:         ranker,
		logger:         logger,
		defaultNumAds:  cfg.DefaultNumAds,
		maxNumAds:      cfg.MaxNumAds,
		retrievalLimit: cfg.RetrievalLimit,
	}
}

// ServeAds produces at most req.NumAds decisions for the slot. An empty
// result means no fill; it is never an error.
func (s *AdService) ServeAds(ctx context.Context, req port.AdRequest) ([]port.Decision, error) {
	metrics.AdRequests.Inc()

	numAds := req.NumAds
	if numAds <= 0 {
		numAds = s.defaultNumAds
	}
	if numAds > s.maxNumAds {
		numAds = s.maxNumAds
	}

	candidates, err := s.retriever.Retrieve(ctx, req.User, req.SlotID, s.retrievalLimit)
	if err != nil {
		return nil, err
	}

	admitted, err := s.admission.Filter(ctx, req.User, candidates)
	if err != nil {
		return nil, err
	}

	ranked := s.ranker.Rank(ctx, req.User, admitted, numAds)
	if len(ranked) == 0 {
		metrics.NoFill.Inc()
		s.logger.Debug("no fill",
			slog.String("request_id", req.RequestID),
			slog.String("slot_id", req.SlotID))
		return nil, nil
	}

	decisions := make([]port.Decision, 0, len(ranked))
	for _, candidate := range ranked {
		decisions = append(decisions, port.Decision{
			AdID:       domain.FormatAdID(candidate.CampaignID, candidate.CreativeID),
			CampaignID: candidate.CampaignID,
			CreativeID: candidate.CreativeID,
			ECPM:       candidate.ECPM,
			PCTR:       candidate.PCTR,
			Creative:   candidate.Creative,
		})
	}
	metrics.Decisions.Add(float64(len(decisions)))

	s.logger.Info("ads served",
		slog.String("request_id", req.RequestID),
		slog.String("slot_id", req.SlotID),
		slog.Int("count", len(decisions)))
	return decisions, nil
}

// InvalidateCampaigns drops the cached snapshot; the next retrieval rebuilds
// it from the system of record.
func (s *AdService) InvalidateCampaigns(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
