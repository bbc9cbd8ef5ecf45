package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
	"adpipe/internal/metrics"
)

// Counter expiries: hourly stats are kept for two days for reporting;
// frequency counters expire with their window so caps self-reset.
const (
	statTTL       = 48 * time.Hour
	freqDailyTTL  = 24 * time.Hour
	freqHourlyTTL = time.Hour
)

// EventLedger ingests tracked events: it classifies the event, computes
// cost per the campaign's pricing model, persists the event together with
// the spend update and bumps the stat/frequency counters the admission
// controller reads. It implements port.EventUseCase.
type EventLedger struct {
	repo   port.AdRepository
	kv     port.KVStore
	logger *slog.Logger
}

var _ port.EventUseCase = (*EventLedger)(nil)

// NewEventLedger constructs the ledger.
func NewEventLedger(repo port.AdRepository, kv port.KVStore, logger *slog.Logger) *EventLedger {
	return &EventLedger{repo: repo, kv: kv, logger: logger}
}

// Track records one event. It returns false for unparseable ad ids,
// unrecognized event types and store write failures; in the failure cases
// no billing state is mutated. A missing campaign yields a zero-cost event
// that is still persisted, since events must survive stale campaign data.
func (l *EventLedger) Track(ctx context.Context, req port.TrackRequest) bool {
	// Billing writes run to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	campaignID, creativeID, err := domain.ParseAdID(req.AdID)
	if err != nil {
		l.logger.Warn("invalid ad id", slog.String("ad_id", req.AdID))
		metrics.EventsRejected.WithLabelValues("bad_ad_id").Inc()
		return false
	}

	eventType, ok := domain.ParseEventType(req.EventType)
	if !ok {
		l.logger.Warn("unknown event type", slog.String("event_type", req.EventType))
		metrics.EventsRejected.WithLabelValues("bad_event_type").Inc()
		return false
	}

	eventTime := req.Timestamp
	if eventTime.IsZero() {
		eventTime = time.Now().UTC()
	}

	cost := l.eventCost(ctx, campaignID, eventType)

	event := domain.AdEvent{
		RequestID:  req.RequestID,
		CampaignID: campaignID,
		CreativeID: creativeID,
		Type:       eventType,
		UserID:     req.UserID,
		EventTime:  eventTime,
		Cost:       cost,
	}
	if err := l.repo.InsertEvent(ctx, event); err != nil {
		l.logger.Error("event write failed",
			slog.String("request_id", req.RequestID), slog.Any("error", err))
		metrics.EventsRejected.WithLabelValues("store").Inc()
		return false
	}

	l.updateStats(ctx, campaignID, eventType, eventTime)
	if eventType == domain.EventImpression && req.UserID != "" {
		l.updateFrequency(ctx, req.UserID, campaignID, eventTime)
	}

	metrics.EventsTracked.WithLabelValues(string(eventType)).Inc()
	l.logger.Info("event tracked",
		slog.String("request_id", req.RequestID),
		slog.Int64("campaign_id", campaignID),
		slog.String("event_type", string(eventType)))
	return true
}

// GetStats aggregates tracked events over a period.
func (l *EventLedger) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	return l.repo.GetStats(ctx, req)
}

// ClickThrough tracks a click for the given ad and returns the creative's
// landing URL for redirection.
func (l *EventLedger) ClickThrough(ctx context.Context, requestID, adID string) (string, error) {
	_, creativeID, err := domain.ParseAdID(adID)
	if err != nil {
		return "", err
	}
	l.Track(ctx, port.TrackRequest{
		RequestID: requestID,
		AdID:      adID,
		EventType: string(domain.EventClick),
	})
	creative, err := l.repo.GetCreative(ctx, creativeID)
	if err != nil {
		return "", err
	}
	return creative.LandingURL, nil
}

// eventCost looks up the campaign and applies the pure cost function. An
// absent campaign is a data-quality condition: the event still gets
// persisted at zero cost.
func (l *EventLedger) eventCost(ctx context.Context, campaignID int64, eventType domain.EventType) decimal.Decimal {
	campaign, err := l.repo.GetCampaign(ctx, campaignID)
	if errors.Is(err, port.ErrCampaignNotFound) {
		l.logger.Warn("campaign not found for cost calculation",
			slog.Int64("campaign_id", campaignID))
		return decimal.Zero
	}
	if err != nil {
		l.logger.Warn("campaign lookup failed, charging zero",
			slog.Int64("campaign_id", campaignID), slog.Any("error", err))
		return decimal.Zero
	}
	return domain.EventCost(campaign.BidType, eventType, campaign.BidAmount, campaign.IsHouseAd)
}

func (l *EventLedger) updateStats(ctx context.Context, campaignID int64, eventType domain.EventType, t time.Time) {
	field := statField(eventType)
	if err := l.kv.HIncrWithExpiry(ctx, statHourlyKey(campaignID, t), field, 1, statTTL); err != nil {
		l.logger.Warn("stat counter update failed", slog.Any("error", err))
	}
}

func (l *EventLedger) updateFrequency(ctx context.Context, userID string, campaignID int64, t time.Time) {
	if _, err := l.kv.IncrWithExpiry(ctx, freqDailyKey(userID, campaignID, t), 1, freqDailyTTL); err != nil {
		l.logger.Warn("frequency counter update failed", slog.Any("error", err))
	}
	if _, err := l.kv.IncrWithExpiry(ctx, freqHourlyKey(userID, campaignID, t), 1, freqHourlyTTL); err != nil {
		l.logger.Warn("frequency counter update failed", slog.Any("error", err))
	}
}

func statField(eventType domain.EventType) string {
	switch eventType {
	case domain.EventClick:
		return "clicks"
	case domain.EventConversion:
		return "conversions"
	default:
		return "impressions"
	}
}
