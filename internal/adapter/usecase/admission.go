package usecase

import (
	"context"
	"log/slog"
	"time"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
)

// Admission filters candidates by remaining budget and frequency caps. It is
// deliberately separate from targeting: it reads shared mutable state (spend
// and frequency counters) that the event ledger writes.
type Admission struct {
	repo   port.AdRepository
	kv     port.KVStore
	logger *slog.Logger
}

// NewAdmission constructs the admission controller.
func NewAdmission(repo port.AdRepository, kv port.KVStore, logger *slog.Logger) *Admission {
	return &Admission{repo: repo, kv: kv, logger: logger}
}

// Filter drops candidates whose campaign exhausted a budget or whose
// (user, campaign) pair hit a frequency cap. Budgets are checked against
// committed store values, not the snapshot cache, so the check lags the
// ledger by at most one in-flight event. House ads bypass budget checks but
// still honor frequency caps. A counter-store failure fails open on
// frequency rather than blocking serving.
func (a *Admission) Filter(ctx context.Context, user domain.UserContext, candidates []domain.AdCandidate) ([]domain.AdCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	spends, err := a.fetchSpends(ctx, candidates)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	freqSeen := make(map[int64]bool, len(candidates))
	admitted := make([]domain.AdCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		if !candidate.IsHouseAd {
			spend, ok := spends[candidate.CampaignID]
			if !ok {
				// Campaign gone from the store; stale snapshot entry.
				continue
			}
			if spend.OverDailyBudget() || spend.OverTotalBudget() {
				a.logger.Debug("budget exhausted",
					slog.Int64("campaign_id", candidate.CampaignID))
				continue
			}
		}

		if user.UserID != "" && (candidate.FreqCapDaily > 0 || candidate.FreqCapHourly > 0) {
			if freqSeen[candidate.CampaignID] {
				continue
			}
			if a.overFrequencyCap(ctx, user.UserID, candidate, now) {
				freqSeen[candidate.CampaignID] = true
				continue
			}
		}

		admitted = append(admitted, candidate)
	}
	return admitted, nil
}

func (a *Admission) fetchSpends(ctx context.Context, candidates []domain.AdCandidate) (map[int64]domain.CampaignSpend, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, c := range candidates {
		if c.IsHouseAd || seen[c.CampaignID] {
			continue
		}
		seen[c.CampaignID] = true
		ids = append(ids, c.CampaignID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return a.repo.GetSpends(ctx, ids)
}

// overFrequencyCap checks the rolling daily and hourly counters. A cap of
// zero means uncapped.
func (a *Admission) overFrequencyCap(ctx context.Context, userID string, candidate domain.AdCandidate, now time.Time) bool {
	if candidate.FreqCapDaily > 0 {
		count, err := a.kv.GetCounter(ctx, freqDailyKey(userID, candidate.CampaignID, now))
		if err != nil {
			a.logger.Warn("frequency counter read failed", slog.Any("error", err))
		} else if count >= int64(candidate.FreqCapDaily) {
			return true
		}
	}
	if candidate.FreqCapHourly > 0 {
		count, err := a.kv.GetCounter(ctx, freqHourlyKey(userID, candidate.CampaignID, now))
		if err != nil {
			a.logger.Warn("frequency counter read failed", slog.Any("error", err))
		} else if count >= int64(candidate.FreqCapHourly) {
			return true
		}
	}
	return false
}
