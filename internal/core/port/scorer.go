package port

import (
	"context"

	"adpipe/internal/core/domain"
)

// Scorer is the external CTR/CVR prediction collaborator. It may be absent
// or unavailable; ranking degrades to configured default scores on any error
// and never blocks serving on it.
type Scorer interface {
	Predict(ctx context.Context, candidate domain.AdCandidate, user domain.UserContext) (pctr, pcvr float64, err error)
}
