// Package scorer provides Scorer port implementations.
package scorer

import (
	"context"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
)

// Static returns fixed CTR/CVR predictions. It stands in when no ML scorer
// is deployed; ranking also falls back to these values when a real scorer
// errors out.
type Static struct {
	PCTR float64
	PCVR float64
}

var _ port.Scorer = Static{}

func (s Static) Predict(context.Context, domain.AdCandidate, domain.UserContext) (float64, float64, error) {
	return s.PCTR, s.PCVR, nil
}
