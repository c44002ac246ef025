package stats

import (
	"context"
	"time"

	"github.com/pable/go-match-stats/internal/aggregator"
)

// Export is the downloadable snapshot of everything the service computes.
type Export struct {
	ExportedAt  time.Time                   `json:"exportedAt"`
	Statistics  *aggregator.MatchStatistics `json:"statistics"`
	Players     aggregator.PlayerStatistics `json:"players"`
	DataQuality []aggregator.ScoreIssue     `json:"dataQuality"`
}

// ExportStatistics bundles the (possibly cached) match statistics with fresh
// player statistics and the score data-quality issues of the matches the
// statistics were computed from.
func (s *Service) ExportStatistics(ctx context.Context) (*Export, error) {
	st, found, err := s.statistics(ctx, false)
	if err != nil {
		return nil, err
	}
	players, err := s.CalculatePlayerStatistics(ctx)
	if err != nil {
		return nil, err
	}

	// Issues come from the same match list as st.
	issues := []aggregator.ScoreIssue{}
	if found != nil {
		issues = found
	}
	return &Export{
		ExportedAt:  s.now().UTC(),
		Statistics:  st,
		Players:     players,
		DataQuality: issues,
	}, nil
}
