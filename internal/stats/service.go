// Package stats serves match statistics over a match source and a roster,
// caching the match-level bundle for a short TTL.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
)

// DefaultTTL is how long a computed bundle is reused.
const DefaultTTL = 5 * time.Minute

// MatchSource supplies every saved match for the current user.
type MatchSource interface {
	GetAllMatches(ctx context.Context) ([]model.MatchRecord, error)
}

// RosterSource supplies the current roster.
type RosterSource interface {
	GetRoster(ctx context.Context) ([]model.RosterPlayer, error)
}

// MatchSourceFunc adapts a function to MatchSource.
type MatchSourceFunc func(ctx context.Context) ([]model.MatchRecord, error)

func (f MatchSourceFunc) GetAllMatches(ctx context.Context) ([]model.MatchRecord, error) {
	return f(ctx)
}

// Options configures a Service. Zero values pick the defaults.
type Options struct {
	TTL    time.Duration
	Now    func() time.Time
	Logger zerolog.Logger
}

// Service computes statistics on demand. Match statistics are cached;
// player statistics are always recomputed.
type Service struct {
	matches MatchSource
	roster  RosterSource
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger

	mu             sync.Mutex
	cached         *aggregator.MatchStatistics
	cachedIssues   []aggregator.ScoreIssue
	lastCalculated time.Time
	// generation is bumped by Invalidate; a load that started under an
	// older generation does not write its result back.
	generation uint64
}

// NewService builds a Service. roster may be nil when player statistics are
// not needed.
func NewService(matches MatchSource, roster RosterSource, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		matches: matches,
		roster:  roster,
		ttl:     opts.TTL,
		now:     opts.Now,
		log:     opts.Logger,
	}
}

// GetStatistics returns the cached bundle while it is younger than the TTL,
// otherwise reads the source once and recomputes. Concurrent callers that
// miss the cache may each recompute; the last one to finish wins unless the
// cache was invalidated while it was loading.
func (s *Service) GetStatistics(ctx context.Context, forceRefresh bool) (*aggregator.MatchStatistics, error) {
	st, _, err := s.statistics(ctx, forceRefresh)
	return st, err
}

// statistics returns the bundle together with the score issues of the match
// list it was computed from.
func (s *Service) statistics(ctx context.Context, forceRefresh bool) (*aggregator.MatchStatistics, []aggregator.ScoreIssue, error) {
	s.mu.Lock()
	if !forceRefresh && s.cached != nil && s.now().Sub(s.lastCalculated) < s.ttl {
		cached, issues := s.cached, s.cachedIssues
		s.mu.Unlock()
		return cached, issues, nil
	}
	gen := s.generation
	s.mu.Unlock()

	matches := s.loadMatches(ctx)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	result := aggregator.CalculateMatchStatistics(matches)
	issues := aggregator.ScoreIssues(matches)

	s.mu.Lock()
	stored := s.generation == gen
	if stored {
		s.cached = result
		s.cachedIssues = issues
		s.lastCalculated = s.now()
	}
	s.mu.Unlock()

	s.log.Debug().Int("matches", result.TotalMatches).Bool("cached", stored).Msg("statistics recalculated")
	return result, issues, nil
}

// GetStatisticsForPeriod computes an uncached bundle over the matches saved
// within period.
func (s *Service) GetStatisticsForPeriod(ctx context.Context, period aggregator.Period) (*aggregator.MatchStatistics, error) {
	if period == aggregator.PeriodAll || period == "" {
		return s.GetStatistics(ctx, false)
	}
	matches := s.loadMatches(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return aggregator.CalculateMatchStatistics(aggregator.FilterByPeriod(matches, period, s.now())), nil
}

// CalculatePlayerStatistics cross-references the roster with every saved match.
func (s *Service) CalculatePlayerStatistics(ctx context.Context) (aggregator.PlayerStatistics, error) {
	var roster []model.RosterPlayer
	if s.roster != nil {
		r, err := s.roster.GetRoster(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("load roster failed; using an empty roster")
		}
		roster = r
	}
	matches := s.loadMatches(ctx)
	if err := ctx.Err(); err != nil {
		return aggregator.PlayerStatistics{}, err
	}
	return aggregator.CalculatePlayerStatistics(roster, matches), nil
}

// Invalidate drops the cached bundle so the next call recomputes.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.cachedIssues = nil
	s.lastCalculated = time.Time{}
	s.generation++
	s.mu.Unlock()
}

// loadMatches never fails: source errors are logged and treated as no data.
func (s *Service) loadMatches(ctx context.Context) []model.MatchRecord {
	matches, err := s.matches.GetAllMatches(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("load matches failed; using an empty match list")
		return nil
	}
	for _, issue := range aggregator.ScoreIssues(matches) {
		s.log.Warn().Int("index", issue.Index).Str("opponent", issue.Opponent).
			Str("field", issue.Field).Str("raw", issue.Raw).Msg("unparseable score treated as 0")
	}
	return matches
}
