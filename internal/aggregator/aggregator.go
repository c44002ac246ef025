// Package aggregator turns a list of saved match records into overview, form,
// opponent, goal and player statistics. Every function here is pure: inputs
// are never modified and results are freshly allocated.
package aggregator

import (
	"fmt"
	"time"

	"github.com/pable/go-match-stats/internal/model"
)

// MatchStatistics is the combined match-level bundle.
type MatchStatistics struct {
	Overview     OverviewStats    `json:"overview"`
	Performance  PerformanceStats `json:"performance"`
	Opponents    OpponentStats    `json:"opponents"`
	Goals        GoalStats        `json:"goals"`
	TotalMatches int              `json:"totalMatches"`
}

// IsEmpty reports whether the bundle was built from no matches.
func (s *MatchStatistics) IsEmpty() bool {
	return s == nil || s.TotalMatches == 0
}

// EmptyStatistics returns the bundle for an empty match list.
func EmptyStatistics() *MatchStatistics {
	return &MatchStatistics{
		Overview:    emptyOverview(),
		Performance: emptyPerformance(),
		Opponents:   emptyOpponents(),
		Goals:       emptyGoals(),
	}
}

// CalculateMatchStatistics runs the overview, performance, opponent and goal
// aggregators over the same list.
func CalculateMatchStatistics(matches []model.MatchRecord) *MatchStatistics {
	if len(matches) == 0 {
		return EmptyStatistics()
	}
	return &MatchStatistics{
		Overview:     CalculateOverviewStats(matches),
		Performance:  CalculatePerformanceStats(matches),
		Opponents:    CalculateOpponentStats(matches),
		Goals:        CalculateGoalStats(matches),
		TotalMatches: len(matches),
	}
}

// Period selects a recency window over savedAt.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty means all.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (want all, today, week or month)", s)
	}
}

// FilterByPeriod keeps the matches saved within the period ending at now.
// "today" starts at local midnight, "week" and "month" are rolling 7 and 30
// days. Records without savedAt only survive PeriodAll.
func FilterByPeriod(matches []model.MatchRecord, period Period, now time.Time) []model.MatchRecord {
	if period == PeriodAll || period == "" {
		out := make([]model.MatchRecord, len(matches))
		copy(out, matches)
		return out
	}

	var since time.Time
	switch period {
	case PeriodToday:
		y, m, d := now.Date()
		since = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		since = now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		since = now.Add(-30 * 24 * time.Hour)
	}

	out := []model.MatchRecord{}
	for _, m := range matches {
		if m.SavedAt == 0 {
			continue
		}
		if !m.SavedTime().Before(since) {
			out = append(out, m)
		}
	}
	return out
}

// ScoreIssue flags a record whose score was replaced by 0.
type ScoreIssue struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Opponent string `json:"opponent"`
	Field    string `json:"field"` // score1 or score2
	Raw      string `json:"raw"`
}

func (i ScoreIssue) String() string {
	return fmt.Sprintf("match #%d vs %s: %s %q treated as 0", i.Index, i.Opponent, i.Field, i.Raw)
}

// ScoreIssues lists every score that could not be parsed, so corrupt data can
// be told apart from a genuine 0-0.
func ScoreIssues(matches []model.MatchRecord) []ScoreIssue {
	var issues []ScoreIssue
	for i, m := range matches {
		for _, f := range []struct {
			name  string
			score model.Score
		}{{"score1", m.Score1}, {"score2", m.Score2}} {
			if f.score.Defaulted() {
				issues = append(issues, ScoreIssue{
					Index:    i,
					ID:       m.ID,
					Opponent: m.Opponent(),
					Field:    f.name,
					Raw:      string(f.score),
				})
			}
		}
	}
	return issues
}
