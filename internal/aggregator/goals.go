package aggregator

import (
	"sort"

	"github.com/pable/go-match-stats/internal/model"
)

// TopListSize caps the top scorer and top assister lists.
const TopListSize = 10

// TimelineBuckets are the goal-minute windows, in display order.
var TimelineBuckets = []string{"0-15", "16-30", "31-45", "46-60", "61-75", "76-90+"}

// ScorerRecord is one name's contribution to our goals.
type ScorerRecord struct {
	Name      string `json:"name"`
	Goals     int    `json:"goals"`
	Assists   int    `json:"assists"`
	Penalties int    `json:"penalties"`
}

// GoalStats describes when and by whom our goals were scored.
type GoalStats struct {
	Timeline         map[string]int `json:"timeline"`
	TotalGoals       int            `json:"totalGoals"`
	Penalties        int            `json:"penalties"`
	OwnGoals         int            `json:"ownGoals"`
	AvgGoalsPerMatch string         `json:"avgGoalsPerMatch"`
	TopScorers       []ScorerRecord `json:"topScorers"`
	TopAssisters     []ScorerRecord `json:"topAssisters"`
	UniqueScorers    int            `json:"uniqueScorers"`
}

func emptyTimeline() map[string]int {
	tl := make(map[string]int, len(TimelineBuckets))
	for _, b := range TimelineBuckets {
		tl[b] = 0
	}
	return tl
}

func emptyGoals() GoalStats {
	return GoalStats{
		Timeline:         emptyTimeline(),
		AvgGoalsPerMatch: "0.0",
		TopScorers:       []ScorerRecord{},
		TopAssisters:     []ScorerRecord{},
	}
}

// bucketFor maps a goal minute onto its timeline window. Upper bounds are inclusive.
func bucketFor(minute int) string {
	switch {
	case minute <= 15:
		return "0-15"
	case minute <= 30:
		return "16-30"
	case minute <= 45:
		return "31-45"
	case minute <= 60:
		return "46-60"
	case minute <= 75:
		return "61-75"
	default:
		return "76-90+"
	}
}

// creditsAssist reports whether an assist value names a player. Only the
// literal "" and "N/A" mean no assist.
func creditsAssist(assist string) bool {
	return assist != "" && assist != model.NoAssist
}

// CalculateGoalStats buckets our goals by minute and builds scorer and
// assister tables. Names need not be on the roster here.
func CalculateGoalStats(matches []model.MatchRecord) GoalStats {
	gs := emptyGoals()

	index := make(map[string]int)
	var scorers []ScorerRecord
	entry := func(name string) *ScorerRecord {
		i, ok := index[name]
		if !ok {
			i = len(scorers)
			index[name] = i
			scorers = append(scorers, ScorerRecord{Name: name})
		}
		return &scorers[i]
	}

	for _, m := range matches {
		for _, g := range m.Goals {
			if g.Team != model.SideFirst {
				continue
			}
			if g.Minute != 0 {
				gs.Timeline[bucketFor(g.Minute)]++
			}

			gs.TotalGoals++
			penalty := g.Type == model.Penalty
			if penalty {
				gs.Penalties++
			}
			switch {
			case g.Scorer == model.OwnGoal:
				gs.OwnGoals++
			default:
				// A blank scorer still gets its own entry.
				s := entry(g.Scorer)
				s.Goals++
				if penalty {
					s.Penalties++
				}
			}
			if creditsAssist(g.Assist) {
				entry(g.Assist).Assists++
			}
		}
	}

	if len(matches) > 0 {
		gs.AvgGoalsPerMatch = toFixed(ratio(gs.TotalGoals, len(matches)), 1)
	}

	top := append([]ScorerRecord(nil), scorers...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Goals > top[j].Goals })
	gs.TopScorers = truncate(top, TopListSize)

	var assisters []ScorerRecord
	for _, s := range scorers {
		if s.Assists > 0 {
			assisters = append(assisters, s)
		}
		if s.Goals > 0 {
			gs.UniqueScorers++
		}
	}
	sort.SliceStable(assisters, func(i, j int) bool { return assisters[i].Assists > assisters[j].Assists })
	gs.TopAssisters = truncate(assisters, TopListSize)
	return gs
}

func truncate(list []ScorerRecord, n int) []ScorerRecord {
	if list == nil {
		return []ScorerRecord{}
	}
	if len(list) > n {
		return list[:n]
	}
	return list
}
