package aggregator

import "github.com/pable/go-match-stats/internal/model"

// OverviewStats is the season-level summary for our team.
type OverviewStats struct {
	TotalMatches      int    `json:"totalMatches"`
	Wins              int    `json:"wins"`
	Draws             int    `json:"draws"`
	Losses            int    `json:"losses"`
	WinRate           int    `json:"winRate"` // whole percent
	TotalGoalsFor     int    `json:"totalGoalsFor"`
	TotalGoalsAgainst int    `json:"totalGoalsAgainst"`
	AvgGoalsFor       string `json:"avgGoalsFor"` // one decimal, e.g. "1.3"
	AvgGoalsAgainst   string `json:"avgGoalsAgainst"`
	AvgDuration       int    `json:"avgDuration"` // whole minutes
	GoalDifference    int    `json:"goalDifference"`
}

func emptyOverview() OverviewStats {
	return OverviewStats{AvgGoalsFor: "0.0", AvgGoalsAgainst: "0.0"}
}

// CalculateOverviewStats computes win/draw/loss counts, goal totals and
// averages in a single pass. Unparseable scores count as 0.
func CalculateOverviewStats(matches []model.MatchRecord) OverviewStats {
	if len(matches) == 0 {
		return emptyOverview()
	}

	var ov OverviewStats
	totalDuration := 0
	for _, m := range matches {
		ours, theirs := m.Scores()
		switch model.ClassifyResult(ours, theirs) {
		case model.Win:
			ov.Wins++
		case model.Draw:
			ov.Draws++
		default:
			ov.Losses++
		}
		ov.TotalGoalsFor += ours
		ov.TotalGoalsAgainst += theirs
		totalDuration += m.Duration()
	}

	n := len(matches)
	ov.TotalMatches = n
	ov.WinRate = roundHalfUp(ratio(ov.Wins, n) * 100)
	ov.AvgGoalsFor = toFixed(ratio(ov.TotalGoalsFor, n), 1)
	ov.AvgGoalsAgainst = toFixed(ratio(ov.TotalGoalsAgainst, n), 1)
	ov.AvgDuration = roundHalfUp(ratio(totalDuration, n) / 60)
	ov.GoalDifference = ov.TotalGoalsFor - ov.TotalGoalsAgainst
	return ov
}
