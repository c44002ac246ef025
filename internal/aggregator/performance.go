package aggregator

import (
	"sort"

	"github.com/pable/go-match-stats/internal/model"
)

// FormWindow is the number of most recent matches in the form string.
const FormWindow = 10

// VenueRecord is a win/draw/loss split for home or away matches.
type VenueRecord struct {
	Played  int `json:"played"`
	Wins    int `json:"wins"`
	Draws   int `json:"draws"`
	Losses  int `json:"losses"`
	WinRate int `json:"winRate"`
}

// PerformanceStats describes recent form and the home/away split.
type PerformanceStats struct {
	RecentForm    []model.Result `json:"recentForm"` // oldest first
	CurrentStreak int            `json:"currentStreak"`
	StreakType    *model.Result  `json:"streakType"`
	HomeRecord    VenueRecord    `json:"homeRecord"`
	AwayRecord    VenueRecord    `json:"awayRecord"`
}

func emptyPerformance() PerformanceStats {
	return PerformanceStats{RecentForm: []model.Result{}}
}

// CalculatePerformanceStats computes the last-10 form, the streak ending at the
// most recent match, and home/away records over the full list.
func CalculatePerformanceStats(matches []model.MatchRecord) PerformanceStats {
	if len(matches) == 0 {
		return emptyPerformance()
	}

	ordered := Chronological(matches)
	window := ordered
	if len(window) > FormWindow {
		window = window[len(window)-FormWindow:]
	}

	ps := emptyPerformance()
	for _, m := range window {
		ps.RecentForm = append(ps.RecentForm, m.Result())
	}

	// Streak: walk back from the latest result while it repeats.
	last := ps.RecentForm[len(ps.RecentForm)-1]
	for i := len(ps.RecentForm) - 1; i >= 0 && ps.RecentForm[i] == last; i-- {
		ps.CurrentStreak++
	}
	ps.StreakType = &last

	var home, away []model.MatchRecord
	for _, m := range matches {
		if m.IsAway() {
			away = append(away, m)
		} else {
			home = append(home, m)
		}
	}
	ps.HomeRecord = venueRecord(home)
	ps.AwayRecord = venueRecord(away)
	return ps
}

func venueRecord(matches []model.MatchRecord) VenueRecord {
	var r VenueRecord
	for _, m := range matches {
		switch m.Result() {
		case model.Win:
			r.Wins++
		case model.Draw:
			r.Draws++
		default:
			r.Losses++
		}
	}
	r.Played = len(matches)
	r.WinRate = roundHalfUp(ratio(r.Wins, r.Played) * 100)
	return r
}

// Chronological returns a copy of matches ordered oldest first by savedAt.
// When any record lacks savedAt the input order is kept, since the tracker
// appends records in the order they were saved.
func Chronological(matches []model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, len(matches))
	copy(out, matches)
	for _, m := range out {
		if m.SavedAt == 0 {
			return out
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt < out[j].SavedAt })
	return out
}
