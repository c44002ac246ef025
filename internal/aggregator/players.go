package aggregator

import (
	"sort"

	"github.com/pable/go-match-stats/internal/model"
)

// Appearance is one match a roster player attended.
type Appearance struct {
	Date     string       `json:"date"` // YYYY-MM-DD from savedAt, empty when unknown
	Opponent string       `json:"opponent"`
	Result   model.Result `json:"result"`
}

// PlayerRecord is a roster player's season line.
type PlayerRecord struct {
	Name            string       `json:"name"`
	ShirtNumber     *int         `json:"shirtNumber"`
	MatchesPlayed   int          `json:"matchesPlayed"`
	Goals           int          `json:"goals"`
	Assists         int          `json:"assists"`
	Penalties       int          `json:"penalties"`
	Appearances     []Appearance `json:"appearances"`
	GoalsPerMatch   string       `json:"goalsPerMatch"`
	AssistsPerMatch string       `json:"assistsPerMatch"`
}

// PlayerStatistics is the per-player table plus headline players.
type PlayerStatistics struct {
	Players         []PlayerRecord `json:"players"`
	TopScorer       *PlayerRecord  `json:"topScorer"`
	TopAssister     *PlayerRecord  `json:"topAssister"`
	MostAppearances *PlayerRecord  `json:"mostAppearances"`
	TotalPlayers    int            `json:"totalPlayers"`
}

// CalculatePlayerStatistics cross-references the roster with attendance and
// goal records. Names are matched exactly; unknown names are ignored.
func CalculatePlayerStatistics(roster []model.RosterPlayer, matches []model.MatchRecord) PlayerStatistics {
	index := make(map[string]int, len(roster))
	records := make([]PlayerRecord, 0, len(roster))
	for _, p := range roster {
		if _, dup := index[p.Name]; dup {
			continue
		}
		index[p.Name] = len(records)
		records = append(records, PlayerRecord{
			Name:        p.Name,
			ShirtNumber: p.ShirtNumber,
			Appearances: []Appearance{},
		})
	}
	lookup := func(name string) *PlayerRecord {
		if i, ok := index[name]; ok {
			return &records[i]
		}
		return nil
	}

	for _, m := range matches {
		result := m.Result()
		date := ""
		if t := m.SavedTime(); !t.IsZero() {
			date = t.UTC().Format("2006-01-02")
		}
		for _, a := range m.Attendance {
			if !a.Attending {
				continue
			}
			if p := lookup(a.PlayerName); p != nil {
				p.MatchesPlayed++
				p.Appearances = append(p.Appearances, Appearance{
					Date:     date,
					Opponent: m.Opponent(),
					Result:   result,
				})
			}
		}

		for _, g := range m.Goals {
			if g.Team != model.SideFirst {
				continue
			}
			if g.Scorer != "" && g.Scorer != model.OwnGoal {
				if p := lookup(g.Scorer); p != nil {
					p.Goals++
					if g.Type == model.Penalty {
						p.Penalties++
					}
				}
			}
			if creditsAssist(g.Assist) {
				if p := lookup(g.Assist); p != nil {
					p.Assists++
				}
			}
		}
	}

	players := make([]PlayerRecord, 0, len(records))
	for _, p := range records {
		if p.MatchesPlayed == 0 && p.Goals == 0 && p.Assists == 0 {
			continue
		}
		p.GoalsPerMatch, p.AssistsPerMatch = "0.00", "0.00"
		if p.MatchesPlayed > 0 {
			p.GoalsPerMatch = toFixed(ratio(p.Goals, p.MatchesPlayed), 2)
			p.AssistsPerMatch = toFixed(ratio(p.Assists, p.MatchesPlayed), 2)
		}
		players = append(players, p)
	}
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		if a.Assists != b.Assists {
			return a.Assists > b.Assists
		}
		return a.MatchesPlayed > b.MatchesPlayed
	})

	ps := PlayerStatistics{Players: players, TotalPlayers: len(players)}
	// Headline players come from the goals-first order; topAssister is not
	// re-sorted by assists.
	for i := range players {
		p := players[i]
		if ps.TopScorer == nil && p.Goals > 0 {
			ps.TopScorer = &p
		}
		if ps.TopAssister == nil && p.Assists > 0 {
			ps.TopAssister = &p
		}
		if ps.MostAppearances == nil || p.MatchesPlayed > ps.MostAppearances.MatchesPlayed {
			ps.MostAppearances = &p
		}
	}
	if ps.MostAppearances != nil && ps.MostAppearances.MatchesPlayed == 0 {
		ps.MostAppearances = nil
	}
	return ps
}
