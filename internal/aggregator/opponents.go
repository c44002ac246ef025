package aggregator

import (
	"sort"

	"github.com/pable/go-match-stats/internal/model"
)

// MinMeetingsForRecord is how many meetings an opponent needs before it can be
// ranked as best or worst record.
const MinMeetingsForRecord = 2

// OpponentRecord is our record against one opponent.
type OpponentRecord struct {
	Name         string `json:"name"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
}

// WinRatio is wins/played, 0 for an unplayed opponent.
func (o OpponentRecord) WinRatio() float64 {
	return ratio(o.Wins, o.Played)
}

// OpponentStats groups matches by opponent.
type OpponentStats struct {
	Opponents   []OpponentRecord `json:"opponents"` // most played first
	MostPlayed  *OpponentRecord  `json:"mostPlayed"`
	BestRecord  *OpponentRecord  `json:"bestRecord"`
	WorstRecord *OpponentRecord  `json:"worstRecord"`
}

func emptyOpponents() OpponentStats {
	return OpponentStats{Opponents: []OpponentRecord{}}
}

// CalculateOpponentStats groups matches by team2Name ("Unknown" when blank).
func CalculateOpponentStats(matches []model.MatchRecord) OpponentStats {
	// Index into a slice so first-seen order survives for tie-breaking.
	index := make(map[string]int)
	var records []OpponentRecord
	for _, m := range matches {
		name := m.Opponent()
		i, ok := index[name]
		if !ok {
			i = len(records)
			index[name] = i
			records = append(records, OpponentRecord{Name: name})
		}
		rec := &records[i]
		ours, theirs := m.Scores()
		rec.Played++
		rec.GoalsFor += ours
		rec.GoalsAgainst += theirs
		switch model.ClassifyResult(ours, theirs) {
		case model.Win:
			rec.Wins++
		case model.Draw:
			rec.Draws++
		default:
			rec.Losses++
		}
	}

	os := emptyOpponents()
	if len(records) == 0 {
		return os
	}

	// Ranked candidates are taken in first-seen order, before the played sort.
	var ranked []OpponentRecord
	for _, r := range records {
		if r.Played >= MinMeetingsForRecord {
			ranked = append(ranked, r)
		}
	}
	if len(ranked) > 0 {
		best := append([]OpponentRecord(nil), ranked...)
		sort.SliceStable(best, func(i, j int) bool { return best[i].WinRatio() > best[j].WinRatio() })
		b := best[0]
		os.BestRecord = &b

		worst := append([]OpponentRecord(nil), ranked...)
		sort.SliceStable(worst, func(i, j int) bool { return worst[i].WinRatio() < worst[j].WinRatio() })
		w := worst[0]
		os.WorstRecord = &w
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Played > records[j].Played })
	os.Opponents = records
	mp := records[0]
	os.MostPlayed = &mp
	return os
}
