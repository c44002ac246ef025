package aggregator

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/pable/go-match-stats/internal/model"
)

// makeMatch builds a home match against opp with integer scores.
func makeMatch(opp string, ours, theirs int) model.MatchRecord {
	return model.MatchRecord{
		Team1Name: "Our Team",
		Team2Name: opp,
		Score1:    model.NewScore(ours),
		Score2:    model.NewScore(theirs),
		GameTime:  model.DefaultGameTime,
	}
}

// ourGoal builds a first-team goal.
func ourGoal(scorer, assist string, minute int) model.GoalEvent {
	return model.GoalEvent{Team: model.SideFirst, Scorer: scorer, Assist: assist, Minute: minute}
}

func theirGoal(minute int) model.GoalEvent {
	return model.GoalEvent{Team: model.SideSecond, Scorer: "Opponent", Minute: minute}
}

// ---- Formatting ----

func TestToFixed(t *testing.T) {
	cases := []struct {
		x      float64
		digits int
		want   string
	}{
		{0, 1, "0.0"},
		{1, 1, "1.0"},
		{4.0 / 3.0, 1, "1.3"},
		{1.25, 1, "1.3"},
		{0.15, 1, "0.1"}, // 0.1499999... in binary
		{2.5, 0, "3"},
		{2.0 / 3.0, 2, "0.67"},
		{1, 2, "1.00"},
	}
	for _, c := range cases {
		if got := toFixed(c.x, c.digits); got != c.want {
			t.Errorf("toFixed(%v, %d) = %q, want %q", c.x, c.digits, got, c.want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int{0: 0, 33.333: 33, 50: 50, 66.666: 67, 62.5: 63, 0.49: 0}
	for x, want := range cases {
		if got := roundHalfUp(x); got != want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", x, got, want)
		}
	}
}

// ---- Overview ----

// TestOverview_MixedResults: W 2-1, D 0-0, L 1-3.
func TestOverview_MixedResults(t *testing.T) {
	matches := []model.MatchRecord{
		makeMatch("City", 2, 1),
		makeMatch("Rangers", 0, 0),
		makeMatch("United", 1, 3),
	}
	ov := CalculateOverviewStats(matches)

	want := OverviewStats{
		TotalMatches: 3, Wins: 1, Draws: 1, Losses: 1, WinRate: 33,
		TotalGoalsFor: 3, TotalGoalsAgainst: 4,
		AvgGoalsFor: "1.0", AvgGoalsAgainst: "1.3",
		AvgDuration: 70, GoalDifference: -1,
	}
	if ov != want {
		t.Errorf("overview mismatch:\n got  %+v\n want %+v", ov, want)
	}
}

func TestOverview_StringAndCorruptScores(t *testing.T) {
	var m1, m2 model.MatchRecord
	if err := json.Unmarshal([]byte(`{"team2Name":"A","score1":"3","score2":1}`), &m1); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"team2Name":"B","score1":"abc","score2":"2"}`), &m2); err != nil {
		t.Fatal(err)
	}
	ov := CalculateOverviewStats([]model.MatchRecord{m1, m2})
	if ov.TotalGoalsFor != 3 || ov.TotalGoalsAgainst != 3 {
		t.Errorf("goals: got %d-%d, want 3-3", ov.TotalGoalsFor, ov.TotalGoalsAgainst)
	}
	if ov.Wins != 1 || ov.Losses != 1 {
		t.Errorf("expected 1 win and 1 loss, got %+v", ov)
	}

	issues := ScoreIssues([]model.MatchRecord{m1, m2})
	if len(issues) != 1 {
		t.Fatalf("expected 1 score issue, got %d", len(issues))
	}
	if issues[0].Index != 1 || issues[0].Field != "score1" || issues[0].Raw != "abc" {
		t.Errorf("unexpected issue: %+v", issues[0])
	}
}

func TestOverview_AverageDuration(t *testing.T) {
	a := makeMatch("A", 1, 0)
	a.GameTime = 3600
	b := makeMatch("B", 1, 0)
	b.GameTime = 0 // defaults to 4200
	ov := CalculateOverviewStats([]model.MatchRecord{a, b})
	if ov.AvgDuration != 65 {
		t.Errorf("AvgDuration: got %d, want 65", ov.AvgDuration)
	}
}

// TestOverview_GoalsAdditive: totals over A∪B equal the sum over A and B.
func TestOverview_GoalsAdditive(t *testing.T) {
	a := []model.MatchRecord{makeMatch("X", 2, 1), makeMatch("Y", 4, 4)}
	b := []model.MatchRecord{makeMatch("Z", 0, 2), makeMatch("X", 3, 0), makeMatch("W", 1, 1)}
	all := append(append([]model.MatchRecord{}, a...), b...)

	oa, ob, oab := CalculateOverviewStats(a), CalculateOverviewStats(b), CalculateOverviewStats(all)
	if oab.TotalGoalsFor != oa.TotalGoalsFor+ob.TotalGoalsFor {
		t.Errorf("goalsFor not additive: %d != %d + %d", oab.TotalGoalsFor, oa.TotalGoalsFor, ob.TotalGoalsFor)
	}
	if oab.TotalGoalsAgainst != oa.TotalGoalsAgainst+ob.TotalGoalsAgainst {
		t.Errorf("goalsAgainst not additive")
	}
	for _, ov := range []OverviewStats{oa, ob, oab} {
		if ov.Wins+ov.Draws+ov.Losses != ov.TotalMatches {
			t.Errorf("W+D+L != total: %+v", ov)
		}
	}
}

// ---- Empty input ----

func TestEmptyStatistics(t *testing.T) {
	first := CalculateMatchStatistics(nil)
	second := CalculateMatchStatistics([]model.MatchRecord{})

	if !reflect.DeepEqual(first, second) {
		t.Error("empty input produced different results on repeat calls")
	}
	if !reflect.DeepEqual(first, EmptyStatistics()) {
		t.Error("CalculateMatchStatistics(nil) differs from EmptyStatistics()")
	}
	if first == second {
		t.Error("expected a fresh allocation per call")
	}

	got, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"overview":{"totalMatches":0,"wins":0,"draws":0,"losses":0,"winRate":0,` +
		`"totalGoalsFor":0,"totalGoalsAgainst":0,"avgGoalsFor":"0.0","avgGoalsAgainst":"0.0",` +
		`"avgDuration":0,"goalDifference":0},` +
		`"performance":{"recentForm":[],"currentStreak":0,"streakType":null,` +
		`"homeRecord":{"played":0,"wins":0,"draws":0,"losses":0,"winRate":0},` +
		`"awayRecord":{"played":0,"wins":0,"draws":0,"losses":0,"winRate":0}},` +
		`"opponents":{"opponents":[],"mostPlayed":null,"bestRecord":null,"worstRecord":null},` +
		`"goals":{"timeline":{"0-15":0,"16-30":0,"31-45":0,"46-60":0,"61-75":0,"76-90+":0},` +
		`"totalGoals":0,"penalties":0,"ownGoals":0,"avgGoalsPerMatch":"0.0",` +
		`"topScorers":[],"topAssisters":[],"uniqueScorers":0},` +
		`"totalMatches":0}`
	if string(got) != want {
		t.Errorf("empty statistics JSON:\n got  %s\n want %s", got, want)
	}
}

// ---- Performance ----

func TestPerformance_FormAndStreak(t *testing.T) {
	// 12 matches: the first two losses fall outside the window and the
	// last three are wins.
	results := []struct{ f, a int }{
		{0, 1}, {0, 2}, // dropped
		{1, 0}, {1, 1}, {2, 0}, {0, 1}, {1, 1}, {0, 3}, {2, 2}, {3, 1}, {2, 0}, {1, 0},
	}
	var matches []model.MatchRecord
	for _, r := range results {
		matches = append(matches, makeMatch("X", r.f, r.a))
	}

	ps := CalculatePerformanceStats(matches)
	want := []model.Result{"W", "D", "W", "L", "D", "L", "D", "W", "W", "W"}
	if !reflect.DeepEqual(ps.RecentForm, want) {
		t.Errorf("RecentForm: got %v, want %v", ps.RecentForm, want)
	}
	if ps.CurrentStreak != 3 {
		t.Errorf("CurrentStreak: got %d, want 3", ps.CurrentStreak)
	}
	if ps.StreakType == nil || *ps.StreakType != model.Win {
		t.Errorf("StreakType: got %v, want W", ps.StreakType)
	}
}

func TestPerformance_SortsBySavedAt(t *testing.T) {
	win := makeMatch("A", 2, 0)
	win.SavedAt = 3000
	loss := makeMatch("B", 0, 2)
	loss.SavedAt = 1000
	draw := makeMatch("C", 1, 1)
	draw.SavedAt = 2000

	input := []model.MatchRecord{win, loss, draw}
	ps := CalculatePerformanceStats(input)
	want := []model.Result{"L", "D", "W"}
	if !reflect.DeepEqual(ps.RecentForm, want) {
		t.Errorf("RecentForm: got %v, want %v", ps.RecentForm, want)
	}
	if input[0].Team2Name != "A" {
		t.Error("input slice was reordered")
	}

	// One record without savedAt: insertion order wins.
	draw.SavedAt = 0
	ps = CalculatePerformanceStats([]model.MatchRecord{win, loss, draw})
	want = []model.Result{"W", "L", "D"}
	if !reflect.DeepEqual(ps.RecentForm, want) {
		t.Errorf("RecentForm without savedAt: got %v, want %v", ps.RecentForm, want)
	}
}

func TestPerformance_HomeAway(t *testing.T) {
	away1 := makeMatch("A", 2, 1)
	away1.Venue = model.VenueAway
	away2 := makeMatch("B", 0, 1)
	away2.Venue = model.VenueAway
	home := makeMatch("C", 1, 1) // no venue -> home
	home2 := makeMatch("D", 3, 0)
	home2.Venue = model.VenueHome

	ps := CalculatePerformanceStats([]model.MatchRecord{away1, home, away2, home2})
	if got := ps.AwayRecord; got != (VenueRecord{Played: 2, Wins: 1, Losses: 1, WinRate: 50}) {
		t.Errorf("AwayRecord: %+v", got)
	}
	if got := ps.HomeRecord; got != (VenueRecord{Played: 2, Wins: 1, Draws: 1, WinRate: 50}) {
		t.Errorf("HomeRecord: %+v", got)
	}
}

// ---- Opponents ----

// TestOpponents_BestNeedsTwoMeetings: Rangers' 100% from one meeting is not ranked.
func TestOpponents_BestNeedsTwoMeetings(t *testing.T) {
	matches := []model.MatchRecord{
		makeMatch("City", 2, 0),
		makeMatch("Rangers", 1, 0),
		makeMatch("City", 0, 1),
	}
	os := CalculateOpponentStats(matches)

	if os.BestRecord == nil || os.BestRecord.Name != "City" {
		t.Errorf("BestRecord: got %+v, want City", os.BestRecord)
	}
	if os.WorstRecord == nil || os.WorstRecord.Name != "City" {
		t.Errorf("WorstRecord: got %+v, want City", os.WorstRecord)
	}
	if os.MostPlayed == nil || os.MostPlayed.Name != "City" || os.MostPlayed.Played != 2 {
		t.Errorf("MostPlayed: got %+v", os.MostPlayed)
	}
	if len(os.Opponents) != 2 || os.Opponents[1].Name != "Rangers" {
		t.Errorf("Opponents: %+v", os.Opponents)
	}
	city := os.Opponents[0]
	if city.Wins != 1 || city.Losses != 1 || city.GoalsFor != 2 || city.GoalsAgainst != 1 {
		t.Errorf("City record: %+v", city)
	}
}

func TestOpponents_TiesKeepFirstSeen(t *testing.T) {
	matches := []model.MatchRecord{
		makeMatch("Alpha", 1, 0),
		makeMatch("Beta", 1, 0),
		makeMatch("Beta", 0, 1),
		makeMatch("Alpha", 0, 1),
		makeMatch("Gamma", 1, 0),
		makeMatch("Gamma", 1, 0),
	}
	os := CalculateOpponentStats(matches)

	if os.MostPlayed.Name != "Alpha" {
		t.Errorf("MostPlayed tie: got %s, want Alpha", os.MostPlayed.Name)
	}
	if os.BestRecord.Name != "Gamma" {
		t.Errorf("BestRecord: got %s, want Gamma", os.BestRecord.Name)
	}
	if os.WorstRecord.Name != "Alpha" {
		t.Errorf("WorstRecord tie: got %s, want Alpha", os.WorstRecord.Name)
	}
}

func TestOpponents_PlayedSumsToTotal(t *testing.T) {
	blank := makeMatch("", 1, 2)
	matches := []model.MatchRecord{
		makeMatch("A", 1, 0), blank, makeMatch("B", 2, 2), makeMatch("A", 0, 0), makeMatch("  ", 3, 1),
	}
	os := CalculateOpponentStats(matches)

	sum := 0
	for _, o := range os.Opponents {
		sum += o.Played
	}
	if sum != len(matches) {
		t.Errorf("sum of played = %d, want %d", sum, len(matches))
	}
	found := false
	for _, o := range os.Opponents {
		if o.Name == model.UnknownOpp {
			found = true
			if o.Played != 2 {
				t.Errorf("Unknown played: got %d, want 2", o.Played)
			}
		}
	}
	if !found {
		t.Error("expected blank opponents grouped as Unknown")
	}
	if os.BestRecord == nil {
		t.Fatal("expected a best record")
	}
}

func TestOpponents_NoneRanked(t *testing.T) {
	os := CalculateOpponentStats([]model.MatchRecord{makeMatch("A", 1, 0), makeMatch("B", 0, 1)})
	if os.BestRecord != nil || os.WorstRecord != nil {
		t.Error("expected no best/worst record with single meetings")
	}
	if os.MostPlayed == nil || os.MostPlayed.Name != "A" {
		t.Errorf("MostPlayed: %+v", os.MostPlayed)
	}
}

// ---- Goals ----

func TestGoals_OwnGoalNotCredited(t *testing.T) {
	m := makeMatch("A", 1, 0)
	m.Goals = []model.GoalEvent{ourGoal(model.OwnGoal, "", 10)}
	gs := CalculateGoalStats([]model.MatchRecord{m})

	if gs.OwnGoals != 1 || gs.TotalGoals != 1 {
		t.Errorf("OwnGoals=%d TotalGoals=%d, want 1 and 1", gs.OwnGoals, gs.TotalGoals)
	}
	for _, s := range gs.TopScorers {
		if s.Name == model.OwnGoal {
			t.Error("own goal should not appear in TopScorers")
		}
	}
	if gs.Timeline["0-15"] != 1 {
		t.Errorf("timeline 0-15: got %d, want 1", gs.Timeline["0-15"])
	}
}

func TestGoals_TimelineBuckets(t *testing.T) {
	minutes := []int{1, 15, 16, 30, 31, 45, 46, 60, 61, 75, 76, 90, 95}
	m := makeMatch("A", len(minutes), 2)
	for _, minute := range minutes {
		m.Goals = append(m.Goals, ourGoal("Sam", "", minute))
	}
	m.Goals = append(m.Goals, ourGoal("Sam", "", 0)) // no minute: counted, not bucketed
	m.Goals = append(m.Goals, theirGoal(20), theirGoal(80))

	gs := CalculateGoalStats([]model.MatchRecord{m})
	want := map[string]int{"0-15": 2, "16-30": 2, "31-45": 2, "46-60": 2, "61-75": 2, "76-90+": 3}
	if !reflect.DeepEqual(gs.Timeline, want) {
		t.Errorf("Timeline: got %v, want %v", gs.Timeline, want)
	}

	bucketed := 0
	for _, n := range gs.Timeline {
		bucketed += n
	}
	if bucketed != len(minutes) {
		t.Errorf("bucket sum %d, want %d", bucketed, len(minutes))
	}
	if gs.TotalGoals != len(minutes)+1 {
		t.Errorf("TotalGoals: got %d, want %d", gs.TotalGoals, len(minutes)+1)
	}
}

func TestGoals_ScorersAndAssisters(t *testing.T) {
	m1 := makeMatch("A", 3, 1)
	m1.Goals = []model.GoalEvent{
		ourGoal("Ann", "Bob", 5),
		{Team: model.SideFirst, Scorer: "Ann", Assist: model.NoAssist, Minute: 40, Type: model.Penalty},
		ourGoal("Cal", "Dee", 70),
		theirGoal(80),
	}
	m2 := makeMatch("B", 1, 0)
	m2.Goals = []model.GoalEvent{ourGoal("Bob", "Dee", 12)}

	gs := CalculateGoalStats([]model.MatchRecord{m1, m2})

	if gs.TotalGoals != 4 || gs.Penalties != 1 {
		t.Errorf("TotalGoals=%d Penalties=%d", gs.TotalGoals, gs.Penalties)
	}
	if gs.AvgGoalsPerMatch != "2.0" {
		t.Errorf("AvgGoalsPerMatch: got %q", gs.AvgGoalsPerMatch)
	}
	if gs.UniqueScorers != 3 {
		t.Errorf("UniqueScorers: got %d, want 3", gs.UniqueScorers)
	}

	// Entries in first-seen order: Ann, Bob, Cal, Dee.
	var names []string
	for _, s := range gs.TopScorers {
		names = append(names, s.Name)
	}
	if want := []string{"Ann", "Bob", "Cal", "Dee"}; !reflect.DeepEqual(names, want) {
		t.Errorf("TopScorers order: got %v, want %v", names, want)
	}
	if ann := gs.TopScorers[0]; ann.Goals != 2 || ann.Penalties != 1 {
		t.Errorf("Ann: %+v", ann)
	}

	names = nil
	for _, s := range gs.TopAssisters {
		names = append(names, s.Name)
	}
	if want := []string{"Dee", "Bob"}; !reflect.DeepEqual(names, want) {
		t.Errorf("TopAssisters: got %v, want %v", names, want)
	}
}

func TestGoals_BlankNamesKeptLiterally(t *testing.T) {
	m := makeMatch("A", 2, 0)
	m.Goals = []model.GoalEvent{
		ourGoal("", " ", 20),
		ourGoal("Ann", "", 30),
	}
	gs := CalculateGoalStats([]model.MatchRecord{m})

	if gs.UniqueScorers != 2 {
		t.Errorf("UniqueScorers: got %d, want 2 (blank scorer counts)", gs.UniqueScorers)
	}
	if len(gs.TopScorers) != 3 || gs.TopScorers[0].Name != "" || gs.TopScorers[0].Goals != 1 {
		t.Errorf("TopScorers: got %+v", gs.TopScorers)
	}
	if len(gs.TopAssisters) != 1 || gs.TopAssisters[0].Name != " " {
		t.Errorf("TopAssisters: got %+v, want the single-space assist credited", gs.TopAssisters)
	}
}

func TestGoals_TopListCapped(t *testing.T) {
	m := makeMatch("A", 12, 0)
	for i := 0; i < 12; i++ {
		m.Goals = append(m.Goals, ourGoal(string(rune('A'+i)), string(rune('a'+i)), 10))
	}
	gs := CalculateGoalStats([]model.MatchRecord{m})
	if len(gs.TopScorers) != TopListSize || len(gs.TopAssisters) != TopListSize {
		t.Errorf("lists not capped: scorers=%d assisters=%d", len(gs.TopScorers), len(gs.TopAssisters))
	}
}

// ---- Players ----

func shirt(n int) *int { return &n }

// TestPlayers_GoalsPerMatch: two goals over two attended matches.
func TestPlayers_GoalsPerMatch(t *testing.T) {
	roster := []model.RosterPlayer{{Name: "John Smith", ShirtNumber: shirt(9)}, {Name: "Bench Warmer"}}

	m1 := makeMatch("City", 1, 0)
	m1.SavedAt = time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC).UnixMilli()
	m1.Attendance = []model.AttendanceRecord{{PlayerName: "John Smith", Attending: true}, {PlayerName: "Bench Warmer"}}
	m1.Goals = []model.GoalEvent{ourGoal("John Smith", "", 30)}

	m2 := makeMatch("Rangers", 1, 1)
	m2.Attendance = []model.AttendanceRecord{{PlayerName: "John Smith", Attending: true}}
	m2.Goals = []model.GoalEvent{ourGoal("John Smith", "Guest", 60), theirGoal(70)}

	ps := CalculatePlayerStatistics(roster, []model.MatchRecord{m1, m2})
	if ps.TotalPlayers != 1 {
		t.Fatalf("TotalPlayers: got %d, want 1 (bench warmer has no activity)", ps.TotalPlayers)
	}
	john := ps.Players[0]
	if john.MatchesPlayed != 2 || john.Goals != 2 || john.GoalsPerMatch != "1.00" || john.AssistsPerMatch != "0.00" {
		t.Errorf("John Smith: %+v", john)
	}
	if john.ShirtNumber == nil || *john.ShirtNumber != 9 {
		t.Errorf("ShirtNumber not carried over")
	}
	wantApps := []Appearance{
		{Date: "2025-03-01", Opponent: "City", Result: model.Win},
		{Date: "", Opponent: "Rangers", Result: model.Draw},
	}
	if !reflect.DeepEqual(john.Appearances, wantApps) {
		t.Errorf("Appearances: got %+v, want %+v", john.Appearances, wantApps)
	}
	if ps.TopScorer == nil || ps.TopScorer.Name != "John Smith" {
		t.Errorf("TopScorer: %+v", ps.TopScorer)
	}
	if ps.TopAssister != nil {
		t.Errorf("TopAssister should be nil, got %+v", ps.TopAssister)
	}
	if ps.MostAppearances == nil || ps.MostAppearances.Name != "John Smith" {
		t.Errorf("MostAppearances: %+v", ps.MostAppearances)
	}
}

func TestPlayers_OrderingAndHeadlines(t *testing.T) {
	roster := []model.RosterPlayer{{Name: "Ava"}, {Name: "Ben"}, {Name: "Cy"}, {Name: "Dot"}}

	m := makeMatch("A", 3, 0)
	m.Attendance = []model.AttendanceRecord{
		{PlayerName: "Ava", Attending: true},
		{PlayerName: "Ben", Attending: true},
		{PlayerName: "Cy", Attending: true},
		{PlayerName: "Dot", Attending: true},
		{PlayerName: "Stranger", Attending: true},
	}
	m.Goals = []model.GoalEvent{
		ourGoal("Ben", "Ava", 10),
		ourGoal("Ben", "Cy", 20),
		ourGoal("Cy", "Ava", 30),
		ourGoal("Stranger", "Ava", 40),
		theirGoal(50),
	}
	m2 := makeMatch("B", 0, 0)
	m2.Attendance = []model.AttendanceRecord{{PlayerName: "Dot", Attending: true}}

	ps := CalculatePlayerStatistics(roster, []model.MatchRecord{m, m2})

	var order []string
	for _, p := range ps.Players {
		order = append(order, p.Name)
	}
	if want := []string{"Ben", "Cy", "Ava", "Dot"}; !reflect.DeepEqual(order, want) {
		t.Errorf("player order: got %v, want %v", order, want)
	}
	if ps.TopScorer.Name != "Ben" {
		t.Errorf("TopScorer: got %s", ps.TopScorer.Name)
	}
	// First with assists in the goals-first order, even though Ava has more.
	if ps.TopAssister.Name != "Cy" {
		t.Errorf("TopAssister: got %s, want Cy", ps.TopAssister.Name)
	}
	if ps.MostAppearances.Name != "Dot" {
		t.Errorf("MostAppearances: got %s, want Dot", ps.MostAppearances.Name)
	}
	for _, p := range ps.Players {
		if p.Name == "Ava" && p.Assists != 3 {
			t.Errorf("Ava assists: got %d, want 3 (stranger's goal still credits the assist)", p.Assists)
		}
	}
}

func TestPlayers_NoMatches(t *testing.T) {
	ps := CalculatePlayerStatistics([]model.RosterPlayer{{Name: "A"}}, nil)
	if ps.TotalPlayers != 0 || len(ps.Players) != 0 {
		t.Errorf("expected no players, got %+v", ps)
	}
	if ps.TopScorer != nil || ps.TopAssister != nil || ps.MostAppearances != nil {
		t.Error("expected nil headline players")
	}
}

// ---- Period filter ----

func TestFilterByPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	at := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }

	today := makeMatch("Today", 1, 0)
	today.SavedAt = at(2 * time.Hour)
	yesterday := makeMatch("Yesterday", 1, 0)
	yesterday.SavedAt = at(20 * time.Hour)
	lastWeek := makeMatch("LastWeek", 1, 0)
	lastWeek.SavedAt = at(10 * 24 * time.Hour)
	old := makeMatch("Old", 1, 0)
	old.SavedAt = at(60 * 24 * time.Hour)
	undated := makeMatch("Undated", 1, 0)

	all := []model.MatchRecord{today, yesterday, lastWeek, old, undated}
	cases := []struct {
		period Period
		want   int
	}{
		{PeriodAll, 5},
		{PeriodToday, 1},
		{PeriodWeek, 2},
		{PeriodMonth, 3},
	}
	for _, c := range cases {
		if got := FilterByPeriod(all, c.period, now); len(got) != c.want {
			t.Errorf("%s: got %d matches, want %d", c.period, len(got), c.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	if p, err := ParsePeriod(""); err != nil || p != PeriodAll {
		t.Errorf("empty: got %q, %v", p, err)
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Error("expected error for unknown period")
	}
}

func TestCalculateMatchStatistics_DoesNotMutate(t *testing.T) {
	m := makeMatch("A", 2, 1)
	m.Goals = []model.GoalEvent{ourGoal("Ann", "", 5), ourGoal("Ann", "", 50)}
	input := []model.MatchRecord{m, makeMatch("B", 0, 0)}
	snapshot, _ := json.Marshal(input)

	stats := CalculateMatchStatistics(input)
	after, _ := json.Marshal(input)
	if string(snapshot) != string(after) {
		t.Error("input was mutated")
	}
	if stats.TotalMatches != 2 || stats.Overview.TotalMatches != 2 {
		t.Errorf("TotalMatches: %d / %d", stats.TotalMatches, stats.Overview.TotalMatches)
	}
}
