package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintStatistics prints every section of the match statistics bundle.
func PrintStatistics(w io.Writer, st *aggregator.MatchStatistics) {
	if st.IsEmpty() {
		fmt.Fprintln(w, "No matches recorded yet.")
		return
	}
	fmt.Fprintln(w, "\n=== OVERVIEW ===")
	PrintOverview(w, st.Overview)
	fmt.Fprintln(w, "\n=== FORM ===")
	PrintPerformance(w, st.Performance)
	fmt.Fprintln(w, "\n=== OPPONENTS ===")
	PrintOpponents(w, st.Opponents)
	fmt.Fprintln(w, "\n=== GOALS ===")
	PrintTimeline(w, st.Goals)
	PrintScorers(w, st.Goals)
}

// PrintOverview prints the headline record as a single row.
// Columns: MATCHES | W | D | L | WIN% | GF | GA | GD | GF/M | GA/M | AVG_MIN
func PrintOverview(w io.Writer, o aggregator.OverviewStats) {
	table := newTable(w)
	table.Header("MATCHES", "W", "D", "L", "WIN%", "GF", "GA", "GD", "GF/M", "GA/M", "AVG_MIN")
	table.Append(
		strconv.Itoa(o.TotalMatches),
		strconv.Itoa(o.Wins),
		strconv.Itoa(o.Draws),
		strconv.Itoa(o.Losses),
		fmt.Sprintf("%d%%", o.WinRate),
		strconv.Itoa(o.TotalGoalsFor),
		strconv.Itoa(o.TotalGoalsAgainst),
		signed(o.GoalDifference),
		o.AvgGoalsFor,
		o.AvgGoalsAgainst,
		strconv.Itoa(o.AvgDuration),
	)
	table.Render()
}

// PrintPerformance prints recent form, the current streak and the home/away split.
func PrintPerformance(w io.Writer, p aggregator.PerformanceStats) {
	fmt.Fprintf(w, "Form (oldest first): %s\n", FormString(p.RecentForm))
	if p.StreakType != nil {
		fmt.Fprintf(w, "Current streak:      %d%s\n", p.CurrentStreak, *p.StreakType)
	}

	table := newTable(w)
	table.Header("VENUE", "P", "W", "D", "L", "WIN%")
	for _, v := range []struct {
		name string
		rec  aggregator.VenueRecord
	}{{"Home", p.HomeRecord}, {"Away", p.AwayRecord}} {
		table.Append(
			v.name,
			strconv.Itoa(v.rec.Played),
			strconv.Itoa(v.rec.Wins),
			strconv.Itoa(v.rec.Draws),
			strconv.Itoa(v.rec.Losses),
			fmt.Sprintf("%d%%", v.rec.WinRate),
		)
	}
	table.Render()
}

// FormString renders results as "W D L", or "-" when there are none.
func FormString(form []model.Result) string {
	if len(form) == 0 {
		return "-"
	}
	parts := make([]string, len(form))
	for i, r := range form {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// PrintOpponents prints the head-to-head table, most played first. The best
// and worst records are flagged in the last column.
func PrintOpponents(w io.Writer, o aggregator.OpponentStats) {
	if len(o.Opponents) == 0 {
		fmt.Fprintln(w, "No opponents yet.")
		return
	}
	table := newTable(w)
	table.Header("OPPONENT", "P", "W", "D", "L", "GF", "GA", "WIN%", " ")
	for _, r := range o.Opponents {
		flag := ""
		switch {
		case o.BestRecord != nil && r.Name == o.BestRecord.Name:
			flag = "best"
		case o.WorstRecord != nil && r.Name == o.WorstRecord.Name:
			flag = "worst"
		}
		table.Append(
			r.Name,
			strconv.Itoa(r.Played),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Draws),
			strconv.Itoa(r.Losses),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			fmt.Sprintf("%.0f%%", r.WinRatio()*100),
			flag,
		)
	}
	table.Render()
}

// PrintTimeline prints goals per 15-minute window with a bar.
func PrintTimeline(w io.Writer, g aggregator.GoalStats) {
	fmt.Fprintf(w, "Goals: %d  |  Per match: %s  |  Penalties: %d  |  Own goals: %d  |  Scorers: %d\n",
		g.TotalGoals, g.AvgGoalsPerMatch, g.Penalties, g.OwnGoals, g.UniqueScorers)

	maxCount := 0
	for _, b := range aggregator.TimelineBuckets {
		maxCount = max(maxCount, g.Timeline[b])
	}
	table := newTable(w)
	table.Header("MINUTES", "GOALS", "")
	for _, b := range aggregator.TimelineBuckets {
		n := g.Timeline[b]
		table.Append(b, strconv.Itoa(n), bar(n, maxCount, 20))
	}
	table.Render()
}

// bar scales n against maxCount to at most width characters.
func bar(n, maxCount, width int) string {
	if n <= 0 || maxCount <= 0 {
		return ""
	}
	size := n * width / maxCount
	if size == 0 {
		size = 1
	}
	return strings.Repeat("#", size)
}

// PrintScorers prints the top scorers and top assisters lists.
func PrintScorers(w io.Writer, g aggregator.GoalStats) {
	if len(g.TopScorers) > 0 {
		fmt.Fprintln(w, "\nTop scorers")
		table := newTable(w)
		table.Header("#", "PLAYER", "G", "A", "PEN")
		for i, s := range g.TopScorers {
			table.Append(strconv.Itoa(i+1), s.Name, strconv.Itoa(s.Goals), strconv.Itoa(s.Assists), strconv.Itoa(s.Penalties))
		}
		table.Render()
	}
	if len(g.TopAssisters) > 0 {
		fmt.Fprintln(w, "\nTop assisters")
		table := newTable(w)
		table.Header("#", "PLAYER", "A", "G")
		for i, s := range g.TopAssisters {
			table.Append(strconv.Itoa(i+1), s.Name, strconv.Itoa(s.Assists), strconv.Itoa(s.Goals))
		}
		table.Render()
	}
}

// PrintPlayers prints per-player statistics followed by the headline players.
// Columns: NO | PLAYER | MP | G | A | PEN | G/M | A/M | LAST
func PrintPlayers(w io.Writer, ps aggregator.PlayerStatistics) {
	if ps.TotalPlayers == 0 {
		fmt.Fprintln(w, "No roster player has appeared, scored or assisted yet.")
		return
	}
	table := newTable(w)
	table.Header("NO", "PLAYER", "MP", "G", "A", "PEN", "G/M", "A/M", "LAST")
	for _, p := range ps.Players {
		last := "-"
		if n := len(p.Appearances); n > 0 {
			a := p.Appearances[n-1]
			last = strings.TrimSpace(fmt.Sprintf("%s %s %s", a.Result, a.Opponent, a.Date))
		}
		table.Append(
			shirt(p.ShirtNumber),
			p.Name,
			strconv.Itoa(p.MatchesPlayed),
			strconv.Itoa(p.Goals),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Penalties),
			p.GoalsPerMatch,
			p.AssistsPerMatch,
			last,
		)
	}
	table.Render()

	fmt.Fprintf(w, "\nTop scorer:       %s\n", headline(ps.TopScorer, func(p *aggregator.PlayerRecord) int { return p.Goals }, "goals"))
	fmt.Fprintf(w, "Top assister:     %s\n", headline(ps.TopAssister, func(p *aggregator.PlayerRecord) int { return p.Assists }, "assists"))
	fmt.Fprintf(w, "Most appearances: %s\n", headline(ps.MostAppearances, func(p *aggregator.PlayerRecord) int { return p.MatchesPlayed }, "matches"))
}

func headline(p *aggregator.PlayerRecord, count func(*aggregator.PlayerRecord) int, unit string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d %s)", p.Name, count(p), unit)
}

// PrintMatchList prints saved matches in storage order with their index,
// which is what "matches delete" takes.
// Columns: # | DATE | OPPONENT | VENUE | SCORE | RES | GOALS | MIN
func PrintMatchList(w io.Writer, matches []model.MatchRecord) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches saved.")
		return
	}
	table := newTable(w)
	table.Header("#", "DATE", "OPPONENT", "VENUE", "SCORE", "RES", "GOALS", "MIN")
	for i, m := range matches {
		date := "-"
		if t := m.SavedTime(); !t.IsZero() {
			date = t.Local().Format("2006-01-02 15:04")
		}
		venue := string(model.VenueHome)
		if m.IsAway() {
			venue = string(model.VenueAway)
		}
		ours, theirs := m.Scores()
		table.Append(
			strconv.Itoa(i),
			date,
			m.Opponent(),
			venue,
			fmt.Sprintf("%d-%d", ours, theirs),
			string(m.Result()),
			strconv.Itoa(len(m.Goals)),
			strconv.Itoa(m.Duration()/60),
		)
	}
	table.Render()
}

// PrintRoster prints the roster in display order.
func PrintRoster(w io.Writer, players []model.RosterPlayer) {
	if len(players) == 0 {
		fmt.Fprintln(w, "Roster is empty.")
		return
	}
	table := newTable(w)
	table.Header("NO", "PLAYER")
	for _, p := range players {
		table.Append(shirt(p.ShirtNumber), p.Name)
	}
	table.Render()
}

// PrintScoreIssues lists stored scores that could not be parsed.
func PrintScoreIssues(w io.Writer, issues []aggregator.ScoreIssue) {
	for _, i := range issues {
		fmt.Fprintf(w, "warning: %s\n", i)
	}
}

func shirt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
