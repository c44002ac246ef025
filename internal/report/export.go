package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/stats"
)

// Export formats accepted by WriteExport.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// WriteExport writes exp in format. CSV carries the match list only; JSON and
// XLSX carry every section.
func WriteExport(w io.Writer, format string, exp *stats.Export, matches []model.MatchRecord) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(w, exp)
	case FormatCSV:
		return WriteMatchesCSV(w, matches)
	case FormatXLSX:
		return WriteXLSX(w, exp, matches)
	default:
		return fmt.Errorf("unknown export format %q (want json, csv or xlsx)", format)
	}
}

// WriteJSON writes exp as indented JSON.
func WriteJSON(w io.Writer, exp *stats.Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exp)
}

var matchCSVHeader = []string{"index", "id", "date", "opponent", "venue", "score_for", "score_against", "result", "goal_events", "minutes", "notes"}

func matchRow(i int, m model.MatchRecord) []string {
	date := ""
	if t := m.SavedTime(); !t.IsZero() {
		date = t.UTC().Format(time.RFC3339)
	}
	venue := string(model.VenueHome)
	if m.IsAway() {
		venue = string(model.VenueAway)
	}
	ours, theirs := m.Scores()
	return []string{
		strconv.Itoa(i),
		m.ID,
		date,
		m.Opponent(),
		venue,
		strconv.Itoa(ours),
		strconv.Itoa(theirs),
		string(m.Result()),
		strconv.Itoa(len(m.Goals)),
		strconv.Itoa(m.Duration() / 60),
		m.MatchNotes,
	}
}

// WriteMatchesCSV writes one row per match. Goal and event detail is not
// included.
func WriteMatchesCSV(w io.Writer, matches []model.MatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchCSVHeader); err != nil {
		return err
	}
	for i, m := range matches {
		if err := cw.Write(matchRow(i, m)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMatchesCSV parses a match CSV. Headers are matched loosely (case,
// spaces and underscores are ignored); "goalsfor"/"goalsagainst" and
// "team2name" are accepted as aliases. Semicolon-delimited files are
// detected from the header line.
func ReadMatchesCSV(r io.Reader) ([]model.MatchRecord, error) {
	data, err := io.ReadAll(io.LimitReader(r, 10<<20))
	if err != nil {
		return nil, err
	}
	firstLine, _, _ := strings.Cut(string(data), "\n")
	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.FieldsPerRecord = -1
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		cr.Comma = ';'
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[normHeader(h)] = i
	}
	get := func(row []string, key string) string {
		if i, ok := col[key]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	if _, ok := col["opponent"]; !ok {
		return nil, fmt.Errorf("csv has no opponent column")
	}

	out := []model.MatchRecord{}
	for n, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		m := model.MatchRecord{
			ID:          get(row, "id"),
			Team2Name:   get(row, "opponent"),
			Score1:      model.Score(get(row, "scorefor")),
			Score2:      model.Score(get(row, "scoreagainst")),
			MatchNotes:  get(row, "notes"),
			Goals:       []model.GoalEvent{},
			MatchEvents: []model.MatchEvent{},
		}
		if v := get(row, "venue"); strings.EqualFold(v, string(model.VenueAway)) {
			m.Venue = model.VenueAway
		} else if v != "" {
			m.Venue = model.VenueHome
		}
		if v := get(row, "minutes"); v != "" {
			mins, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: minutes %q: %w", n+2, v, err)
			}
			m.GameTime = mins * 60
		}
		if v := get(row, "date"); v != "" {
			t, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
			m.SavedAt = t.UnixMilli()
		}
		out = append(out, m)
	}
	return out, nil
}

func normHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	switch k := b.String(); k {
	case "goalsfor", "score1":
		return "scorefor"
	case "goalsagainst", "score2":
		return "scoreagainst"
	case "team2name", "team2":
		return "opponent"
	case "savedat":
		return "date"
	default:
		return k
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// WriteXLSX writes a workbook with Overview, Matches, Opponents, Scorers and
// Players sheets.
func WriteXLSX(w io.Writer, exp *stats.Export, matches []model.MatchRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	sheet := func(name string, header []string, rows [][]any) error {
		if f.GetSheetName(0) == "Sheet1" {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
			return err
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return err
			}
		}
		return nil
	}

	st := exp.Statistics
	o := st.Overview
	overview := [][]any{
		{"Matches", o.TotalMatches},
		{"Wins", o.Wins},
		{"Draws", o.Draws},
		{"Losses", o.Losses},
		{"Win rate %", o.WinRate},
		{"Goals for", o.TotalGoalsFor},
		{"Goals against", o.TotalGoalsAgainst},
		{"Goal difference", o.GoalDifference},
		{"Avg goals for", o.AvgGoalsFor},
		{"Avg goals against", o.AvgGoalsAgainst},
		{"Avg minutes", o.AvgDuration},
		{"Recent form", FormString(st.Performance.RecentForm)},
		{"Exported at", exp.ExportedAt.Format(time.RFC3339)},
	}
	if err := sheet("Overview", []string{"Metric", "Value"}, overview); err != nil {
		return err
	}

	matchRows := make([][]any, 0, len(matches))
	for i, m := range matches {
		row := matchRow(i, m)
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		matchRows = append(matchRows, cells)
	}
	if err := sheet("Matches", matchCSVHeader, matchRows); err != nil {
		return err
	}

	oppRows := make([][]any, 0, len(st.Opponents.Opponents))
	for _, r := range st.Opponents.Opponents {
		oppRows = append(oppRows, []any{r.Name, r.Played, r.Wins, r.Draws, r.Losses, r.GoalsFor, r.GoalsAgainst})
	}
	if err := sheet("Opponents", []string{"Opponent", "Played", "W", "D", "L", "GF", "GA"}, oppRows); err != nil {
		return err
	}

	scorerRows := make([][]any, 0, len(st.Goals.TopScorers))
	for _, s := range st.Goals.TopScorers {
		scorerRows = append(scorerRows, []any{s.Name, s.Goals, s.Assists, s.Penalties})
	}
	if err := sheet("Scorers", []string{"Player", "Goals", "Assists", "Penalties"}, scorerRows); err != nil {
		return err
	}

	playerRows := make([][]any, 0, len(exp.Players.Players))
	for _, p := range exp.Players.Players {
		no := ""
		if p.ShirtNumber != nil {
			no = strconv.Itoa(*p.ShirtNumber)
		}
		playerRows = append(playerRows, []any{no, p.Name, p.MatchesPlayed, p.Goals, p.Assists, p.Penalties, p.GoalsPerMatch, p.AssistsPerMatch})
	}
	if err := sheet("Players", []string{"No", "Player", "MP", "Goals", "Assists", "Penalties", "G/M", "A/M"}, playerRows); err != nil {
		return err
	}

	return f.Write(w)
}
