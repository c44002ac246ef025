// Package model holds the match, goal, attendance and roster records shared by
// the storage layer, the endpoint server and the statistics aggregators.
package model

import (
	"strings"
	"time"
)

// DefaultGameTime is the regulation length in seconds (70 minutes) used when a
// record carries no game time.
const DefaultGameTime = 4200

// Sentinel values written by the client.
const (
	OwnGoal    = "Own Goal"
	NoAssist   = "N/A"
	Penalty    = "penalty"
	UnknownOpp = "Unknown"
)

// Side identifies which team a goal or event belongs to. "first" is always our team.
type Side string

const (
	SideFirst  Side = "first"
	SideSecond Side = "second"
)

// Venue is where a match was played.
type Venue string

const (
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// ---- Records written by the match tracker ----

type GoalEvent struct {
	Team      Side   `json:"team" validate:"required,oneof=first second"`
	Scorer    string `json:"scorer,omitempty" validate:"max=100"`
	Assist    string `json:"assist,omitempty" validate:"max=100"`
	Minute    int    `json:"minute,omitempty"` // 0 when the tracker did not record one
	Type      string `json:"type,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// MatchEvent is a card, foul or other non-goal event. Aggregation only counts them.
type MatchEvent struct {
	Type   string `json:"type"`
	Team   Side   `json:"team,omitempty"`
	Player string `json:"player,omitempty"`
	Minute int    `json:"minute,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type AttendanceRecord struct {
	PlayerName string `json:"playerName" validate:"required"`
	Attending  bool   `json:"attending"`
}

// MatchRecord is one saved game. Records are treated as immutable once saved.
type MatchRecord struct {
	ID          string             `json:"id,omitempty"`
	Team1Name   string             `json:"team1Name" validate:"max=100"`
	Team2Name   string             `json:"team2Name" validate:"max=100"`
	Score1      Score              `json:"score1"`
	Score2      Score              `json:"score2"`
	Goals       []GoalEvent        `json:"goals" validate:"dive"`
	MatchEvents []MatchEvent       `json:"matchEvents"`
	Attendance  []AttendanceRecord `json:"attendance,omitempty" validate:"dive"`
	GameTime    int                `json:"gameTime,omitempty" validate:"gte=0"`
	SavedAt     int64              `json:"savedAt,omitempty"`
	Venue       Venue              `json:"venue,omitempty" validate:"omitempty,oneof=home away"`
	MatchNotes  string             `json:"matchNotes,omitempty"`
}

// Scores returns the parsed scores for our team and the opponent.
func (m MatchRecord) Scores() (ours, theirs int) {
	return m.Score1.Int(), m.Score2.Int()
}

// Result classifies the match from our side.
func (m MatchRecord) Result() Result {
	return ClassifyResult(m.Scores())
}

// Duration returns the regulation seconds, falling back to DefaultGameTime.
func (m MatchRecord) Duration() int {
	if m.GameTime == 0 {
		return DefaultGameTime
	}
	return m.GameTime
}

// Opponent returns team2Name, or "Unknown" when blank.
func (m MatchRecord) Opponent() string {
	if strings.TrimSpace(m.Team2Name) == "" {
		return UnknownOpp
	}
	return m.Team2Name
}

// IsAway reports whether the match was played away; anything else counts as home.
func (m MatchRecord) IsAway() bool {
	return m.Venue == VenueAway
}

// SavedTime converts savedAt (epoch ms) to a time. Zero savedAt gives the zero time.
func (m MatchRecord) SavedTime() time.Time {
	if m.SavedAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(m.SavedAt)
}

// RosterPlayer is a known player of our team.
type RosterPlayer struct {
	Name        string `json:"name"`
	ShirtNumber *int   `json:"shirtNumber"`
}

// ---- Results ----

// Result is a match outcome from our side.
type Result string

const (
	Win  Result = "W"
	Draw Result = "D"
	Loss Result = "L"
)

// ClassifyResult maps a scoreline to W, D or L.
func ClassifyResult(ours, theirs int) Result {
	switch {
	case ours > theirs:
		return Win
	case ours == theirs:
		return Draw
	default:
		return Loss
	}
}
