// Package source resolves the list of match records to aggregate: the cloud
// endpoint first, then the in-progress local match, then locally saved matches.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/storage"
)

// Local state keys written by the match tracker.
const (
	KeyGoals        = "goals"
	KeyMatchEvents  = "matchEvents"
	KeyTeam1Name    = "team1Name"
	KeyTeam2Name    = "team2Name"
	KeyGameTime     = "gameTime"
	KeySavedMatches = "savedMatches"
)

// CurrentMatchID identifies the synthesized in-progress match.
const CurrentMatchID = "current"

// Loader fetches saved matches from a remote store.
type Loader interface {
	LoadMatches(ctx context.Context) ([]model.MatchRecord, error)
}

// StateReader reads one key of the tracker's local state.
type StateReader interface {
	GetState(ctx context.Context, key string) (string, bool, error)
}

// DBState reads local state for one user from the match store.
type DBState struct {
	DB     *storage.DB
	UserID string
}

func (s DBState) GetState(ctx context.Context, key string) (string, bool, error) {
	return s.DB.GetState(ctx, s.UserID, key)
}

// Defaults are the tracker's initial values; local state equal to them
// means no match is in progress.
type Defaults struct {
	Team1Name string
	Team2Name string
	GameTime  int
}

// Chain tries each source in turn. Cloud and Local may be nil.
type Chain struct {
	Cloud    Loader
	Local    StateReader
	Defaults Defaults
	Log      zerolog.Logger
}

// GetAllMatches never returns an error for a failing source: failures are
// logged and the next source is tried, ending with an empty list.
func (c *Chain) GetAllMatches(ctx context.Context) ([]model.MatchRecord, error) {
	if c.Cloud != nil {
		matches, err := c.Cloud.LoadMatches(ctx)
		switch {
		case err != nil:
			c.Log.Warn().Err(err).Msg("cloud load failed; falling back to local data")
		case len(matches) > 0:
			return matches, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Local == nil {
		return []model.MatchRecord{}, nil
	}

	current, ok, err := c.currentMatch(ctx)
	if err != nil {
		c.Log.Warn().Err(err).Msg("read in-progress match failed")
	} else if ok {
		return []model.MatchRecord{current}, nil
	}

	saved, err := c.savedMatches(ctx)
	if err != nil {
		c.Log.Warn().Err(err).Msg("read saved matches failed")
		return []model.MatchRecord{}, nil
	}
	return saved, nil
}

// currentMatch rebuilds the in-progress match from individual state keys. It
// reports false when every key still holds its default value.
func (c *Chain) currentMatch(ctx context.Context) (model.MatchRecord, bool, error) {
	d := c.defaults()
	m := model.MatchRecord{
		ID:        CurrentMatchID,
		Team1Name: d.Team1Name,
		Team2Name: d.Team2Name,
		GameTime:  d.GameTime,
		Goals:     []model.GoalEvent{},
	}
	changed := false

	if raw, ok, err := c.Local.GetState(ctx, KeyGoals); err != nil {
		return m, false, err
	} else if ok && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &m.Goals); err != nil {
			return m, false, fmt.Errorf("decode %s: %w", KeyGoals, err)
		}
		changed = changed || len(m.Goals) > 0
	}
	if raw, ok, err := c.Local.GetState(ctx, KeyMatchEvents); err != nil {
		return m, false, err
	} else if ok && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &m.MatchEvents); err != nil {
			return m, false, fmt.Errorf("decode %s: %w", KeyMatchEvents, err)
		}
		changed = changed || len(m.MatchEvents) > 0
	}
	for _, f := range []struct {
		key  string
		dst  *string
		orig string
	}{{KeyTeam1Name, &m.Team1Name, d.Team1Name}, {KeyTeam2Name, &m.Team2Name, d.Team2Name}} {
		raw, ok, err := c.Local.GetState(ctx, f.key)
		if err != nil {
			return m, false, err
		}
		if v := strings.TrimSpace(raw); ok && v != "" {
			*f.dst = v
			changed = changed || v != f.orig
		}
	}
	if raw, ok, err := c.Local.GetState(ctx, KeyGameTime); err != nil {
		return m, false, err
	} else if ok {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v > 0 {
			m.GameTime = v
			changed = changed || v != d.GameTime
		}
	}
	if !changed {
		return m, false, nil
	}

	ours, theirs := 0, 0
	for _, g := range m.Goals {
		if g.Team == model.SideFirst {
			ours++
		} else {
			theirs++
		}
	}
	m.Score1, m.Score2 = model.NewScore(ours), model.NewScore(theirs)
	return m, true, nil
}

func (c *Chain) savedMatches(ctx context.Context) ([]model.MatchRecord, error) {
	raw, ok, err := c.Local.GetState(ctx, KeySavedMatches)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.MatchRecord{}, nil
	}
	var matches []model.MatchRecord
	if err := json.Unmarshal([]byte(raw), &matches); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeySavedMatches, err)
	}
	if matches == nil {
		matches = []model.MatchRecord{}
	}
	return matches, nil
}

func (c *Chain) defaults() Defaults {
	d := c.Defaults
	if d.Team1Name == "" {
		d.Team1Name = "Team 1"
	}
	if d.Team2Name == "" {
		d.Team2Name = "Team 2"
	}
	if d.GameTime == 0 {
		d.GameTime = model.DefaultGameTime
	}
	return d
}

// StateStore reads and writes the tracker's local state.
type StateStore interface {
	StateReader
	SetState(ctx context.Context, key, value string) error
}

func (s DBState) SetState(ctx context.Context, key, value string) error {
	return s.DB.SetState(ctx, s.UserID, key, value)
}

// LocalMatches returns the locally saved match list, or an empty list.
func LocalMatches(ctx context.Context, r StateReader) ([]model.MatchRecord, error) {
	return (&Chain{Local: r}).savedMatches(ctx)
}

// AppendLocalMatches adds matches to the end of the locally saved list.
func AppendLocalMatches(ctx context.Context, s StateStore, matches ...model.MatchRecord) ([]model.MatchRecord, error) {
	saved, err := LocalMatches(ctx, s)
	if err != nil {
		return nil, err
	}
	saved = append(saved, matches...)
	return saved, writeLocalMatches(ctx, s, saved)
}

// DeleteLocalMatch removes the match at index from the locally saved list.
func DeleteLocalMatch(ctx context.Context, s StateStore, index int) (model.MatchRecord, error) {
	saved, err := LocalMatches(ctx, s)
	if err != nil {
		return model.MatchRecord{}, err
	}
	if index < 0 || index >= len(saved) {
		return model.MatchRecord{}, fmt.Errorf("match index %d out of range (have %d): %w", index, len(saved), storage.ErrNotFound)
	}
	removed := saved[index]
	saved = append(saved[:index], saved[index+1:]...)
	return removed, writeLocalMatches(ctx, s, saved)
}

func writeLocalMatches(ctx context.Context, s StateStore, matches []model.MatchRecord) error {
	b, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeySavedMatches, err)
	}
	return s.SetState(ctx, KeySavedMatches, string(b))
}
