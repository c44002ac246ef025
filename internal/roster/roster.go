// Package roster manages the list of known players for our team and builds
// per-match attendance from it.
package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pable/go-match-stats/internal/model"
)

// MaxShirtNumber is the highest shirt number accepted.
const MaxShirtNumber = 99

var (
	ErrEmptyName          = errors.New("player name is required")
	ErrDuplicatePlayer    = errors.New("player already on roster")
	ErrPlayerNotFound     = errors.New("player not on roster")
	ErrShirtNumberTaken   = errors.New("shirt number already taken")
	ErrInvalidShirtNumber = fmt.Errorf("shirt number must be between 0 and %d", MaxShirtNumber)
)

// Store persists one user's roster.
type Store interface {
	LoadRoster(ctx context.Context, userID string) ([]model.RosterPlayer, error)
	SaveRoster(ctx context.Context, userID string, players []model.RosterPlayer) error
}

// Manager is the roster for one user. Every mutation is written through to
// the store before it becomes visible.
type Manager struct {
	store  Store
	userID string

	mu      sync.Mutex
	players []model.RosterPlayer
	loaded  bool
}

// NewManager returns a Manager that loads lazily from store.
func NewManager(store Store, userID string) *Manager {
	return &Manager{store: store, userID: userID}
}

// GetRoster returns a sorted copy of the roster: shirt number ascending,
// players without a number last, then by name.
func (m *Manager) GetRoster(ctx context.Context) ([]model.RosterPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return nil, err
	}
	return clonePlayers(m.players), nil
}

// AddPlayer adds a player. Names are trimmed and must be unique ignoring case.
func (m *Manager) AddPlayer(ctx context.Context, name string, shirt *int) (model.RosterPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return model.RosterPlayer{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return model.RosterPlayer{}, ErrEmptyName
	}
	if m.indexOf(name) >= 0 {
		return model.RosterPlayer{}, fmt.Errorf("%w: %s", ErrDuplicatePlayer, name)
	}
	if err := m.checkShirt(shirt, -1); err != nil {
		return model.RosterPlayer{}, err
	}

	p := model.RosterPlayer{Name: name, ShirtNumber: copyInt(shirt)}
	next := append(clonePlayers(m.players), p)
	if err := m.save(ctx, next); err != nil {
		return model.RosterPlayer{}, err
	}
	return p, nil
}

// UpdatePlayer renames a player and sets their shirt number.
func (m *Manager) UpdatePlayer(ctx context.Context, oldName, newName string, shirt *int) (model.RosterPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return model.RosterPlayer{}, err
	}

	i := m.indexOf(oldName)
	if i < 0 {
		return model.RosterPlayer{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, oldName)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return model.RosterPlayer{}, ErrEmptyName
	}
	if j := m.indexOf(newName); j >= 0 && j != i {
		return model.RosterPlayer{}, fmt.Errorf("%w: %s", ErrDuplicatePlayer, newName)
	}
	if err := m.checkShirt(shirt, i); err != nil {
		return model.RosterPlayer{}, err
	}

	next := clonePlayers(m.players)
	next[i] = model.RosterPlayer{Name: newName, ShirtNumber: copyInt(shirt)}
	if err := m.save(ctx, next); err != nil {
		return model.RosterPlayer{}, err
	}
	return next[i], nil
}

// RemovePlayer deletes a player by name, ignoring case.
func (m *Manager) RemovePlayer(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return err
	}
	i := m.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	next := clonePlayers(m.players)
	next = append(next[:i], next[i+1:]...)
	return m.save(ctx, next)
}

// Clear empties the roster.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(ctx, []model.RosterPlayer{})
}

// ImportNames adds every new name in names, skipping blanks and names already
// present (ignoring case). It returns how many were added.
func (m *Manager) ImportNames(ctx context.Context, names []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return 0, err
	}

	next := clonePlayers(m.players)
	seen := make(map[string]bool, len(next)+len(names))
	for _, p := range next {
		seen[key(p.Name)] = true
	}
	added := 0
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[key(n)] {
			continue
		}
		seen[key(n)] = true
		next = append(next, model.RosterPlayer{Name: n})
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := m.save(ctx, next); err != nil {
		return 0, err
	}
	return added, nil
}

func (m *Manager) load(ctx context.Context) error {
	if m.loaded {
		return nil
	}
	players, err := m.store.LoadRoster(ctx, m.userID)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	sortPlayers(players)
	m.players = players
	m.loaded = true
	return nil
}

func (m *Manager) save(ctx context.Context, players []model.RosterPlayer) error {
	sortPlayers(players)
	if err := m.store.SaveRoster(ctx, m.userID, players); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	m.players = players
	m.loaded = true
	return nil
}

func (m *Manager) indexOf(name string) int {
	k := key(name)
	for i, p := range m.players {
		if key(p.Name) == k {
			return i
		}
	}
	return -1
}

// checkShirt validates shirt against every player except index skip.
func (m *Manager) checkShirt(shirt *int, skip int) error {
	if shirt == nil {
		return nil
	}
	if *shirt < 0 || *shirt > MaxShirtNumber {
		return ErrInvalidShirtNumber
	}
	for i, p := range m.players {
		if i != skip && p.ShirtNumber != nil && *p.ShirtNumber == *shirt {
			return fmt.Errorf("%w: #%d (%s)", ErrShirtNumberTaken, *shirt, p.Name)
		}
	}
	return nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sortPlayers(players []model.RosterPlayer) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i].ShirtNumber, players[j].ShirtNumber
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return key(players[i].Name) < key(players[j].Name)
	})
}

func clonePlayers(players []model.RosterPlayer) []model.RosterPlayer {
	out := make([]model.RosterPlayer, len(players))
	for i, p := range players {
		out[i] = model.RosterPlayer{Name: p.Name, ShirtNumber: copyInt(p.ShirtNumber)}
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// BuildAttendance returns one record per roster player, attending when the
// player's name is in present (ignoring case). Records carry the roster
// spelling so they match exactly during aggregation.
func BuildAttendance(roster []model.RosterPlayer, present []string) []model.AttendanceRecord {
	in := make(map[string]bool, len(present))
	for _, n := range present {
		in[key(n)] = true
	}
	out := make([]model.AttendanceRecord, 0, len(roster))
	for _, p := range roster {
		out = append(out, model.AttendanceRecord{PlayerName: p.Name, Attending: in[key(p.Name)]})
	}
	return out
}
