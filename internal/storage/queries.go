package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-match-stats/internal/model"
)

// ---- User matches ----

// SaveUserMatch stores a match for userID, assigning an id when it has none.
// Saving a match whose id already exists for the user replaces its data and
// keeps its position.
func (db *DB) SaveUserMatch(ctx context.Context, userID string, m model.MatchRecord) (model.MatchRecord, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	data, err := json.Marshal(m)
	if err != nil {
		return m, fmt.Errorf("encode match: %w", err)
	}

	// The WHERE on the update keeps another user's row untouched; the
	// upsert then reports zero affected rows.
	res, err := db.exec(ctx, `
		INSERT INTO user_matches(id, user_id, opponent, score1, score2, saved_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			opponent = excluded.opponent,
			score1   = excluded.score1,
			score2   = excluded.score2,
			saved_at = excluded.saved_at,
			data     = excluded.data
		WHERE user_matches.user_id = excluded.user_id`,
		m.ID, userID, m.Opponent(), string(m.Score1), string(m.Score2), m.SavedAt, string(data),
	)
	if err != nil {
		return m, fmt.Errorf("insert user match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return m, fmt.Errorf("insert user match: %w", err)
	}
	if n == 0 {
		return m, fmt.Errorf("match %s: %w", m.ID, ErrNotOwner)
	}
	return m, nil
}

// ListUserMatches returns the user's matches in the order they were first saved.
func (db *DB) ListUserMatches(ctx context.Context, userID string) ([]model.MatchRecord, error) {
	rows, err := db.query(ctx, `SELECT data FROM user_matches WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MatchRecord{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var m model.MatchRecord
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, fmt.Errorf("decode user match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountUserMatches returns how many matches the user has saved.
func (db *DB) CountUserMatches(ctx context.Context, userID string) (int, error) {
	var n int
	err := db.queryRow(ctx, `SELECT COUNT(1) FROM user_matches WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// DeleteUserMatchAt removes the match at position index (0-based, in
// ListUserMatches order) and returns it. ErrNotFound when out of range.
func (db *DB) DeleteUserMatchAt(ctx context.Context, userID string, index int) (model.MatchRecord, error) {
	var m model.MatchRecord
	if index < 0 {
		return m, ErrNotFound
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return m, err
	}
	defer tx.Rollback()

	var seq int64
	var data string
	err = tx.QueryRowContext(ctx,
		db.rebind(`SELECT seq, data FROM user_matches WHERE user_id = ? ORDER BY seq LIMIT 1 OFFSET ?`),
		userID, index,
	).Scan(&seq, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrNotFound
	}
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return m, fmt.Errorf("decode user match: %w", err)
	}
	if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM user_matches WHERE seq = ?`), seq); err != nil {
		return m, fmt.Errorf("delete user match: %w", err)
	}
	return m, tx.Commit()
}

// ---- Roster ----

// LoadRoster returns the user's roster in saved order.
func (db *DB) LoadRoster(ctx context.Context, userID string) ([]model.RosterPlayer, error) {
	rows, err := db.query(ctx, `
		SELECT name, shirt_number FROM roster_players
		WHERE user_id = ? ORDER BY position, name_key`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RosterPlayer{}
	for rows.Next() {
		var p model.RosterPlayer
		var shirt sql.NullInt64
		if err := rows.Scan(&p.Name, &shirt); err != nil {
			return nil, err
		}
		if shirt.Valid {
			n := int(shirt.Int64)
			p.ShirtNumber = &n
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveRoster replaces the user's roster in a transaction.
func (db *DB) SaveRoster(ctx context.Context, userID string, players []model.RosterPlayer) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM roster_players WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, db.rebind(`
		INSERT INTO roster_players(user_id, name_key, name, shirt_number, position)
		VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range players {
		var shirt sql.NullInt64
		if p.ShirtNumber != nil {
			shirt = sql.NullInt64{Int64: int64(*p.ShirtNumber), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, userID, nameKey(p.Name), p.Name, shirt, i); err != nil {
			return fmt.Errorf("insert roster player %q: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ---- Local state ----

// GetState returns the value stored under key, and whether it exists.
func (db *DB) GetState(ctx context.Context, userID, key string) (string, bool, error) {
	var v string
	err := db.queryRow(ctx, `SELECT value FROM local_state WHERE user_id = ? AND key = ?`, userID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetState upserts a value.
func (db *DB) SetState(ctx context.Context, userID, key, value string) error {
	_, err := db.exec(ctx, `
		INSERT INTO local_state(user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, key, value, time.Now().UnixMilli(),
	)
	return err
}

// DeleteState removes a key. Missing keys are not an error.
func (db *DB) DeleteState(ctx context.Context, userID, key string) error {
	_, err := db.exec(ctx, `DELETE FROM local_state WHERE user_id = ? AND key = ?`, userID, key)
	return err
}

// StateKeys lists the user's stored keys.
func (db *DB) StateKeys(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.query(ctx, `SELECT key FROM local_state WHERE user_id = ? ORDER BY key`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
