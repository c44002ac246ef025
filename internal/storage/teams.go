package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-match-stats/internal/model"
)

// CreateTeam inserts a team and its owner's membership in one transaction.
func (db *DB) CreateTeam(ctx context.Context, t model.Team, ownerEmail string) (model.Team, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return t, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, db.rebind(`
		INSERT INTO teams(id, name, owner_id, join_code_hash, created_at) VALUES (?, ?, ?, ?, ?)`),
		t.ID, t.Name, t.OwnerID, t.JoinCodeHash, t.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return t, fmt.Errorf("insert team: %w", err)
	}
	_, err = tx.ExecContext(ctx, db.rebind(`
		INSERT INTO team_members(team_id, user_id, email, role, joined_at) VALUES (?, ?, ?, ?, ?)`),
		t.ID, t.OwnerID, ownerEmail, model.RoleOwner, t.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return t, fmt.Errorf("insert team owner: %w", err)
	}
	return t, tx.Commit()
}

// GetTeam returns a team by id, or ErrNotFound.
func (db *DB) GetTeam(ctx context.Context, id string) (model.Team, error) {
	var t model.Team
	var created int64
	err := db.queryRow(ctx, `
		SELECT id, name, owner_id, join_code_hash, created_at FROM teams WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.OwnerID, &t.JoinCodeHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	t.CreatedAt = time.UnixMilli(created).UTC()
	return t, nil
}

// ListTeamsForUser returns every team the user belongs to, oldest first.
func (db *DB) ListTeamsForUser(ctx context.Context, userID string) ([]model.Team, error) {
	rows, err := db.query(ctx, `
		SELECT t.id, t.name, t.owner_id, t.created_at
		FROM teams t JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = ?
		ORDER BY t.created_at, t.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Team{}
	for rows.Next() {
		var t model.Team
		var created int64
		if err := rows.Scan(&t.ID, &t.Name, &t.OwnerID, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

// AddTeamMember upserts a membership; re-joining refreshes the email.
func (db *DB) AddTeamMember(ctx context.Context, m model.TeamMember) error {
	if m.Role == "" {
		m.Role = model.RoleMember
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	_, err := db.exec(ctx, `
		INSERT INTO team_members(team_id, user_id, email, role, joined_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(team_id, user_id) DO UPDATE SET email = excluded.email`,
		m.TeamID, m.UserID, m.Email, m.Role, m.JoinedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert team member: %w", err)
	}
	return nil
}

// RemoveTeamMember deletes a membership, or returns ErrNotFound.
func (db *DB) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	res, err := db.exec(ctx, `DELETE FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTeamMembers returns a team's members, owner first.
func (db *DB) ListTeamMembers(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	rows, err := db.query(ctx, `
		SELECT team_id, user_id, email, role, joined_at FROM team_members
		WHERE team_id = ?
		ORDER BY CASE WHEN role = 'owner' THEN 0 ELSE 1 END, joined_at, user_id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TeamMember{}
	for rows.Next() {
		var m model.TeamMember
		var joined int64
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Email, &m.Role, &joined); err != nil {
			return nil, err
		}
		m.JoinedAt = time.UnixMilli(joined).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// IsTeamMember reports whether userID belongs to teamID.
func (db *DB) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	var count int
	err := db.queryRow(ctx, `SELECT COUNT(1) FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
