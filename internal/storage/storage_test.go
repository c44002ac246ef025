package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pable/go-match-stats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testMatch(opp string, s1, s2 int) model.MatchRecord {
	return model.MatchRecord{
		Team1Name: "Our Team",
		Team2Name: opp,
		Score1:    model.NewScore(s1),
		Score2:    model.NewScore(s2),
		Goals:     []model.GoalEvent{{Team: model.SideFirst, Scorer: "Ann", Minute: 12}},
	}
}

func TestSaveAndListUserMatches(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	saved, err := db.SaveUserMatch(ctx, "u1", testMatch("City", 2, 1))
	if err != nil {
		t.Fatalf("SaveUserMatch: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if _, err := db.SaveUserMatch(ctx, "u1", testMatch("Rangers", 0, 0)); err != nil {
		t.Fatalf("SaveUserMatch: %v", err)
	}
	if _, err := db.SaveUserMatch(ctx, "u2", testMatch("Other", 5, 0)); err != nil {
		t.Fatalf("SaveUserMatch: %v", err)
	}

	list, err := db.ListUserMatches(ctx, "u1")
	if err != nil {
		t.Fatalf("ListUserMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	// Save order is kept.
	if list[0].Team2Name != "City" || list[1].Team2Name != "Rangers" {
		t.Errorf("unexpected order: %s, %s", list[0].Team2Name, list[1].Team2Name)
	}
	if ours, theirs := list[0].Scores(); ours != 2 || theirs != 1 {
		t.Errorf("scores round-trip: got %d-%d", ours, theirs)
	}
	if len(list[0].Goals) != 1 || list[0].Goals[0].Scorer != "Ann" {
		t.Errorf("goals round-trip: %+v", list[0].Goals)
	}

	n, _ := db.CountUserMatches(ctx, "u2")
	if n != 1 {
		t.Errorf("CountUserMatches(u2) = %d, want 1", n)
	}
}

func TestSaveUserMatch_UpsertKeepsPosition(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	first, _ := db.SaveUserMatch(ctx, "u1", testMatch("City", 1, 0))
	db.SaveUserMatch(ctx, "u1", testMatch("Rangers", 0, 0))

	first.Score1 = model.NewScore(4)
	if _, err := db.SaveUserMatch(ctx, "u1", first); err != nil {
		t.Fatalf("second save should update in place: %v", err)
	}
	list, _ := db.ListUserMatches(ctx, "u1")
	if len(list) != 2 {
		t.Fatalf("expected 2 matches after upsert, got %d", len(list))
	}
	if list[0].ID != first.ID || list[0].Score1.Int() != 4 {
		t.Errorf("upsert did not update in place: %+v", list[0])
	}

	if _, err := db.SaveUserMatch(ctx, "intruder", first); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner saving another user's match id, got %v", err)
	}
}

func TestSaveUserMatch_ForeignIDLeavesRowUntouched(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	saved, _ := db.SaveUserMatch(ctx, "u1", testMatch("City", 2, 1))

	forged := testMatch("Forged", 0, 9)
	forged.ID = saved.ID
	if _, err := db.SaveUserMatch(ctx, "u2", forged); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	list, _ := db.ListUserMatches(ctx, "u1")
	if len(list) != 1 || list[0].Team2Name != "City" || list[0].Score2.Int() != 1 {
		t.Errorf("owner's row changed: %+v", list)
	}
	if n, _ := db.CountUserMatches(ctx, "u2"); n != 0 {
		t.Errorf("CountUserMatches(u2) = %d, want 0", n)
	}
}

func TestDeleteUserMatchAt(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	for _, opp := range []string{"A", "B", "C"} {
		db.SaveUserMatch(ctx, "u1", testMatch(opp, 1, 0))
	}

	removed, err := db.DeleteUserMatchAt(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("DeleteUserMatchAt: %v", err)
	}
	if removed.Team2Name != "B" {
		t.Errorf("removed %s, want B", removed.Team2Name)
	}
	list, _ := db.ListUserMatches(ctx, "u1")
	if len(list) != 2 || list[0].Team2Name != "A" || list[1].Team2Name != "C" {
		t.Errorf("unexpected remaining matches: %+v", list)
	}

	for _, idx := range []int{-1, 2, 99} {
		if _, err := db.DeleteUserMatchAt(ctx, "u1", idx); !errors.Is(err, ErrNotFound) {
			t.Errorf("index %d: expected ErrNotFound, got %v", idx, err)
		}
	}
	if _, err := db.DeleteUserMatchAt(ctx, "u2", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user: expected ErrNotFound, got %v", err)
	}
}

func TestRosterRoundTrip(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	nine := 9

	players := []model.RosterPlayer{{Name: "Zed", ShirtNumber: &nine}, {Name: "Amy"}}
	if err := db.SaveRoster(ctx, "u1", players); err != nil {
		t.Fatalf("SaveRoster: %v", err)
	}
	got, err := db.LoadRoster(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Zed" || got[1].Name != "Amy" {
		t.Fatalf("unexpected roster: %+v", got)
	}
	if got[0].ShirtNumber == nil || *got[0].ShirtNumber != 9 || got[1].ShirtNumber != nil {
		t.Errorf("shirt numbers not preserved: %+v", got)
	}

	// Replacing drops old entries.
	if err := db.SaveRoster(ctx, "u1", []model.RosterPlayer{{Name: "Bo"}}); err != nil {
		t.Fatalf("SaveRoster: %v", err)
	}
	got, _ = db.LoadRoster(ctx, "u1")
	if len(got) != 1 || got[0].Name != "Bo" {
		t.Errorf("roster not replaced: %+v", got)
	}

	// Names are unique case-insensitively.
	if err := db.SaveRoster(ctx, "u1", []model.RosterPlayer{{Name: "Bo"}, {Name: "bo"}}); err == nil {
		t.Error("expected duplicate-name error")
	}
}

func TestLocalState(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	if _, ok, err := db.GetState(ctx, "u1", "goals"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	db.SetState(ctx, "u1", "goals", "[]")
	db.SetState(ctx, "u1", "goals", `[{"team":"first"}]`)
	db.SetState(ctx, "u1", "team1Name", "Eagles")

	v, ok, err := db.GetState(ctx, "u1", "goals")
	if err != nil || !ok || v != `[{"team":"first"}]` {
		t.Errorf("GetState: %q %v %v", v, ok, err)
	}
	keys, _ := db.StateKeys(ctx, "u1")
	if len(keys) != 2 || keys[0] != "goals" || keys[1] != "team1Name" {
		t.Errorf("StateKeys: %v", keys)
	}
	if err := db.DeleteState(ctx, "u1", "goals"); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if _, ok, _ := db.GetState(ctx, "u1", "goals"); ok {
		t.Error("key still present after delete")
	}
}

func TestTeamsAndMembers(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	team, err := db.CreateTeam(ctx, model.Team{Name: "Sunday League", OwnerID: "owner", JoinCodeHash: "hash"}, "owner@example.com")
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	got, err := db.GetTeam(ctx, team.ID)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if got.Name != "Sunday League" || got.JoinCodeHash != "hash" {
		t.Errorf("GetTeam: %+v", got)
	}
	if _, err := db.GetTeam(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := db.AddTeamMember(ctx, model.TeamMember{TeamID: team.ID, UserID: "u2", Email: "u2@example.com",
		JoinedAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
	// Joining twice is a no-op apart from the email.
	if err := db.AddTeamMember(ctx, model.TeamMember{TeamID: team.ID, UserID: "u2", Email: "new@example.com"}); err != nil {
		t.Fatalf("AddTeamMember again: %v", err)
	}

	members, _ := db.ListTeamMembers(ctx, team.ID)
	if len(members) != 2 || members[0].Role != model.RoleOwner || members[1].Email != "new@example.com" {
		t.Errorf("members: %+v", members)
	}
	teams, _ := db.ListTeamsForUser(ctx, "u2")
	if len(teams) != 1 || teams[0].ID != team.ID {
		t.Errorf("ListTeamsForUser: %+v", teams)
	}

	if err := db.RemoveTeamMember(ctx, team.ID, "u2"); err != nil {
		t.Fatalf("RemoveTeamMember: %v", err)
	}
	if err := db.RemoveTeamMember(ctx, team.ID, "u2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove: expected ErrNotFound, got %v", err)
	}
	if ok, _ := db.IsTeamMember(ctx, team.ID, "owner"); !ok {
		t.Error("owner should still be a member")
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	db.SaveUserMatch(ctx, "u1", testMatch("City", 3, 1))

	cols, rows, err := db.QueryRaw("SELECT opponent, score1, NULL AS nothing FROM user_matches")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[0] != "opponent" {
		t.Errorf("cols: %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "City" || rows[0][1] != "3" || rows[0][2] != "NULL" {
		t.Errorf("rows: %v", rows)
	}
}

func TestRebindDollar(t *testing.T) {
	got := rebindDollar("SELECT * FROM t WHERE a = ? AND b IN (?, ?)")
	want := "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)"
	if got != want {
		t.Errorf("rebindDollar:\n got  %s\n want %s", got, want)
	}
}
