package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pable/go-match-stats/internal/cloud"
	"github.com/pable/go-match-stats/internal/roster"
	"github.com/pable/go-match-stats/internal/source"
	"github.com/pable/go-match-stats/internal/stats"
	"github.com/pable/go-match-stats/internal/storage"
)

// openStore opens Postgres when POSTGRES_DSN is set, otherwise the SQLite
// file at --db (creating its directory).
func openStore() (*storage.DB, error) {
	if cfg.PostgresDSN == "" && dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Connect(dbPath, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// cloudClient returns nil unless both --endpoint and --token are set.
func cloudClient() *cloud.Client {
	if endpoint == "" || token == "" {
		return nil
	}
	return cloud.NewClient(endpoint, token)
}

func localState(db *storage.DB) source.DBState {
	return source.DBState{DB: db, UserID: userID}
}

// matchChain resolves matches the way the tracker does: cloud, then the
// in-progress match, then the locally saved list.
func matchChain(db *storage.DB) *source.Chain {
	c := &source.Chain{
		Local: localState(db),
		Defaults: source.Defaults{
			Team1Name: appCfg.Team.DefaultTeam1,
			Team2Name: appCfg.Team.DefaultTeam2,
			GameTime:  appCfg.Match.DefaultGameTime,
		},
		Log: logger,
	}
	if cl := cloudClient(); cl != nil {
		c.Cloud = cl
	}
	return c
}

// newService builds a statistics service over matchChain. A nil roster uses
// the user's stored roster.
func newService(db *storage.DB, r stats.RosterSource) *stats.Service {
	if r == nil {
		r = roster.NewManager(db, userID)
	}
	return stats.NewService(matchChain(db), r, stats.Options{
		TTL:    cfg.StatsTTL,
		Logger: logger,
	})
}
