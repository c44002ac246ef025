// Package functions serves the user-matches, user-stats and teams endpoints.
// The same router runs behind API Gateway on AWS Lambda or as a plain HTTP
// server, and answers on both "/<name>" and "/.netlify/functions/<name>".
package functions

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/pable/go-match-stats/internal/auth"
	"github.com/pable/go-match-stats/internal/logging"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/stats"
	"github.com/pable/go-match-stats/internal/storage"
)

// NetlifyPrefix is where the hosted client expects the functions.
const NetlifyPrefix = "/.netlify/functions"

// DefaultServiceCacheSize bounds how many users keep a warm stats service.
const DefaultServiceCacheSize = 1024

// Options configures a Server. Zero values pick the defaults.
type Options struct {
	StatsTTL         time.Duration
	CORSOrigins      []string
	ServiceCacheSize int
	Logger           zerolog.Logger
	Now              func() time.Time
}

type Server struct {
	db       *storage.DB
	verifier *auth.Verifier
	validate *validator.Validate
	services *lru.Cache[string, *stats.Service]
	opts     Options
}

func NewServer(db *storage.DB, verifier *auth.Verifier, opts Options) (*Server, error) {
	if opts.ServiceCacheSize <= 0 {
		opts.ServiceCacheSize = DefaultServiceCacheSize
	}
	if opts.StatsTTL <= 0 {
		opts.StatsTTL = stats.DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	services, err := lru.New[string, *stats.Service](opts.ServiceCacheSize)
	if err != nil {
		return nil, err
	}
	return &Server{
		db:       db,
		verifier: verifier,
		validate: newValidator(),
		services: services,
		opts:     opts,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(s.opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Group(s.mountAPI)
	r.Route(NetlifyPrefix, s.mountAPI)

	return r
}

func (s *Server) mountAPI(r chi.Router) {
	r.Use(s.verifier.Middleware)

	r.Get("/user-matches", s.handleListMatches)
	r.Put("/user-matches", s.handleSaveMatch)
	r.Post("/user-matches", s.handleSaveMatch)
	r.Delete("/user-matches", s.handleDeleteMatch)

	r.Get("/user-stats", s.handleStats)
	r.Get("/user-stats/players", s.handlePlayerStats)

	r.Get("/teams", s.handleListTeams)
	r.Post("/teams", s.handleCreateTeam)
	r.Post("/teams/{teamID}/join", s.handleJoinTeam)
	r.Post("/teams/{teamID}/leave", s.handleLeaveTeam)
	r.Get("/teams/{teamID}/members", s.handleTeamMembers)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok", "dialect": string(s.db.Dialect())})
}

// service returns the user's warm stats service, creating it on first use.
func (s *Server) service(userID string) *stats.Service {
	if svc, ok := s.services.Get(userID); ok {
		return svc
	}
	svc := stats.NewService(
		stats.MatchSourceFunc(func(ctx context.Context) ([]model.MatchRecord, error) {
			return s.db.ListUserMatches(ctx, userID)
		}),
		dbRoster{db: s.db, userID: userID},
		stats.Options{
			TTL:    s.opts.StatsTTL,
			Now:    s.opts.Now,
			Logger: s.opts.Logger.With().Str("user_id", userID).Logger(),
		},
	)
	// Concurrent first requests may both build one; keep whichever landed.
	if prev, ok, _ := s.services.PeekOrAdd(userID, svc); ok {
		return prev
	}
	return svc
}

// invalidate drops the user's cached statistics after a write.
func (s *Server) invalidate(userID string) {
	if svc, ok := s.services.Peek(userID); ok {
		svc.Invalidate()
	}
}

// dbRoster reads the roster on every call so edits made elsewhere show up.
type dbRoster struct {
	db     *storage.DB
	userID string
}

func (r dbRoster) GetRoster(ctx context.Context) ([]model.RosterPlayer, error) {
	return r.db.LoadRoster(ctx, r.userID)
}
