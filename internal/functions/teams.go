package functions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pable/go-match-stats/internal/auth"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/storage"
)

// joinCodeLen is the length of the code handed to a team's owner.
const joinCodeLen = 10

// newJoinCode returns an upper-case hex code. Only its bcrypt hash is stored.
func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:joinCodeLen])
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	teams, err := s.db.ListTeamsForUser(r.Context(), p.UserID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list teams")
		writeError(w, http.StatusInternalServerError, "failed to load teams")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"teams": teams})
}

type createTeamRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	var req createTeamRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	team := model.Team{
		Name:      strings.TrimSpace(req.Name),
		OwnerID:   p.UserID,
		CreatedAt: s.opts.Now().UTC(),
	}
	if err := s.validate.StructCtx(r.Context(), team); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	code := newJoinCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("hash join code")
		writeError(w, http.StatusInternalServerError, "failed to create team")
		return
	}
	team.JoinCodeHash = string(hash)

	team, err = s.db.CreateTeam(r.Context(), team, p.Email)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("create team")
		writeError(w, http.StatusInternalServerError, "failed to create team")
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("team_id", team.ID).Str("owner", p.UserID).Msg("team created")
	writeData(w, http.StatusCreated, map[string]any{"team": team, "joinCode": code})
}

type joinTeamRequest struct {
	JoinCode string `json:"joinCode" validate:"required"`
}

func (s *Server) handleJoinTeam(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	team, ok := s.loadTeam(w, r)
	if !ok {
		return
	}
	var req joinTeamRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validate.StructCtx(r.Context(), req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.JoinCode))
	if err := bcrypt.CompareHashAndPassword([]byte(team.JoinCodeHash), []byte(code)); err != nil {
		writeError(w, http.StatusForbidden, "invalid join code")
		return
	}

	err := s.db.AddTeamMember(r.Context(), model.TeamMember{
		TeamID:   team.ID,
		UserID:   p.UserID,
		Email:    p.Email,
		Role:     model.RoleMember,
		JoinedAt: s.opts.Now().UTC(),
	})
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("join team")
		writeError(w, http.StatusInternalServerError, "failed to join team")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"team": team})
}

func (s *Server) handleLeaveTeam(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	team, ok := s.loadTeam(w, r)
	if !ok {
		return
	}
	if team.OwnerID == p.UserID {
		writeError(w, http.StatusConflict, "the owner cannot leave the team")
		return
	}
	err := s.db.RemoveTeamMember(r.Context(), team.ID, p.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not a member of this team")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("leave team")
		writeError(w, http.StatusInternalServerError, "failed to leave team")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"teamId": team.ID, "left": true})
}

func (s *Server) handleTeamMembers(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	team, ok := s.loadTeam(w, r)
	if !ok {
		return
	}
	member, err := s.db.IsTeamMember(r.Context(), team.ID, p.UserID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("check membership")
		writeError(w, http.StatusInternalServerError, "failed to load members")
		return
	}
	if !member {
		writeError(w, http.StatusForbidden, "not a member of this team")
		return
	}
	members, err := s.db.ListTeamMembers(r.Context(), team.ID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list members")
		writeError(w, http.StatusInternalServerError, "failed to load members")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"team": team, "members": members})
}

// loadTeam resolves {teamID}, writing a 404 when it does not exist.
func (s *Server) loadTeam(w http.ResponseWriter, r *http.Request) (model.Team, bool) {
	team, err := s.db.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "team not found")
		return team, false
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load team")
		writeError(w, http.StatusInternalServerError, "failed to load team")
		return team, false
	}
	return team, true
}
