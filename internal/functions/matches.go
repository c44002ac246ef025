package functions

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pable/go-match-stats/internal/auth"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/storage"
)

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	matches, err := s.db.ListUserMatches(r.Context(), p.UserID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list matches")
		writeError(w, http.StatusInternalServerError, "failed to load matches")
		return
	}
	if len(matches) == 0 {
		writeError(w, http.StatusNotFound, "no matches found")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"matches": matches})
}

func (s *Server) handleSaveMatch(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	var m model.MatchRecord
	if err := decodeBody(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validate.StructCtx(r.Context(), m); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if m.SavedAt == 0 {
		m.SavedAt = s.opts.Now().UnixMilli()
	}

	saved, err := s.db.SaveUserMatch(r.Context(), p.UserID, m)
	if errors.Is(err, storage.ErrNotOwner) {
		writeError(w, http.StatusForbidden, "match belongs to another user")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("save match")
		writeError(w, http.StatusInternalServerError, "failed to save match")
		return
	}
	s.invalidate(p.UserID)

	zerolog.Ctx(r.Context()).Info().Str("user_id", p.UserID).Str("match_id", saved.ID).
		Str("opponent", saved.Opponent()).Msg("match saved")
	writeData(w, http.StatusCreated, saved)
}

type deleteMatchRequest struct {
	UserID     string `json:"userId"`
	MatchIndex *int   `json:"matchIndex" validate:"required,gte=0"`
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	var req deleteMatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validate.StructCtx(r.Context(), req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if req.UserID != "" && req.UserID != p.UserID {
		writeError(w, http.StatusForbidden, "cannot delete another user's matches")
		return
	}

	deleted, err := s.db.DeleteUserMatchAt(r.Context(), p.UserID, *req.MatchIndex)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("delete match")
		writeError(w, http.StatusInternalServerError, "failed to delete match")
		return
	}
	s.invalidate(p.UserID)

	remaining, err := s.db.CountUserMatches(r.Context(), p.UserID)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("count matches after delete")
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": deleted, "remaining": remaining})
}
