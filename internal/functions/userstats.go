package functions

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/auth"
)

// handleStats serves the match statistics bundle. ?period= narrows the
// window (uncached); ?refresh=true skips the cache.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	period, err := aggregator.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	refresh := false
	if raw := r.URL.Query().Get("refresh"); raw != "" {
		if refresh, err = strconv.ParseBool(raw); err != nil {
			writeError(w, http.StatusBadRequest, "refresh must be a boolean")
			return
		}
	}

	svc := s.service(p.UserID)
	var result *aggregator.MatchStatistics
	if period == aggregator.PeriodAll {
		result, err = svc.GetStatistics(r.Context(), refresh)
	} else {
		result, err = svc.GetStatisticsForPeriod(r.Context(), period)
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("statistics request aborted")
		writeError(w, http.StatusServiceUnavailable, "statistics unavailable")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"period": period, "statistics": result})
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	players, err := s.service(p.UserID).CalculatePlayerStatistics(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("player statistics request aborted")
		writeError(w, http.StatusServiceUnavailable, "statistics unavailable")
		return
	}
	writeData(w, http.StatusOK, players)
}
