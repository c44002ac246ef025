package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Middleware rejects requests without a valid bearer token with a JSON 401
// and stores the principal in the request context otherwise.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := v.Verify(BearerToken(r.Header.Get("Authorization")))
		if err != nil {
			msg := "invalid token"
			switch {
			case errors.Is(err, ErrMissingToken):
				msg = "missing authorization token"
			case errors.Is(err, ErrExpiredToken):
				msg = "token expired"
			}
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("auth rejected")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": msg})
			return
		}
		if p.Legacy {
			zerolog.Ctx(r.Context()).Warn().Str("user_id", p.UserID).Msg("legacy unsigned token accepted")
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
