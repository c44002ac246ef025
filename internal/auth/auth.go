// Package auth issues and verifies the bearer tokens the endpoints accept.
//
// Tokens are HS256 JWTs carrying the user id (sub) and email. The older
// unsigned "base64(userId:email:epochMillis)" tokens can still be accepted
// when explicitly enabled; they carry no tamper protection.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token is valid.
const TokenTTL = 24 * time.Hour

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Legacy bool   `json:"-"`
}

// Claims are the JWT claims we issue.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier signs and checks tokens.
type Verifier struct {
	secret      []byte
	allowLegacy bool
	now         func() time.Time
}

// NewVerifier returns a Verifier keyed with secret.
func NewVerifier(secret string, allowLegacy bool) *Verifier {
	return &Verifier{secret: []byte(secret), allowLegacy: allowLegacy, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Issue returns a signed token for the user, valid for TokenTTL.
func (v *Verifier) Issue(userID, email string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if len(v.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	now := v.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token and returns its principal.
func (v *Verifier) Verify(token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrMissingToken
	}
	if strings.Count(token, ".") == 2 {
		return v.verifyJWT(token)
	}
	if v.allowLegacy {
		return v.verifyLegacy(token)
	}
	return Principal{}, ErrInvalidToken
}

func (v *Verifier) verifyJWT(token string) (Principal, error) {
	if len(v.secret) == 0 {
		return Principal{}, fmt.Errorf("%w: no secret configured", ErrInvalidToken)
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now), jwt.WithExpirationRequired())
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Principal{}, ErrExpiredToken
	}
	if err != nil || !parsed.Valid {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return Principal{UserID: claims.Subject, Email: claims.Email}, nil
}

// verifyLegacy decodes base64("userId:email:epochMillis"). The user id may
// not contain ':'; the email is everything up to the last ':'.
func (v *Verifier) verifyLegacy(token string) (Principal, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(token)
	}
	if err != nil {
		return Principal{}, fmt.Errorf("%w: not base64", ErrInvalidToken)
	}
	s := string(raw)
	first := strings.Index(s, ":")
	last := strings.LastIndex(s, ":")
	if first <= 0 || last == first {
		return Principal{}, fmt.Errorf("%w: malformed", ErrInvalidToken)
	}
	ms, err := strconv.ParseInt(s[last+1:], 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: bad timestamp", ErrInvalidToken)
	}
	issued := time.UnixMilli(ms)
	if v.now().Sub(issued) > TokenTTL {
		return Principal{}, ErrExpiredToken
	}
	return Principal{UserID: s[:first], Email: s[first+1 : last], Legacy: true}, nil
}

// LegacyToken builds an unsigned legacy token. Only used to talk to older
// deployments and in tests.
func LegacyToken(userID, email string, issued time.Time) string {
	return base64.StdEncoding.EncodeToString(
		[]byte(userID + ":" + email + ":" + strconv.FormatInt(issued.UnixMilli(), 10)))
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
