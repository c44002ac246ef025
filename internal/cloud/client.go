// Package cloud provides a minimal client for the user-matches endpoint.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pable/go-match-stats/internal/model"
)

// MatchesPath is the user-matches endpoint relative to the base URL.
const MatchesPath = "/user-matches"

// ErrUnauthorized is returned when the endpoint rejects the token.
var ErrUnauthorized = errors.New("unauthorized")

// Client talks to a match-storage endpoint with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for the endpoint at baseURL (for example
// "https://example.netlify.app/.netlify/functions").
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the {"data": ...} wrapper every response uses.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Code, e.Msg)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// do performs an authenticated request, JSON-encoding body when non-nil and
// decoding the envelope's data into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Msg: env.Error}
	}
	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// LoadMatches fetches every saved match. A 404 means nothing has been saved yet.
func (c *Client) LoadMatches(ctx context.Context) ([]model.MatchRecord, error) {
	var data struct {
		Matches []model.MatchRecord `json:"matches"`
	}
	err := c.do(ctx, http.MethodGet, MatchesPath, nil, &data)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return []model.MatchRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	if data.Matches == nil {
		data.Matches = []model.MatchRecord{}
	}
	return data.Matches, nil
}

// SaveMatch uploads one match and returns it as stored (with its id).
func (c *Client) SaveMatch(ctx context.Context, m model.MatchRecord) (model.MatchRecord, error) {
	var saved model.MatchRecord
	if err := c.do(ctx, http.MethodPut, MatchesPath, m, &saved); err != nil {
		return m, err
	}
	return saved, nil
}

// DeleteMatch removes the match at position index for userID.
func (c *Client) DeleteMatch(ctx context.Context, userID string, index int) error {
	body := struct {
		UserID     string `json:"userId"`
		MatchIndex int    `json:"matchIndex"`
	}{userID, index}
	return c.do(ctx, http.MethodDelete, MatchesPath, body, nil)
}
