package history

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

	"github.com/jonathan/career-recommender/internal/schemas"
	"github.com/jonathan/career-recommender/internal/types"
)

const remoteTimeout = 15 * time.Second

// TokenSource supplies the bearer token for the signed-in user.
type TokenSource interface {
	Token() (string, error)
}

// RemoteError is a non-2xx response from the history API.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("history %s failed [HTTP %d]: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("history %s failed [HTTP %d]", e.Op, e.StatusCode)
}

// RemoteStore talks to GET/POST /me/history on the recommendation service.
// The user is identified by the bearer token; uid only guards against
// calls made while signed out.
type RemoteStore struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// NewRemoteStore creates a store against baseURL.
func NewRemoteStore(baseURL string, tokens TokenSource) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: remoteTimeout},
	}
}

// Append posts entry. A 409 from the server maps to ErrDuplicateEntry.
func (s *RemoteStore) Append(ctx context.Context, uid string, entry types.HistoryEntry) error {
	if uid == "" {
		return ErrMissingUser
	}

	body, err := json.Marshal(types.AppendHistoryRequest{
		ID:              entry.ID,
		Skills:          entry.Skills,
		Recommendations: entry.Recommendations.Careers,
		CreatedAt:       entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusConflict {
		return ErrDuplicateEntry
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError("append", resp)
	}
	return nil
}

// ListAll fetches every entry for the signed-in user.
func (s *RemoteStore) ListAll(ctx context.Context, uid string) ([]types.HistoryEntry, error) {
	if uid == "" {
		return nil, ErrMissingUser
	}

	resp, err := s.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remoteError("list", resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read history response: %w", err)
	}
	if err := schemas.Validate(schemas.HistoryList, payload); err != nil {
		return nil, err
	}

	var list types.HistoryListResponse
	if err := json.Unmarshal(payload, &list); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}
	return list.Entries, nil
}

func (s *RemoteStore) do(ctx context.Context, method string, body []byte) (*http.Response, error) {
	token, err := s.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("no session token: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/me/history", reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	return resp, nil
}

func remoteError(op string, resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: body.Error}
}

// IsUnauthorized reports whether err is a 401 from the history API.
func IsUnauthorized(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusUnauthorized
}
