package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jonathan/career-recommender/internal/config"
	"github.com/jonathan/career-recommender/internal/history"
	"github.com/jonathan/career-recommender/internal/server/ratelimit"
	"github.com/jonathan/career-recommender/internal/types"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: 10}
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 24}
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
}

func (c *memoryCache) Close() error { return nil }

type fakeEnricher struct {
	err   error
	calls int
}

func (f *fakeEnricher) Enrich(_ context.Context, _ []string, recs []types.CareerRecommendation) ([]types.CareerRecommendation, error) {
	f.calls++
	if f.err != nil {
		return recs, f.err
	}
	out := append([]types.CareerRecommendation(nil), recs...)
	for i := range out {
		out[i].Insight = &types.Insight{Overview: "About " + out[i].Role}
	}
	return out, nil
}

// newTestServer builds a server on in-memory stores with rate limiting off
// unless deps says otherwise.
func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.Users == nil {
		deps.Users = NewMemoryUsers()
	}
	if deps.History == nil {
		deps.History = history.NewMemoryStore()
	}
	if deps.RateLimit == nil {
		deps.RateLimit = &ratelimit.Config{Enabled: false}
	}
	deps.JWT = testJWTConfig()
	deps.Password = testPasswordConfig()

	s := NewWithDeps(deps)
	t.Cleanup(s.Close)
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := newRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(h, req)
}

func newRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = "192.0.2.1:1234"
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// registerUser signs up through the API and returns the session token.
func registerUser(t *testing.T, h http.Handler, email string) types.LoginResponse {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/auth/register", "", types.CreateUserRequest{
		Name: "Test User", Email: email, Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}
