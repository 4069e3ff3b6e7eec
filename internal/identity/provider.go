// Package identity provides the token-based sign-in used by the CLI.
//
// The session token issued by POST /auth/login is cached in a JSON file.
// Claims are read without verifying the signature; the server verifies
// every request, so the client only needs the user id and the expiry.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonathan/career-recommender/internal/types"
)

// ErrNotSignedIn is returned by Token when there is no usable session.
var ErrNotSignedIn = errors.New("not signed in")

// Credentials are the email and password sent to /auth/login.
type Credentials struct {
	Email    string
	Password string
}

// CredentialsFunc supplies credentials at sign-in time, e.g. by prompting.
type CredentialsFunc func(ctx context.Context) (Credentials, error)

// Options configures a TokenProvider.
type Options struct {
	BaseURL     string
	TokenPath   string
	Credentials CredentialsFunc
	HTTPClient  *http.Client
	Now         func() time.Time
}

// storedSession is the on-disk token file.
type storedSession struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// tokenClaims are the claims the server puts in a session token.
type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenProvider is a file-backed identity provider.
type TokenProvider struct {
	baseURL     string
	path        string
	credentials CredentialsFunc
	http        *http.Client
	now         func() time.Time

	mu     sync.Mutex
	subs   map[int]func(types.Session)
	nextID int
}

// DefaultTokenPath returns ~/.career_agent/session.json.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".career_agent", "session.json")
}

// NewTokenProvider creates a provider.
func NewTokenProvider(opts Options) *TokenProvider {
	path := opts.TokenPath
	if path == "" {
		path = DefaultTokenPath()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &TokenProvider{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		path:        path,
		credentials: opts.Credentials,
		http:        httpClient,
		now:         now,
		subs:        make(map[int]func(types.Session)),
	}
}

// Subscribe registers fn and immediately reports the cached session.
func (p *TokenProvider) Subscribe(fn func(types.Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	fn(p.Current())

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Current returns the session described by the token file. A missing,
// unreadable, or expired token is reported as anonymous.
func (p *TokenProvider) Current() types.Session {
	stored, claims, err := p.load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[identity] ignoring cached session: %v", err)
		}
		return types.AnonymousSession()
	}

	name := stored.User.Name
	if name == "" {
		name = stored.User.Email
	}
	return types.AuthenticatedSession(claims.UserID, name)
}

// Token returns the cached bearer token when it has not expired.
func (p *TokenProvider) Token() (string, error) {
	stored, _, err := p.load()
	if err != nil {
		return "", ErrNotSignedIn
	}
	return stored.Token, nil
}

// SignIn exchanges credentials for a token, caches it, and notifies subscribers.
func (p *TokenProvider) SignIn(ctx context.Context) error {
	if p.credentials == nil {
		return &AuthError{Op: "sign in", Message: "no credentials source configured"}
	}
	creds, err := p.credentials(ctx)
	if err != nil {
		return &AuthError{Op: "sign in", Message: "failed to read credentials", Cause: err}
	}

	login, err := p.login(ctx, creds)
	if err != nil {
		return err
	}

	if _, err := p.parseClaims(login.Token); err != nil {
		return &AuthError{Op: "sign in", Message: "server returned an unusable token", Cause: err}
	}

	stored := storedSession{Token: login.Token}
	if login.User != nil {
		stored.User = *login.User
	}
	if err := p.save(stored); err != nil {
		return &AuthError{Op: "sign in", Message: "failed to cache session", Cause: err}
	}

	p.notify(p.Current())
	return nil
}

// SignOut deletes the token file and notifies subscribers.
func (p *TokenProvider) SignOut(_ context.Context) error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &AuthError{Op: "sign out", Message: "failed to remove cached session", Cause: err}
	}
	p.notify(types.AnonymousSession())
	return nil
}

func (p *TokenProvider) notify(s types.Session) {
	p.mu.Lock()
	subs := make([]func(types.Session), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (p *TokenProvider) login(ctx context.Context, creds Credentials) (*types.LoginResponse, error) {
	body, err := json.Marshal(types.LoginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, &AuthError{Op: "sign in", Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, &AuthError{Op: "sign in", Message: "login request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &AuthError{Op: "sign in", StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(payload, &errBody)
		msg := errBody.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &AuthError{Op: "sign in", StatusCode: resp.StatusCode, Message: msg}
	}

	var login types.LoginResponse
	if err := json.Unmarshal(payload, &login); err != nil {
		return nil, &AuthError{Op: "sign in", StatusCode: resp.StatusCode, Message: "invalid login response", Cause: err}
	}
	if login.Token == "" {
		return nil, &AuthError{Op: "sign in", StatusCode: resp.StatusCode, Message: "login response has no token"}
	}
	return &login, nil
}

func (p *TokenProvider) load() (*storedSession, *tokenClaims, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, nil, err
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", p.path, err)
	}

	claims, err := p.parseClaims(stored.Token)
	if err != nil {
		return nil, nil, err
	}
	return &stored, claims, nil
}

// parseClaims decodes the token without verifying its signature and checks
// that it names a user and has not expired.
func (p *TokenProvider) parseClaims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no user_id claim")
	}
	if claims.ExpiresAt != nil && !p.now().Before(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("token expired at %s", claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return claims, nil
}

func (p *TokenProvider) save(stored storedSession) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(p.path), err)
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	return nil
}
