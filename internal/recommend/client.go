// Package recommend wraps the network call to the career recommendation service.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-recommender/internal/schemas"
	"github.com/jonathan/career-recommender/internal/skills"
	"github.com/jonathan/career-recommender/internal/types"
	"golang.org/x/sync/semaphore"
)

// DefaultBaseURL is the local development address of the recommendation service.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds a single recommendation request.
const DefaultTimeout = 15 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Options configures the client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls POST /recommend-careers. At most one request per client is
// outstanding at a time; no request is ever retried.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	validator *validator.Validate
	inFlight  *semaphore.Weighted
}

// NewClient creates a client. Zero-valued options fall back to defaults.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:   baseURL,
		http:      httpClient,
		timeout:   timeout,
		validator: validator.New(),
		inFlight:  semaphore.NewWeighted(1),
	}
}

// BaseURL returns the service address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchRecommendations sends the profile to the service and returns the
// ranked recommendations. Empty profiles are rejected without a network call.
func (c *Client) FetchRecommendations(ctx context.Context, profile skills.Profile) (*types.RecommendationResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if !c.inFlight.TryAcquire(1) {
		return nil, ErrRequestInFlight
	}
	defer c.inFlight.Release(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(types.SkillsRequest{Skills: profile.Tokens()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend-careers", bytes.NewReader(body))
	if err != nil {
		return nil, &RecommendationError{Reason: ReasonNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RecommendationError{Reason: ReasonNetwork, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RecommendationError{Reason: ReasonNetwork, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RecommendationError{
			Reason:     ReasonServer,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	decoded, err := c.decode(payload)
	if err != nil {
		return nil, &RecommendationError{Reason: ReasonDecode, StatusCode: resp.StatusCode, Message: "invalid response body", Cause: err}
	}

	return &types.RecommendationResult{
		SkillsLabel:     profile.Label(),
		Recommendations: decoded.Recommendations,
	}, nil
}

func (c *Client) decode(payload []byte) (*types.RecommendationsResponse, error) {
	if err := schemas.Validate(schemas.Recommendations, payload); err != nil {
		return nil, err
	}

	var decoded types.RecommendationsResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := c.validator.Struct(decoded); err != nil {
		return nil, fmt.Errorf("response failed validation: %w", err)
	}

	if decoded.Recommendations == nil {
		decoded.Recommendations = []types.CareerRecommendation{}
	}
	return &decoded, nil
}
