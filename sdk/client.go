// Package voxhire provides the Voxhire API client for Go.
//
// The client speaks the interview backend's HTTP contract: resume upload,
// interview lifecycle (start, voice turn, end) and past-interview history.
package voxhire

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/voxhire/voxhire-go/pkg/core/types"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds every request issued by the client. Voice turns
// include server-side transcription and synthesis, so this is deliberately
// generous for a single HTTP round trip.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token attached to authenticated requests.
// Returning an empty token is valid and means the request goes out
// unauthenticated (the backend treats such sessions as guests).
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource backed by a fixed string.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// TokenSourceFunc adapts a function to a TokenSource.
type TokenSourceFunc func() (string, error)

func (f TokenSourceFunc) Token() (string, error) { return f() }

// Client is the main entry point for the SDK.
type Client struct {
	Interviews *InterviewsService
	Resumes    *ResumesService
	History    *HistoryService

	// Internal
	baseURL      string
	httpClient   *http.Client
	logger       *slog.Logger
	tokens       TokenSource
	userAgent    string
	maxRetries   int
	retryBackoff time.Duration
}

// NewClient creates a new client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		logger:       slog.Default(),
		userAgent:    "voxhire-go",
		retryBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = newDefaultHTTPClient()
	}

	c.Interviews = &InterviewsService{client: c}
	c.Resumes = &ResumesService{client: c}
	c.History = &HistoryService{client: c}
	return c
}

// Health reports whether the backend is reachable and serving.
func (c *Client) Health(ctx context.Context) (*types.Health, error) {
	var out types.Health
	if err := c.doGET(ctx, "/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveAudioURL turns an audio reference from a response into a fetchable
// URL. The backend returns paths relative to its own origin.
func (c *Client) ResolveAudioURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(raw, "/")
}
