package voxhire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voxhire/voxhire-go/pkg/core"
)

func TestResolveAudioURL(t *testing.T) {
	t.Parallel()

	c := NewClient(WithBaseURL("http://api.test:8000/"))
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative path", "/audio/q1.mp3", "http://api.test:8000/audio/q1.mp3"},
		{"no leading slash", "audio/q1.mp3", "http://api.test:8000/audio/q1.mp3"},
		{"absolute http", "http://cdn.test/q1.mp3", "http://cdn.test/q1.mp3"},
		{"absolute https", "https://cdn.test/q1.mp3", "https://cdn.test/q1.mp3"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ResolveAudioURL(tt.in); got != tt.want {
				t.Errorf("ResolveAudioURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"status":"online","message":"ok"}`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithTokenSource(StaticToken("guest-token")))
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if gotAuth != "Bearer guest-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	t.Parallel()

	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.Write([]byte(`{"status":"online"}`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if sawAuth {
		t.Error("Authorization header sent without a token source")
	}
}

func TestBackendErrorEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantType core.ErrorType
		wantMsg  string
	}{
		{"detail 400", http.StatusBadRequest, `{"detail":"Please upload a resume first"}`, core.ErrValidationError, "Please upload a resume first"},
		{"detail 422", http.StatusUnprocessableEntity, `{"detail":"field required"}`, core.ErrValidationError, "field required"},
		{"detail 500", http.StatusInternalServerError, `{"detail":"transcription failed"}`, core.ErrServerError, "transcription failed"},
		{"plain body", http.StatusBadGateway, "upstream down", core.ErrServerError, "upstream down"},
		{"empty body", http.StatusServiceUnavailable, "", core.ErrServerError, "request failed (503)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(WithBaseURL(server.URL))
			_, err := c.Interviews.Start(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *core.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T is not a core error", err)
			}
			if apiErr.Type != tt.wantType {
				t.Errorf("type = %v, want %v", apiErr.Type, tt.wantType)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	c := NewClient(WithBaseURL(server.URL))
	_, err := c.Interviews.Start(context.Background())
	if !core.IsType(err, core.ErrNetworkFailure) {
		t.Fatalf("error = %v, want network_failure", err)
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error %v does not wrap a TransportError", err)
	}
	if terr.Op != http.MethodPost {
		t.Errorf("transport op = %q, want POST", terr.Op)
	}
}
