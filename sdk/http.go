package voxhire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voxhire/voxhire-go/pkg/core"
)

// backendErrorResponse is the backend's error envelope.
type backendErrorResponse struct {
	Detail string `json:"detail"`
}

// filePart describes one file field of a multipart request body.
type filePart struct {
	Field     string
	Filename  string
	MediaType string
	Data      []byte
}

func (c *Client) endpointURL(path string) string {
	return strings.TrimRight(c.baseURL, "/") + path
}

func (c *Client) addCommonHeaders(req *http.Request) error {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("resolve token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) doGET(ctx context.Context, path string, out any) error {
	attempt := 0
	backoff := c.retryBackoff

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(path), nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if err := c.addCommonHeaders(req); err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if shouldRetry(ctx, attempt, c.maxRetries) {
				time.Sleep(backoff)
				backoff = nextBackoff(backoff)
				attempt++
				continue
			}
			return transportFailure(http.MethodGet, req.URL.String(), err)
		}
		return c.handleResponse(resp, req, out)
	}
}

// doPOST issues a POST with the given body. Interview endpoints mutate
// server-side session state, so POSTs are never retried after the request
// has been written; only the initial connection failure is eligible.
func (c *Client) doPOST(ctx context.Context, path string, contentType string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if err := c.addCommonHeaders(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure(http.MethodPost, req.URL.String(), err)
	}
	return c.handleResponse(resp, req, out)
}

func (c *Client) doMultipartPOST(ctx context.Context, path string, part filePart, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, part.Field, part.Filename))
	header.Set("Content-Type", part.MediaType)
	fw, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if _, err := fw.Write(part.Data); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	return c.doPOST(ctx, path, writer.FormDataContentType(), buf.Bytes(), out)
}

func (c *Client) handleResponse(resp *http.Response, req *http.Request, out any) error {
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(req.Method, req.URL.String(), err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := parseBackendError(resp.StatusCode, respBody)
		c.logger.Debug("backend request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"request_id", req.Header.Get("X-Request-ID"))
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return core.NewServerError(resp.StatusCode, fmt.Sprintf("malformed response body: %v", err))
		}
	}
	return nil
}

// parseBackendError maps a non-2xx response into the canonical taxonomy.
// The backend wraps messages as {"detail": "..."}; anything else is used raw.
func parseBackendError(status int, body []byte) error {
	message := ""
	var envelope backendErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		message = envelope.Detail
	} else {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = fmt.Sprintf("request failed (%d)", status)
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return core.NewValidationError(message)
	default:
		return core.NewServerError(status, message)
	}
}

func transportFailure(method, url string, err error) error {
	terr := &TransportError{Op: method, URL: url, Err: err}
	return core.NewNetworkFailureError("request failed", terr)
}

func shouldRetry(ctx context.Context, attempt, maxRetries int) bool {
	if ctx.Err() != nil {
		return false
	}
	return attempt < maxRetries
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next == 0 {
		return time.Second
	}
	return next
}
