package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// HTTPTransport posts serialized events to the collection endpoint.
type HTTPTransport struct {
	endpoint   string
	authToken  string
	httpClient *http.Client
}

// NewHTTP builds an HTTP transport for the given store endpoint.
func NewHTTP(endpoint, authToken string, timeout time.Duration) (*HTTPTransport, error) {
	if endpoint == "" {
		return nil, errors.New("transport: endpoint is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPTransport{
		endpoint:  endpoint,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Send posts one event document.
func (t *HTTPTransport) Send(ctx context.Context, payload []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if t.authToken != "" {
		request.Header.Set("Authorization", "Bearer "+t.authToken)
	}

	resp, err := t.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("collection endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}
