package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"
	"golang.org/x/oauth2"
)

// ErrUnauthenticated is returned when the backend rejects the session and a
// silent refresh could not recover it.
var ErrUnauthenticated = errors.New("unauthenticated")

// TokenSession is the auth session the client borrows tokens from
type TokenSession interface {
	oauth2.TokenSource
	Refresh(ctx context.Context) error
	Clear(ctx context.Context) error
}

// Client talks JSON to the container movement backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    TokenSession
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewClient creates a new backend client. session may be nil for anonymous calls.
func NewClient(baseURL string, timeout time.Duration, session TokenSession, m *metrics.Metrics, logger logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		metrics:    m,
		logger:     logger,
	}
}

// Do sends one request. body is JSON encoded when non-nil and a 2xx response is
// decoded into out when out is non-nil. On 401 the session is refreshed once and
// the request retried once.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	endpoint := EndpointLabel(method, path)

	resp, err := c.send(ctx, method, path, query, payload, endpoint)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.session != nil {
		drain(resp)

		if err := c.session.Refresh(ctx); err != nil {
			c.metrics.TokenRefreshes.WithLabelValues("failed").Inc()
			c.metrics.ErrorsCount.WithLabelValues("token_refresh").Inc()
			c.logger.Warn("Session refresh failed, clearing session", "endpoint", endpoint, "error", err)
			if clearErr := c.session.Clear(ctx); clearErr != nil {
				c.logger.Error("Failed to clear session", "error", clearErr)
			}
			return fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		c.metrics.TokenRefreshes.WithLabelValues("succeeded").Inc()

		resp, err = c.send(ctx, method, path, query, payload, endpoint)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.ErrorsCount.WithLabelValues("api_response").Inc()
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get is a shorthand for Do with GET
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post is a shorthand for Do with POST
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, endpoint string) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.session != nil {
		if token, err := c.session.Token(); err == nil && token.AccessToken != "" {
			token.SetAuthHeader(req)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		c.metrics.ErrorsCount.WithLabelValues("api_request").Inc()
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	c.metrics.APIRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	c.logger.Debug("Backend request", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
	return resp, nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// EndpointLabel collapses numeric path segments so metric labels stay bounded
func EndpointLabel(method, path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.ParseInt(segment, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return method + " " + strings.Join(segments, "/")
}
