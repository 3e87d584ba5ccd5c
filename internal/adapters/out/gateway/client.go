// Package gateway calls the sibling services (procurement, inventory and
// supplier catalogue) over HTTP on behalf of one country.
package gateway

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

	"orders/internal/pkg/metrics"

	"go.uber.org/zap"
)

const (
	DefaultCountryHeader = "X-Country"
	DefaultTimeout       = 10 * time.Second

	maxErrorBody = 4 << 10
)

// ErrUnavailable wraps transport failures: the sibling service could not be
// reached or its answer could not be read.
var ErrUnavailable = errors.New("service unavailable")

// DownstreamError is returned for a non-2xx answer of a sibling service.
type DownstreamError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s %s -> %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// Config configures every client produced by a Factory.
type Config struct {
	BaseURL       string
	CountryHeader string
	Timeout       time.Duration
}

// Client is a JSON client scoped to one country. The country travels in the
// configured routing header of every request.
type Client struct {
	baseURL string
	country string
	header  string
	http    *http.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// Post sends body as JSON and returns the raw response body, or nil when the
// answer is empty.
func (c *Client) Post(ctx context.Context, path string, body any, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, path, body, params)
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, path, nil, params)
}

// Country returns the country the client is scoped to.
func (c *Client) Country() string {
	return c.country
}

// do issues one request. route labels the call in metrics and logs and must not
// carry ids.
func (c *Client) do(
	ctx context.Context,
	method, route, path string,
	body any,
	params url.Values,
) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, route, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(c.header, c.country)

	started := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(started)
	c.metrics.GatewayLatency.WithLabelValues(method, route).Observe(float64(elapsed.Milliseconds()))
	if err != nil {
		c.observe(method, route, "transport_error", elapsed, 0)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.observe(method, route, strconv.Itoa(resp.StatusCode), elapsed, resp.StatusCode)
		return nil, &DownstreamError{
			Method: method,
			URL:    endpoint,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(raw)),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, route, "read_error", elapsed, resp.StatusCode)
		return nil, fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, method, endpoint, err)
	}
	c.observe(method, route, "ok", elapsed, resp.StatusCode)

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return raw, nil
}

func (c *Client) observe(method, route, outcome string, elapsed time.Duration, status int) {
	c.metrics.GatewayCalls.WithLabelValues(method, route, outcome).Inc()
	c.logger.Debug("gateway call",
		zap.String("method", method),
		zap.String("route", route),
		zap.String("country", c.country),
		zap.Int("status", status),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	)
}

func decode[T any](raw json.RawMessage, route string) (T, error) {
	var v T
	if raw == nil {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s response: %w", route, err)
	}
	return v, nil
}
