// Package client talks to the signal analysis HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/SigSum/internal/logger"
	"github.com/yildizm/SigSum/internal/signal"
)

// maxErrorBody caps how much of a failed response is read for its detail
const maxErrorBody = 64 * 1024

// Client posts signals to the analysis endpoint
type Client struct {
	config  Config
	client  *http.Client
	baseURL *url.URL
	log     *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its timeout is left as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log.WithComponent("client")
	}
}

// New creates a new client instance
func New(config Config, opts ...Option) (*Client, error) {
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the full analysis URL
func (c *Client) Endpoint() string {
	return c.baseURL.JoinPath(c.config.Path).String()
}

// Analyze sends data for analysis. Every failure is an *APIError.
func (c *Client) Analyze(ctx context.Context, data []int) (*signal.Analysis, error) {
	start := time.Now()
	requestID := uuid.NewString()

	body, err := json.Marshal(signal.Request{Data: data})
	if err != nil {
		return nil, newAPIError(signal.MsgUnexpectedError, 0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, newAPIError(signal.MsgUnexpectedError, 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	c.log.DebugWithFields("posting signal", []logger.Field{logger.RequestID(requestID), logger.Count(len(data))})

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.DebugWithFields("request failed", []logger.Field{logger.RequestID(requestID), logger.Error(err)})
		return nil, newAPIError(signal.MsgNetworkError, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := extractDetail(raw)
		c.log.DebugWithFields("analysis rejected", []logger.Field{
			logger.RequestID(requestID), logger.Status(resp.StatusCode), logger.F("detail", message),
		})
		return nil, newAPIError(message, resp.StatusCode, nil)
	}

	var result signal.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newAPIError(signal.MsgUnexpectedError, 0, fmt.Errorf("failed to decode response: %w", err))
	}

	c.log.DebugWithFields("analysis received", []logger.Field{
		logger.RequestID(requestID), logger.Duration(time.Since(start)), logger.F("trend", result.Trend),
	})
	return &result, nil
}

// Health checks that the API reports itself healthy
func (c *Client) Health(ctx context.Context) error {
	endpoint := c.baseURL.JoinPath("/health")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return newAPIError(signal.MsgUnexpectedError, 0, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return newAPIError(signal.MsgNetworkError, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return newAPIError(fmt.Sprintf("health check failed with status %d", resp.StatusCode), resp.StatusCode, nil)
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return newAPIError(signal.MsgUnexpectedError, 0, fmt.Errorf("failed to decode health response: %w", err))
	}
	if health.Status != "healthy" {
		return newAPIError(fmt.Sprintf("service reports status %q", health.Status), resp.StatusCode, nil)
	}
	return nil
}

// extractDetail pulls the error description out of an error body. The API
// sends {"detail": "..."}; validation failures from some servers send a list
// of {"msg": "..."} objects instead.
func extractDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return signal.MsgServiceError
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		if detail == "" {
			return signal.MsgServiceError
		}
		return detail
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
		return items[0].Msg
	}

	return signal.MsgServiceError
}
