package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/SigSum/internal/signal"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL is not configured")

	_, err = New(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)
}

func TestNew_AppliesDefaults(t *testing.T) {
	c, err := New(Config{BaseURL: "http://localhost:8000/api"})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api/analyze_signal/analisar_sinal", c.Endpoint())
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
}

func TestClient_Analyze(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req signal.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int{1, 2, 3, 4, 5}, req.Data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"average":3.0,"minimum":1,"maximum":5,"trend":"ascending"}`))
	})

	result, err := c.Analyze(context.Background(), []int{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, signal.Analysis{Average: 3, Minimum: 1, Maximum: 5, Trend: signal.TrendAscending}, *result)
}

func TestClient_Analyze_ServerErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "string detail",
			status:      http.StatusBadRequest,
			body:        `{"detail":"data array cannot be empty"}`,
			wantMessage: "data array cannot be empty",
		},
		{
			name:        "list detail",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":[{"loc":["body","data"],"msg":"field required","type":"value_error.missing"}]}`,
			wantMessage: "field required",
		},
		{
			name:        "no detail",
			status:      http.StatusInternalServerError,
			body:        `internal failure`,
			wantMessage: signal.MsgServiceError,
		},
		{
			name:        "empty detail",
			status:      http.StatusBadGateway,
			body:        `{"detail":""}`,
			wantMessage: signal.MsgServiceError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Analyze(context.Background(), []int{1})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
			assert.Equal(t, tt.wantMessage, apiErr.UserMessage())
			assert.Equal(t, tt.status, apiErr.Status)
			assert.True(t, apiErr.HasStatus())
		})
	}
}

func TestClient_Analyze_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	c, err := New(Config{BaseURL: baseURL})
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), []int{1, 2})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, signal.MsgNetworkError, apiErr.Message)
	assert.Zero(t, apiErr.Status)
	assert.NotNil(t, apiErr.Unwrap())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(signal.Analysis{Average: 2, Minimum: 2, Maximum: 2, Trend: signal.TrendStable})
	}))
	t.Cleanup(server.Close)

	var requestIDs []string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		requestIDs = append(requestIDs, r.Header.Get("X-Request-ID"))
		return http.DefaultTransport.RoundTrip(r)
	})}

	c, err := New(Config{BaseURL: server.URL}, WithHTTPClient(hc))
	require.NoError(t, err)

	result, err := c.Analyze(context.Background(), []int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, signal.TrendStable, result.Trend)

	require.Len(t, requestIDs, 1)
	assert.NotEmpty(t, requestIDs[0])
}

func TestClient_Analyze_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), []int{1})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, signal.MsgNetworkError, apiErr.Message)
}

func TestClient_Analyze_BadPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"average":1,"minimum":1,"maximum":1,"trend":"sideways"}`))
	})

	_, err := c.Analyze(context.Background(), []int{1})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, signal.MsgUnexpectedError, apiErr.Message)
}

func TestClient_Health(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	assert.NoError(t, c.Health(context.Background()))

	unhealthy := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.Error(t, unhealthy.Health(context.Background()))
}
