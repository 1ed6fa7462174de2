package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/SigSum/internal/signal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(ctx context.Context, data []int) (*signal.Analysis, error) {
	return nil, errors.New("analysis exploded")
}

type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(ctx context.Context, data []int) (*signal.Analysis, error) {
	panic("boom")
}

func setupTestServer(t *testing.T, cfg Config, opts ...Option) *Server {
	t.Helper()
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	return s
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, AnalyzePath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestAnalyze_Success(t *testing.T) {
	tests := []struct {
		name string
		body string
		want signal.Analysis
	}{
		{"ascending", `{"data":[1,2,3,4,5]}`, signal.Analysis{Average: 3, Minimum: 1, Maximum: 5, Trend: signal.TrendAscending}},
		{"descending", `{"data":[5,4,3,2,1]}`, signal.Analysis{Average: 3, Minimum: 1, Maximum: 5, Trend: signal.TrendDescending}},
		{"stable", `{"data":[3,3,3]}`, signal.Analysis{Average: 3, Minimum: 3, Maximum: 3, Trend: signal.TrendStable}},
		{"single", `{"data":[7]}`, signal.Analysis{Average: 7, Minimum: 7, Maximum: 7, Trend: signal.TrendStable}},
	}

	s := setupTestServer(t, DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, s.Handler(), tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var got signal.Analysis
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyze_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{"empty array", `{"data":[]}`, "data: ensure this value has at least 1 items"},
		{"missing field", `{}`, "data: field required"},
		{"null field", `{"data":null}`, "data: field required"},
		{"strings", `{"data":["a","b","c"]}`, "value is not a valid integer"},
		{"fractions", `{"data":[1.5]}`, "value is not a valid integer"},
		{"malformed json", `{"data":[1,`, "request body is not valid JSON"},
		{"empty body", ``, "request body is not valid JSON"},
	}

	s := setupTestServer(t, DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, s.Handler(), tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, decodeDetail(t, w), tt.wantDetail)
		})
	}
}

func TestAnalyze_BodyTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 16
	s := setupTestServer(t, cfg)

	w := postJSON(t, s.Handler(), `{"data":[1,2,3,4,5,6,7,8,9,10]}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, decodeDetail(t, w), "exceeds 16 bytes")
}

func TestAnalyze_AnalyzerFailure(t *testing.T) {
	s := setupTestServer(t, DefaultConfig(), WithAnalyzer(failingAnalyzer{}))

	w := postJSON(t, s.Handler(), `{"data":[1]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "analysis exploded", decodeDetail(t, w))
}

func TestAnalyze_PanicRecovered(t *testing.T) {
	s := setupTestServer(t, DefaultConfig(), WithAnalyzer(panickingAnalyzer{}))

	w := postJSON(t, s.Handler(), `{"data":[1]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeDetail(t, w))
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, DefaultConfig())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRoot(t *testing.T) {
	s := setupTestServer(t, DefaultConfig())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Signal Analysis API", body.Message)
	assert.Equal(t, Version, body.Version)
	assert.Equal(t, AnalyzePath, body.Endpoints["analyze_signal"])
}

func TestRequestID(t *testing.T) {
	s := setupTestServer(t, DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, HealthPath, nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	s := setupTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, postJSON(t, s.Handler(), `{"data":[1]}`).Code)
	assert.Equal(t, http.StatusOK, postJSON(t, s.Handler(), `{"data":[1]}`).Code)

	w := postJSON(t, s.Handler(), `{"data":[1]}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", decodeDetail(t, w))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// health is not limited
	hw := httptest.NewRecorder()
	s.Handler().ServeHTTP(hw, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	assert.Equal(t, http.StatusOK, hw.Code)
}

func TestRateLimiter_PrunesIdleClients(t *testing.T) {
	rl := newRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))

	now = now.Add(2 * limiterTTL)
	assert.True(t, rl.allow("b"))
	assert.NotContains(t, rl.limiters, "a")
}

func TestMetrics(t *testing.T) {
	s := setupTestServer(t, DefaultConfig())

	postJSON(t, s.Handler(), `{"data":[1,2,3]}`)
	postJSON(t, s.Handler(), `{"data":[3,2,1]}`)
	postJSON(t, s.Handler(), `{"data":[]}`)

	m := s.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trendsTotal.WithLabelValues("ascending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trendsTotal.WithLabelValues("descending")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(AnalyzePath, http.MethodPost, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(AnalyzePath, http.MethodPost, "422")))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sigsum_analysis_trends_total")
}

func TestWithMetrics_UsesGivenRegistry(t *testing.T) {
	m := NewMetrics()
	s := setupTestServer(t, DefaultConfig(), WithMetrics(m))
	require.Same(t, m, s.Metrics())

	postJSON(t, s.Handler(), `{"data":[4,4,4]}`)

	count, err := testutil.GatherAndCount(m.Registry(), "sigsum_analysis_trends_total", "sigsum_analysis_signal_length")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trendsTotal.WithLabelValues("stable")))

	// a second server keeps its own registry
	other := setupTestServer(t, DefaultConfig())
	assert.NotSame(t, m.Registry(), other.Metrics().Registry())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"no address", func(c *Config) { c.Address = "" }, true},
		{"negative timeout", func(c *Config) { c.ReadTimeout = -time.Second }, true},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, true},
		{"rate without burst", func(c *Config) { c.RateLimit = 5 }, true},
		{"rate with burst", func(c *Config) { c.RateLimit = 5; c.RateBurst = 10 }, false},
		{"zero body", func(c *Config) { c.MaxBodyBytes = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := setupTestServer(t, DefaultConfig())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + AnalyzePath
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(`{"data":[2,4]}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
