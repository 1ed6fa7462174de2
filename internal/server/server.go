// Package server exposes signal analysis over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yildizm/SigSum/internal/analyzer"
	"github.com/yildizm/SigSum/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Server is the analysis HTTP API
type Server struct {
	config   Config
	engine   *gin.Engine
	analyzer analyzer.Analyzer
	metrics  *Metrics
	log      *logger.Logger
}

// Option configures a Server
type Option func(*Server)

// WithAnalyzer replaces the default analysis engine
func WithAnalyzer(a analyzer.Analyzer) Option {
	return func(s *Server) {
		s.analyzer = a
	}
}

// WithLogger sets the logger used for access and error logs
func WithLogger(log *logger.Logger) Option {
	return func(s *Server) {
		s.log = log.WithComponent("server")
	}
}

// WithMetrics replaces the metrics collectors
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a server with its routes and middleware installed
func New(config Config, opts ...Option) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	s := &Server{
		config:   config,
		analyzer: analyzer.NewEngine(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	useJSONFieldNames()
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), recovery(s.log), accessLog(s.log), instrument(s.metrics))

	r.GET("/", s.handleRoot)
	r.GET(HealthPath, s.handleHealth)
	r.GET(MetricsPath, gin.WrapH(s.metrics.Handler()))

	analyze := r.Group("")
	if s.config.RateLimit > 0 {
		analyze.Use(newRateLimiter(s.config.RateLimit, s.config.RateBurst).middleware())
	}
	analyze.POST(AnalyzePath, s.handleAnalyze)

	return r
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening on %s", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
