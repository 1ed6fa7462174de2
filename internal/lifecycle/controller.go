// Package lifecycle mediates requests from the user to the analysis service
// and exposes the current request state.
package lifecycle

import (
	"context"
	"errors"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/yildizm/SigSum/internal/logger"
	"github.com/yildizm/SigSum/internal/signal"
)

// Service is the analysis collaborator. Transport, endpoint and timeouts
// belong to the implementation.
type Service interface {
	Analyze(ctx context.Context, data []int) (*signal.Analysis, error)
}

// UserMessager is implemented by errors that carry a message meant for display
type UserMessager interface {
	UserMessage() string
}

// Controller tracks one logical request at a time.
//
// Every Submit and Reset advances a sequence token. A call that settles after
// its token has been superseded is discarded, so the most recently started
// request wins and a Reset is never overwritten by a late response. In-flight
// calls are not cancelled.
type Controller struct {
	service  Service
	log      *logger.Logger
	observer func(State)

	mu    sync.Mutex
	state State
	seq   uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithObserver registers fn to be called after every state transition.
// fn runs outside the controller lock and may read the controller.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// WithLogger sets the logger used for transition tracing
func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		c.log = log.WithComponent("lifecycle")
	}
}

// New creates a controller in the Idle state
func New(service Service, opts ...Option) *Controller {
	c := &Controller{
		service: service,
		log:     logger.Nop(),
		state:   Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether a request is in flight
func (c *Controller) Loading() bool {
	return c.State().Status() == StatusLoading
}

// Result returns the latest analysis, or nil unless the state is Succeeded
func (c *Controller) Result() *signal.Analysis {
	if s, ok := c.State().(Succeeded); ok {
		result := s.Result
		return &result
	}
	return nil
}

// Err returns the failure message, or "" unless the state is Failed
func (c *Controller) Err() string {
	if s, ok := c.State().(Failed); ok {
		return s.Message
	}
	return ""
}

// Submit enters Loading immediately, clearing any previous result or error,
// and returns the function that performs the request and settles the state.
// The returned function blocks until the service call returns.
func (c *Controller) Submit(ctx context.Context, data []int) func() State {
	c.mu.Lock()
	c.seq++
	token := c.seq
	c.state = Loading{}
	c.mu.Unlock()

	c.log.DebugWithFields("request started", []logger.Field{logger.F("seq", token), logger.Count(len(data))})
	c.notify(Loading{})

	return func() State {
		start := time.Now()
		result, err := c.service.Analyze(ctx, data)

		var next State
		if err != nil {
			next = Failed{Message: failureMessage(err)}
		} else if result == nil {
			next = Failed{Message: signal.MsgUnexpectedError}
		} else {
			next = Succeeded{Result: *result}
		}

		c.mu.Lock()
		if token != c.seq {
			current, currentSeq := c.state, c.seq
			c.mu.Unlock()
			c.log.DebugWithFields("discarding superseded response", []logger.Field{
				logger.F("seq", token), logger.F("current_seq", currentSeq),
			})
			return current
		}
		c.state = next
		c.mu.Unlock()

		c.log.DebugWithFields("request settled", []logger.Field{
			logger.F("seq", token), logger.F("status", next.Status()), logger.Duration(time.Since(start)),
		})
		c.notify(next)
		return next
	}
}

// Invoke submits data and waits for the request to settle. It returns the
// state after settling, which is the current state if the request was
// superseded while in flight.
func (c *Controller) Invoke(ctx context.Context, data []int) State {
	return c.Submit(ctx, data)()
}

// Reset discards any result or error and returns to Idle
func (c *Controller) Reset() {
	c.mu.Lock()
	c.seq++
	c.state = Idle{}
	c.mu.Unlock()

	c.notify(Idle{})
}

func (c *Controller) notify(s State) {
	if c.observer != nil {
		c.observer(s)
	}
}

// failureMessage prefers the error's own user message, then a network
// message for transport failures, then a generic one
func failureMessage(err error) string {
	var um UserMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return signal.MsgNetworkError
	}

	return signal.MsgUnexpectedError
}
