package server

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yildizm/SigSum/internal/logger"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	// idle per-client limiters are pruned after this long
	limiterTTL = 5 * time.Minute
)

// requestID reuses an incoming X-Request-ID or assigns a new one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// recovery turns a handler panic into a 500 with a detail body
func recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorWithFields("panic while handling request", []logger.Field{
			logger.RequestID(c.GetString(requestIDKey)), logger.F("panic", recovered),
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody("internal server error"))
	})
}

// accessLog writes one line per request
func accessLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.F("method", c.Request.Method),
			logger.F("path", c.Request.URL.Path),
			logger.Status(c.Writer.Status()),
			logger.Duration(time.Since(start)),
			logger.RequestID(c.GetString(requestIDKey)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.WarnWithFields("request failed", fields)
			return
		}
		log.InfoWithFields("request", fields)
	}
}

// instrument records request counts and latency per route
func instrument(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter is a token bucket per client address
type rateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	return &rateLimiter{
		limiters:  make(map[string]*clientLimiter),
		limit:     rate.Limit(perSecond),
		burst:     burst,
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > limiterTTL {
		for k, l := range rl.limiters {
			if now.Sub(l.lastSeen) > limiterTTL {
				delete(rl.limiters, k)
			}
		}
		rl.lastPrune = now
	}

	l, ok := rl.limiters[key]
	if !ok {
		l = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

func (rl *rateLimiter) retryAfter() int {
	return max(int(math.Ceil(1/float64(rl.limit))), 1)
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(rl.retryAfter()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
