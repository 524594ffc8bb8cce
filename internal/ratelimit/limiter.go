package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalfonso89/bitcoin-fees-service/internal/config"
	"github.com/dalfonso89/bitcoin-fees-service/internal/logger"
)

// bucketIdleTTL is how long an untouched bucket survives cleanup
const bucketIdleTTL = 24 * time.Hour

// Limiter implements a token bucket rate limiter per client IP
type Limiter struct {
	enabled  bool
	requests int
	burst    int
	window   time.Duration
	logger   *logger.Logger

	// Map of IP -> token bucket
	clientBuckets map[string]*TokenBucket
	bucketsMutex  sync.Mutex

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// TokenBucket holds the tokens of one client
type TokenBucket struct {
	capacity     float64
	tokens       float64
	refillPerSec float64
	lastSeen     time.Time
	mu           sync.Mutex
}

// NewLimiter creates a new rate limiter and starts its cleanup goroutine
func NewLimiter(configuration *config.Config, logger *logger.Logger) *Limiter {
	rateLimiter := &Limiter{
		enabled:       configuration.RateLimitEnabled,
		requests:      configuration.RateLimitRequests,
		burst:         configuration.RateLimitBurst,
		window:        configuration.RateLimitWindow(),
		logger:        logger,
		clientBuckets: make(map[string]*TokenBucket),
		cleanupTicker: time.NewTicker(5 * time.Minute),
		stopCleanup:   make(chan struct{}),
	}

	go rateLimiter.cleanup()

	return rateLimiter
}

// Limit returns the number of requests allowed per window
func (rateLimiter *Limiter) Limit() int {
	return rateLimiter.requests
}

// Window returns the refill window
func (rateLimiter *Limiter) Window() time.Duration {
	return rateLimiter.window
}

// Allow checks if a request from the given IP is allowed
func (rateLimiter *Limiter) Allow(clientIP string) bool {
	return rateLimiter.allowAt(clientIP, time.Now())
}

func (rateLimiter *Limiter) allowAt(clientIP string, now time.Time) bool {
	if !rateLimiter.enabled {
		return true
	}

	rateLimiter.bucketsMutex.Lock()
	tokenBucket, bucketExists := rateLimiter.clientBuckets[clientIP]
	if !bucketExists {
		tokenBucket = &TokenBucket{
			capacity:     float64(rateLimiter.burst),
			tokens:       float64(rateLimiter.burst),
			refillPerSec: float64(rateLimiter.requests) / rateLimiter.window.Seconds(),
			lastSeen:     now,
		}
		rateLimiter.clientBuckets[clientIP] = tokenBucket
	}
	rateLimiter.bucketsMutex.Unlock()

	return tokenBucket.take(now)
}

// GetClientIP extracts the client IP, preferring proxy headers
func (rateLimiter *Limiter) GetClientIP(request *http.Request) string {
	// X-Forwarded-For may carry a chain; the first hop is the client
	if xForwardedFor := request.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		firstHop := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if clientIP := net.ParseIP(firstHop); clientIP != nil {
			return clientIP.String()
		}
		if host, _, err := net.SplitHostPort(firstHop); err == nil {
			if clientIP := net.ParseIP(host); clientIP != nil {
				return clientIP.String()
			}
		}
	}

	if xRealIP := request.Header.Get("X-Real-IP"); xRealIP != "" {
		if clientIP := net.ParseIP(strings.TrimSpace(xRealIP)); clientIP != nil {
			return clientIP.String()
		}
	}

	clientIP, _, parseError := net.SplitHostPort(request.RemoteAddr)
	if parseError != nil {
		return request.RemoteAddr
	}
	return clientIP
}

// cleanup removes idle buckets
func (rateLimiter *Limiter) cleanup() {
	for {
		select {
		case <-rateLimiter.cleanupTicker.C:
			rateLimiter.evictIdle(time.Now())
		case <-rateLimiter.stopCleanup:
			rateLimiter.cleanupTicker.Stop()
			return
		}
	}
}

func (rateLimiter *Limiter) evictIdle(now time.Time) int {
	rateLimiter.bucketsMutex.Lock()
	defer rateLimiter.bucketsMutex.Unlock()

	evicted := 0
	for clientIP, tokenBucket := range rateLimiter.clientBuckets {
		tokenBucket.mu.Lock()
		idle := now.Sub(tokenBucket.lastSeen) > bucketIdleTTL
		tokenBucket.mu.Unlock()
		if idle {
			delete(rateLimiter.clientBuckets, clientIP)
			evicted++
		}
	}
	if evicted > 0 {
		rateLimiter.logger.Debugf("Evicted %d idle rate limit buckets", evicted)
	}
	return evicted
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (rateLimiter *Limiter) Stop() {
	rateLimiter.stopOnce.Do(func() {
		close(rateLimiter.stopCleanup)
	})
}

// take refills by elapsed time and consumes one token if available
func (tokenBucket *TokenBucket) take(now time.Time) bool {
	tokenBucket.mu.Lock()
	defer tokenBucket.mu.Unlock()

	if now.After(tokenBucket.lastSeen) {
		elapsed := now.Sub(tokenBucket.lastSeen).Seconds()
		tokenBucket.tokens += elapsed * tokenBucket.refillPerSec
		if tokenBucket.tokens > tokenBucket.capacity {
			tokenBucket.tokens = tokenBucket.capacity
		}
		tokenBucket.lastSeen = now
	}

	if tokenBucket.tokens >= 1 {
		tokenBucket.tokens--
		return true
	}
	return false
}
