package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Endpoint groups used by the API client.
const (
	EndpointSearch  = "search"
	EndpointBooking = "booking"
	EndpointAuth    = "auth"
	EndpointContact = "contact"
)

// EndpointLimiter keeps one token bucket per backend endpoint group so a
// burst of searches cannot starve booking submissions.
type EndpointLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults RateLimitConfig
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewEndpointLimiter(config RateLimitConfig) *EndpointLimiter {
	return &EndpointLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewEndpointLimiterWithDefaults() *EndpointLimiter {
	return NewEndpointLimiter(DefaultConfig())
}

func (l *EndpointLimiter) GetLimiter(endpoint string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[endpoint]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[endpoint]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[endpoint] = limiter
	return limiter
}

// SetLimit overrides the bucket for one endpoint. A non-positive rps leaves
// the defaults in place.
func (l *EndpointLimiter) SetLimit(endpoint string, rps float64, burst int) {
	if rps <= 0 {
		return
	}
	if burst < 1 {
		burst = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[endpoint] = rate.NewLimiter(rate.Limit(rps), burst)
}

func (l *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	return l.GetLimiter(endpoint).Wait(ctx)
}
