package ratelimit

// Limiter gates requests per client key over a fixed time window.
// Implementations must keep counters isolated per key and reset them only
// at window boundaries.
type Limiter interface {
	// Allow consumes one slot for key and reports whether the key is still
	// within quota.
	Allow(key string) bool
}
