// Package middleware provides HTTP middleware for the admin API.
//
// Middleware stack includes:
//   - RequestID: ULID request IDs, propagated through X-Request-ID
//   - Logger: Request logging with the request ID
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting
//
// Rate Limiting:
//   - Token bucket algorithm (golang.org/x/time/rate)
//   - Per-IP tracking, idle clients evicted after ten minutes
//   - 429 Too Many Requests response
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig(origins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
