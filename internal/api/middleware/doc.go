// Package middleware provides the HTTP middleware stack of the NovaShell backend.
//
// Middleware stack includes:
//   - RequestID: X-Request-ID tagging, reusing a caller supplied ID
//   - Logger: one zap access log line per request
//   - Recovery: panic recovery with a JSON 500 and a logged stack
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle client cleanup
//   - Store: attaches the device store to the request context
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))
//	router.Use(middleware.CORS([]string{"*"}))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	router.Use(middleware.Store(store))
package middleware
