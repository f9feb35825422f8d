// Package middleware provides the HTTP middleware of the control API.
//
// Middleware stack includes:
//   - CORS: loopback origins plus an explicit allow list
//   - RateLimit: per-IP token bucket with idle client eviction
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
