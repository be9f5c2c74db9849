// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request-scoped logging, CORS, New Relic tracing, rate
// limiting of admin mutations, and panic recovery.
package middleware
