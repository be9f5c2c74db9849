package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/service-catalog/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server,
// built once with their shared dependencies.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers, and
	// the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing installs New Relic and annotates transactions.
	Tracing *TracingMiddleware

	// RateLimit throttles mutations per client IP.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components. Without New Relic
// the tracing middleware degrades into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
