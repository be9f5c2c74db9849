package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/service-catalog/internal/config"
	"github.com/deppfellow/service-catalog/internal/middleware"
	"github.com/deppfellow/service-catalog/internal/server"
)

// HealthHandler reports whether the slot backend (and Redis, when in
// use) is reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult map[string]interface{}

// CheckHealth returns 200 when every enabled check passes and 503
// otherwise. A failing Redis only fails the endpoint when Redis is the
// slot backend; for jobs alone it is reported but tolerated.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	obs := h.server.Config.Observability
	if obs == nil {
		obs = config.DefaultObservabilityConfig()
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"backend":     h.server.Config.Store.Backend,
		"checks":      checks,
	}

	isHealthy := true

	if obs.HealthCheckEnabled("store") && h.server.Slot != nil {
		result, ok := h.runCheck(c.Request().Context(), &logger, obs.HealthChecks.Timeout, "store", h.server.Slot.Ping)
		checks["store"] = result
		isHealthy = isHealthy && ok
	}

	if obs.HealthCheckEnabled("redis") && h.server.Redis != nil {
		result, ok := h.runCheck(c.Request().Context(), &logger, obs.HealthChecks.Timeout, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		checks["redis"] = result
		if h.server.Config.Store.Backend == config.BackendRedis {
			isHealthy = isHealthy && ok
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordEvent(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(parent context.Context, logger *zerolog.Logger, timeout time.Duration, name string, ping func(ctx context.Context) error) (checkResult, bool) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordEvent(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return checkResult{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}, false
	}

	return checkResult{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, true
}

func (h *HealthHandler) recordEvent(attrs map[string]interface{}) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
	}
}
