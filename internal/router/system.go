package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/service-catalog/internal/handler"
	"github.com/deppfellow/service-catalog/static"
)

// registerSystemRoutes registers endpoints that are not part of the
// catalog: health, API docs and the embedded static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
