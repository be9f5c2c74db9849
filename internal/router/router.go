// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps the page, admin, API and system
// routes to their handlers.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/service-catalog/internal/handler"
	"github.com/deppfellow/service-catalog/internal/middleware"
	"github.com/deppfellow/service-catalog/internal/page"
	"github.com/deppfellow/service-catalog/internal/server"
)

// NewRouter builds the Echo instance with every middleware and route.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id and New Relic transaction must exist
	// before the context enhancer builds the request logger.
	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerPageRoutes(router, h)
	registerAdminRoutes(router, h, middlewares)
	registerAPIRoutes(router, h, middlewares)

	return router
}

func registerPageRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Pages.Root)
	r.GET("/servicios", h.Pages.Serve(page.List))
	r.GET("/servicios/detalle", h.Pages.Serve(page.Detail))
	r.GET("/admin", h.Pages.Serve(page.Admin))

	for _, legacy := range []string{"/servicios.html", "/crudadmin.html", "/detalleserv.html", "/pages/:legacy"} {
		r.GET(legacy, h.Pages.Legacy)
	}
}

func registerAdminRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	admin := r.Group("/admin", m.RateLimit.Limit())

	admin.POST("/services", handler.HandleRedirect(h.Admin.Handler, h.Admin.Create, http.StatusSeeOther, &handler.CreateServiceForm{}))
	admin.POST("/rows", handler.HandleRedirect(h.Admin.Handler, h.Admin.Rows, http.StatusSeeOther, &handler.RowActionForm{}))
	admin.POST("/services/:id", handler.HandleRedirect(h.Admin.Handler, h.Admin.Edit, http.StatusSeeOther, &handler.EditServiceForm{}))
	admin.POST("/services/:id/delete", handler.HandleRedirect(h.Admin.Handler, h.Admin.Delete, http.StatusSeeOther, &handler.DeleteServiceForm{}))
}

func registerAPIRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	api := r.Group("/api/v1/services")

	api.GET("", handler.Handle(h.API.Handler, h.API.ListServices, http.StatusOK, &handler.ListServicesRequest{}))
	api.GET("/export", handler.HandleFile(h.API.Handler, h.API.ExportServices, http.StatusOK, &handler.ListServicesRequest{}, handler.ExportFilename, echo.MIMEApplicationJSON))
	api.GET("/:id", handler.Handle(h.API.Handler, h.API.GetService, http.StatusOK, &handler.GetServiceRequest{}))

	limited := api.Group("", m.RateLimit.Limit())
	limited.POST("", handler.Handle(h.API.Handler, h.API.CreateService, http.StatusCreated, &handler.CreateServiceRequest{}))
	limited.PUT("/:id", handler.Handle(h.API.Handler, h.API.UpdateService, http.StatusOK, &handler.UpdateServiceRequest{}))
	limited.DELETE("/:id", handler.HandleNoContent(h.API.Handler, h.API.DeleteService, http.StatusNoContent, &handler.DeleteServiceRequest{}))
}
