package handler

import (
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/service"
)

// Handlers groups all HTTP handlers so router setup passes one object.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Pages   *PageHandler
	Admin   *AdminHandler
	API     *APIHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Pages:   NewPageHandler(s, services.Pages),
		Admin:   NewAdminHandler(s, services.Catalog, services.Pages),
		API:     NewAPIHandler(s, services.Catalog),
	}
}
