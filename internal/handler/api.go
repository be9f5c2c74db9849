package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/service-catalog/internal/catalog"
	"github.com/deppfellow/service-catalog/internal/model"
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/service"
	"github.com/deppfellow/service-catalog/internal/validation"
)

// ExportFilename is the attachment name of the exported list.
const ExportFilename = "servicios.json"

// APIHandler serves the JSON API under /api/v1/services.
type APIHandler struct {
	Handler
	catalog *service.CatalogService
}

func NewAPIHandler(s *server.Server, catalogService *service.CatalogService) *APIHandler {
	return &APIHandler{
		Handler: NewHandler(s),
		catalog: catalogService,
	}
}

type ListServicesRequest struct{}

func (r *ListServicesRequest) Validate() error {
	return nil
}

type GetServiceRequest struct {
	ID int `param:"id" validate:"required"`
}

func (r *GetServiceRequest) Validate() error {
	return validation.Struct(r)
}

// ServiceInput is the JSON body of create and update. Absent fields are
// "no input"; numbers may be sent as JSON numbers or numeric strings.
type ServiceInput struct {
	Name        *string      `json:"nombre"`
	Price       *json.Number `json:"precio"`
	Description *string      `json:"descripcion"`
	Quantity    *json.Number `json:"cantidad"`
}

// Values adapts the body into prompt answers.
func (in ServiceInput) Values() catalog.Values {
	values := catalog.Values{}
	if in.Name != nil {
		values[catalog.FieldName] = *in.Name
	}
	if in.Price != nil {
		values[catalog.FieldPrice] = in.Price.String()
	}
	if in.Description != nil {
		values[catalog.FieldDescription] = *in.Description
	}
	if in.Quantity != nil {
		values[catalog.FieldQuantity] = in.Quantity.String()
	}
	return values
}

type CreateServiceRequest struct {
	ServiceInput
}

// Validate defers to the catalog so API and form errors match.
func (r *CreateServiceRequest) Validate() error {
	return nil
}

type UpdateServiceRequest struct {
	ID int `param:"id" validate:"required"`
	ServiceInput
}

func (r *UpdateServiceRequest) Validate() error {
	return validation.Struct(r)
}

type DeleteServiceRequest struct {
	ID int `param:"id" validate:"required"`
}

func (r *DeleteServiceRequest) Validate() error {
	return validation.Struct(r)
}

// ListServices handles GET /api/v1/services.
func (h *APIHandler) ListServices(c echo.Context, _ *ListServicesRequest) (model.Services, error) {
	services, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return services.Clone(), nil
}

// GetService handles GET /api/v1/services/:id.
func (h *APIHandler) GetService(c echo.Context, req *GetServiceRequest) (model.Service, error) {
	return h.catalog.Get(c.Request().Context(), req.ID)
}

// CreateService handles POST /api/v1/services.
func (h *APIHandler) CreateService(c echo.Context, req *CreateServiceRequest) (model.Service, error) {
	return h.catalog.Create(c.Request().Context(), req.Values())
}

// UpdateService handles PUT /api/v1/services/:id.
func (h *APIHandler) UpdateService(c echo.Context, req *UpdateServiceRequest) (model.Service, error) {
	return h.catalog.Edit(c.Request().Context(), req.ID, req.Values())
}

// DeleteService handles DELETE /api/v1/services/:id. The request itself
// is the confirmation.
func (h *APIHandler) DeleteService(c echo.Context, req *DeleteServiceRequest) error {
	_, err := h.catalog.Delete(c.Request().Context(), req.ID, catalog.Confirmation(true))
	return err
}

// ExportServices handles GET /api/v1/services/export: the current list in
// the bootstrap file shape, as a download.
func (h *APIHandler) ExportServices(c echo.Context, _ *ListServicesRequest) ([]byte, error) {
	services, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return services.Encode()
}
