package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/service-catalog/internal/catalog"
	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/deppfellow/service-catalog/internal/page"
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/service"
	"github.com/deppfellow/service-catalog/internal/validation"
	"github.com/deppfellow/service-catalog/internal/view"
)

// AdminHandler handles the admin page's form posts. Each successful post
// redirects back to the admin page; rejected input re-renders it with the
// alert.
type AdminHandler struct {
	Handler
	catalog *service.CatalogService
	pages   *PageHandler
}

func NewAdminHandler(s *server.Server, catalogService *service.CatalogService, pages *page.Dispatcher) *AdminHandler {
	return &AdminHandler{
		Handler: NewHandler(s),
		catalog: catalogService,
		pages:   NewPageHandler(s, pages),
	}
}

// ServiceForm carries the four inputs of the create and edit forms.
type ServiceForm struct {
	Name        string `form:"nombre"`
	Price       string `form:"precio"`
	Description string `form:"descripcion"`
	Quantity    string `form:"cantidad"`
}

// Values adapts the form into prompt answers; blank inputs are "no input".
func (f ServiceForm) Values() catalog.Values {
	return catalog.Values{
		catalog.FieldName:        f.Name,
		catalog.FieldPrice:       f.Price,
		catalog.FieldDescription: f.Description,
		catalog.FieldQuantity:    f.Quantity,
	}
}

// CreateServiceForm is validated by the catalog itself so the alert
// carries its message.
type CreateServiceForm struct {
	ServiceForm
}

func (f *CreateServiceForm) Validate() error {
	return nil
}

type EditServiceForm struct {
	ID int `param:"id" validate:"required"`
	ServiceForm
}

func (f *EditServiceForm) Validate() error {
	return validation.Struct(f)
}

type DeleteServiceForm struct {
	ID      int    `param:"id" validate:"required"`
	Confirm string `form:"confirm"`
}

func (f *DeleteServiceForm) Validate() error {
	return validation.Struct(f)
}

// RowActionForm is posted by any button in the table body, named
// "edit:<id>" or "delete:<id>".
type RowActionForm struct {
	Action string `form:"action" validate:"required"`

	verb string
	id   int
}

func (f *RowActionForm) Validate() error {
	if err := validation.Struct(f); err != nil {
		return err
	}

	verb, rawID, ok := strings.Cut(f.Action, ":")
	id, err := strconv.Atoi(rawID)
	if !ok || err != nil || (verb != "edit" && verb != "delete") {
		return validation.CustomValidationErrors{{
			Field:   "action",
			Message: "must be edit:<id> or delete:<id>",
		}}
	}

	f.verb, f.id = verb, id
	return nil
}

// Create handles POST /admin/services.
func (h *AdminHandler) Create(c echo.Context, form *CreateServiceForm) (string, error) {
	_, err := h.catalog.Create(c.Request().Context(), form.Values())
	if err != nil {
		return h.rejected(c, err)
	}
	return view.AdminPath, nil
}

// Edit handles POST /admin/services/:id.
func (h *AdminHandler) Edit(c echo.Context, form *EditServiceForm) (string, error) {
	_, err := h.catalog.Edit(c.Request().Context(), form.ID, form.Values())
	if err != nil {
		return h.rejected(c, err)
	}
	return view.AdminPath, nil
}

// Delete handles POST /admin/services/:id/delete. Anything but
// confirm=yes is a refusal and changes nothing.
func (h *AdminHandler) Delete(c echo.Context, form *DeleteServiceForm) (string, error) {
	confirmed := catalog.Confirmation(form.Confirm == "yes")

	_, err := h.catalog.Delete(c.Request().Context(), form.ID, confirmed)
	if err != nil {
		return h.rejected(c, err)
	}
	return view.AdminPath, nil
}

// Rows handles POST /admin/rows by opening the edit form or the delete
// confirmation for the clicked row.
func (h *AdminHandler) Rows(c echo.Context, form *RowActionForm) (string, error) {
	return view.AdminPath + "?" + form.verb + "=" + strconv.Itoa(form.id), nil
}

// rejected re-renders the admin page with the error as the alert when it
// is a client error; anything else goes to the global error handler.
func (h *AdminHandler) rejected(c echo.Context, err error) (string, error) {
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status >= http.StatusInternalServerError {
		return "", err
	}

	req := page.Request{
		Query:       c.QueryParams(),
		Alert:       httpErr.Message,
		FieldErrors: httpErr.Errors,
	}
	if err := h.pages.render(c, httpErr.Status, page.Admin, req); err != nil {
		return "", err
	}
	return "", nil
}
