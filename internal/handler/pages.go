package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/deppfellow/service-catalog/internal/page"
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/view"
)

// PageHandler serves the three HTML pages.
type PageHandler struct {
	Handler
	pages *page.Dispatcher
}

func NewPageHandler(s *server.Server, pages *page.Dispatcher) *PageHandler {
	return &PageHandler{
		Handler: NewHandler(s),
		pages:   pages,
	}
}

// Serve returns the handler for one page. The page is fixed when the
// route is registered.
func (h *PageHandler) Serve(p page.Page) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.render(c, http.StatusOK, p, page.Request{Query: c.QueryParams()})
	}
}

// Root redirects to the list page.
func (h *PageHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, view.ListPath)
}

// Legacy redirects the old *.html page names to their routes, keeping
// the query string (the detail page's id).
func (h *PageHandler) Legacy(c echo.Context) error {
	p, ok := page.FromPath(c.Request().URL.Path)
	if !ok {
		return errs.NewNotFoundError("Route not found", false, nil)
	}

	target := pagePath(p)
	if raw := c.Request().URL.RawQuery; raw != "" {
		target += "?" + raw
	}

	return c.Redirect(http.StatusMovedPermanently, target)
}

func (h *PageHandler) render(c echo.Context, status int, p page.Page, req page.Request) error {
	var buf bytes.Buffer
	if err := h.pages.Dispatch(c.Request().Context(), &buf, p, req); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func pagePath(p page.Page) string {
	switch p {
	case page.Admin:
		return view.AdminPath
	case page.Detail:
		return view.DetailPath
	default:
		return view.ListPath
	}
}
