package page

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/deppfellow/service-catalog/internal/catalog"
	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/deppfellow/service-catalog/internal/model"
	"github.com/deppfellow/service-catalog/internal/view"
)

// Loader is the store accessor used by the dispatcher.
type Loader interface {
	catalog.Store
	Load(ctx context.Context) (model.Services, error)
}

// Request carries what a page reads from the incoming request.
type Request struct {
	Query url.Values

	// Alert and FieldErrors are shown on the admin page after a
	// rejected form post.
	Alert       string
	FieldErrors []errs.FieldError
}

// Dispatcher loads the list once per call and renders one page.
type Dispatcher struct {
	loader   Loader
	renderer *view.Renderer
}

func NewDispatcher(loader Loader, renderer *view.Renderer) *Dispatcher {
	return &Dispatcher{loader: loader, renderer: renderer}
}

// Dispatch renders p into w. A failed load is logged with the logger
// carried by ctx and the page is rendered in its template state; only
// render errors and unknown pages are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, w io.Writer, p Page, req Request) error {
	services, err := d.loader.Load(ctx)
	loaded := err == nil
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("page", p.String()).
			Msg("failed to load services")
	}

	switch p {
	case List:
		page := view.ListPage{Loaded: loaded}
		if loaded {
			page.Cards = view.ListCards(services)
		}
		return d.renderer.List(w, page)

	case Detail:
		detail := view.DefaultDetail()
		if loaded {
			detail, _ = view.DetailOf(services, req.Query.Get("id"))
		}
		return d.renderer.Detail(w, view.DetailPage{Detail: detail})

	case Admin:
		page := view.AdminPage{
			Loaded:      loaded,
			Alert:       req.Alert,
			FieldErrors: req.FieldErrors,
			Question:    catalog.DeleteConfirmation,
		}
		if loaded {
			if err := d.fillAdmin(ctx, &page, services, req.Query); err != nil {
				return err
			}
		}
		return d.renderer.Admin(w, page)

	default:
		return fmt.Errorf("unknown page %s", p)
	}
}

func (d *Dispatcher) fillAdmin(ctx context.Context, page *view.AdminPage, services model.Services, query url.Values) error {
	admin, err := catalog.NewAdmin(ctx, services, d.loader)
	if err != nil {
		return err
	}

	current := admin.Services()
	page.Rows = view.AdminRows(current)

	if id, ok := view.ParseID(query.Get("edit")); ok {
		if s, found := current.Find(id); found {
			form := view.EditFormOf(s)
			page.Editing = &form
		}
	}

	if id, ok := view.ParseID(query.Get("delete")); ok {
		for i := range page.Rows {
			if page.Rows[i].ID == id {
				page.Deleting = &page.Rows[i]
				break
			}
		}
	}

	return nil
}
