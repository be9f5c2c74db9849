package page

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/service-catalog/internal/model"
	"github.com/deppfellow/service-catalog/internal/view"
)

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Page
		ok   bool
	}{
		{"/pages/servicios.html", List, true},
		{"/crudadmin.html", Admin, true},
		{"/x/detalleserv.html", Detail, true},
		{"/servicios.html/crudadmin.html", List, true},
		{"/crudadmin.html?next=detalleserv.html", Admin, true},
		{"/index.html", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageString(t *testing.T) {
	assert.Equal(t, "list", List.String())
	assert.Equal(t, "admin", Admin.String())
	assert.Equal(t, "detail", Detail.String())
	assert.Equal(t, "page(9)", Page(9).String())
}

type fakeLoader struct {
	services model.Services
	err      error
	loads    int
}

func (f *fakeLoader) Load(ctx context.Context) (model.Services, error) {
	f.loads++
	return f.services, f.err
}

func (f *fakeLoader) Stored(ctx context.Context) (model.Services, bool, error) {
	return nil, false, nil
}

func (f *fakeLoader) Persist(ctx context.Context, services model.Services) error {
	return nil
}

func loaderWith() *fakeLoader {
	return &fakeLoader{services: model.Services{
		{ID: 1, Name: "Corte", Price: decimal.NewFromInt(10), Quantity: 5},
		{ID: 2, Name: "Lavado", Price: decimal.NewFromInt(5), Description: "Lavado simple", Quantity: 3},
	}}
}

func dispatch(t *testing.T, ctx context.Context, d *Dispatcher, p Page, req Request) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, d.Dispatch(ctx, &buf, p, req))
	return buf.String()
}

func TestDispatch_List(t *testing.T) {
	loader := loaderWith()
	d := NewDispatcher(loader, view.MustNewRenderer())

	html := dispatch(t, context.Background(), d, List, Request{})
	assert.Contains(t, html, `<p class="service-name">Corte</p>`)
	assert.Contains(t, html, `<span class="price">$10</span>`)
	assert.Equal(t, 1, loader.loads)
}

func TestDispatch_Detail(t *testing.T) {
	d := NewDispatcher(loaderWith(), view.MustNewRenderer())

	html := dispatch(t, context.Background(), d, Detail, Request{Query: url.Values{"id": {"2"}}})
	assert.Contains(t, html, `<h1 class="nombre">Lavado</h1>`)
	assert.Contains(t, html, `<p class="cantidad">Cantidad: 3</p>`)

	html = dispatch(t, context.Background(), d, Detail, Request{Query: url.Values{"id": {"7"}}})
	assert.Contains(t, html, `<h1 class="nombre">Servicio</h1>`)
}

func TestDispatch_AdminDialogs(t *testing.T) {
	d := NewDispatcher(loaderWith(), view.MustNewRenderer())

	html := dispatch(t, context.Background(), d, Admin, Request{Query: url.Values{"edit": {"2"}}})
	assert.Contains(t, html, `action="/admin/services/2"`)
	assert.Contains(t, html, `value="Lavado simple"`)
	assert.NotContains(t, html, "¿Eliminar este servicio?")

	html = dispatch(t, context.Background(), d, Admin, Request{Query: url.Values{"delete": {"1"}}})
	assert.Contains(t, html, "¿Eliminar este servicio?")
	assert.Contains(t, html, `action="/admin/services/1/delete"`)

	html = dispatch(t, context.Background(), d, Admin, Request{Query: url.Values{"edit": {"99"}}})
	assert.NotContains(t, html, "edit-form")
}

func TestDispatch_LoadFailureRendersTemplateState(t *testing.T) {
	loader := &fakeLoader{err: errors.New("bootstrap: connection refused")}
	d := NewDispatcher(loader, view.MustNewRenderer())

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	ctx := logger.WithContext(context.Background())

	html := dispatch(t, ctx, d, List, Request{})
	assert.Contains(t, html, `class="services-grid"`)
	assert.NotContains(t, html, view.EmptyListMessage)
	assert.Contains(t, logs.String(), "failed to load services")
	assert.Contains(t, logs.String(), `"level":"error"`)

	html = dispatch(t, ctx, d, Detail, Request{Query: url.Values{"id": {"1"}}})
	assert.Contains(t, html, `<h1 class="nombre">Servicio</h1>`)

	html = dispatch(t, ctx, d, Admin, Request{})
	assert.NotContains(t, html, "<tr data-id")
}

func TestDispatch_UnknownPage(t *testing.T) {
	d := NewDispatcher(loaderWith(), view.MustNewRenderer())

	var buf bytes.Buffer
	err := d.Dispatch(context.Background(), &buf, Page(42), Request{})
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}
