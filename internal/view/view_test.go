package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/deppfellow/service-catalog/internal/model"
)

func sample() model.Services {
	return model.Services{
		{ID: 1, Name: "Corte", Price: decimal.NewFromInt(10), Quantity: 5},
		{ID: 3, Name: "Lavado", Price: decimal.RequireFromString("5.5"), Description: "Lavado simple", Quantity: 3},
	}
}

func TestListCards(t *testing.T) {
	cards := ListCards(sample())

	assert.Equal(t, []Card{
		{ID: 1, Name: "Corte", Price: "$10", Href: "/servicios/detalle?id=1"},
		{ID: 3, Name: "Lavado", Price: "$5.5", Href: "/servicios/detalle?id=3"},
	}, cards)
}

func TestListCards_Empty(t *testing.T) {
	assert.Empty(t, ListCards(nil))
}

func TestDetailOf_Hit(t *testing.T) {
	d, ok := DetailOf(sample(), "3")
	require.True(t, ok)
	assert.Equal(t, Detail{
		Name:        "Lavado",
		Price:       "$5.5",
		Description: "Lavado simple",
		Quantity:    "Cantidad: 3",
	}, d)
}

func TestDetailOf_PlaceholderDescription(t *testing.T) {
	d, ok := DetailOf(sample(), " 1 ")
	require.True(t, ok)
	assert.Equal(t, model.DescriptionPlaceholder, d.Description)
}

func TestDetailOf_Miss(t *testing.T) {
	for _, raw := range []string{"", "abc", "2", "1.5", "1x", "-1"} {
		t.Run(raw, func(t *testing.T) {
			d, ok := DetailOf(sample(), raw)
			assert.False(t, ok)
			assert.Equal(t, DefaultDetail(), d)
		})
	}
}

func TestAdminRows(t *testing.T) {
	rows := AdminRows(sample())
	require.Len(t, rows, 2)
	assert.Equal(t, Row{ID: 3, Name: "Lavado", Price: "$5.5"}, rows[1])
	assert.Equal(t, "edit:3", rows[1].EditAction())
	assert.Equal(t, "delete:3", rows[1].DeleteAction())
}

func TestEditFormOf(t *testing.T) {
	f := EditFormOf(sample()[1])
	assert.Equal(t, EditForm{ID: 3, Name: "Lavado", Price: "5.5", Description: "Lavado simple", Quantity: "3"}, f)
}

func TestRenderList(t *testing.T) {
	r := MustNewRenderer()

	var buf bytes.Buffer
	require.NoError(t, r.List(&buf, ListPage{Loaded: true, Cards: ListCards(sample())}))

	html := buf.String()
	assert.Contains(t, html, `class="services-grid"`)
	assert.Contains(t, html, `href="/servicios/detalle?id=1"`)
	assert.Contains(t, html, `<span class="price">$10</span>`)
	assert.Contains(t, html, `<p class="service-name">Corte</p>`)
	assert.NotContains(t, html, EmptyListMessage)
	assert.Less(t, strings.Index(html, "Corte"), strings.Index(html, "Lavado"))
}

func TestRenderList_EmptyState(t *testing.T) {
	r := MustNewRenderer()

	var loaded, failed bytes.Buffer
	require.NoError(t, r.List(&loaded, ListPage{Loaded: true}))
	require.NoError(t, r.List(&failed, ListPage{Loaded: false}))

	assert.Contains(t, loaded.String(), EmptyListMessage)
	assert.NotContains(t, failed.String(), EmptyListMessage)
}

func TestRenderList_EscapesNames(t *testing.T) {
	r := MustNewRenderer()
	services := model.Services{{ID: 1, Name: "<script>x</script>", Price: decimal.NewFromInt(1)}}

	var buf bytes.Buffer
	require.NoError(t, r.List(&buf, ListPage{Loaded: true, Cards: ListCards(services)}))
	assert.NotContains(t, buf.String(), "<script>x</script>")
}

func TestRenderDetail_Defaults(t *testing.T) {
	r := MustNewRenderer()

	var buf bytes.Buffer
	require.NoError(t, r.Detail(&buf, DetailPage{Detail: DefaultDetail()}))

	html := buf.String()
	assert.Contains(t, html, `<h1 class="nombre">Servicio</h1>`)
	assert.Contains(t, html, `<span class="precio">$0</span>`)
	assert.Contains(t, html, `<p class="descripcion">Descripción del servicio</p>`)
	assert.Contains(t, html, `<p class="cantidad">Cantidad: 0</p>`)
}

func TestRenderAdmin(t *testing.T) {
	r := MustNewRenderer()
	rows := AdminRows(sample())
	editing := EditFormOf(sample()[0])

	var buf bytes.Buffer
	require.NoError(t, r.Admin(&buf, AdminPage{
		Loaded:      true,
		Rows:        rows,
		Alert:       "Datos inválidos",
		FieldErrors: []errs.FieldError{{Field: "precio", Error: "is required"}},
		Editing:     &editing,
		Deleting:    &rows[1],
		Question:    "¿Eliminar este servicio?",
	}))

	html := buf.String()
	assert.Contains(t, html, `<tr data-id="3">`)
	assert.Contains(t, html, `value="edit:1"`)
	assert.Contains(t, html, `value="delete:3"`)
	assert.Contains(t, html, "Datos inválidos")
	assert.Contains(t, html, "precio: is required")
	assert.Contains(t, html, `action="/admin/services/1"`)
	assert.Contains(t, html, `action="/admin/services/3/delete"`)
	assert.Contains(t, html, "¿Eliminar este servicio?")
	assert.Contains(t, html, `id="btn-nuevo"`)
}
