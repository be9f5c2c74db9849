package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/service-catalog/internal/config"
	"github.com/deppfellow/service-catalog/internal/handler"
	"github.com/deppfellow/service-catalog/internal/model"
	"github.com/deppfellow/service-catalog/internal/repository"
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/service"
)

const corte = `[{"id":1,"nombre":"Corte","precio":10,"descripcion":"","cantidad":5}]`

func newTestRouter(t *testing.T, rateLimit float64) *echo.Echo {
	t.Helper()

	bootstrap := filepath.Join(t.TempDir(), "services.json")
	require.NoError(t, os.WriteFile(bootstrap, []byte(corte), 0o644))

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          rateLimit,
		},
		Store: config.StoreConfig{
			Backend:   config.BackendMemory,
			Key:       "servicios",
			Bootstrap: bootstrap,
		},
	}
	require.NoError(t, cfg.Validate())

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	services, err := service.NewService(s, repository.NewRepositories(s))
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(e *echo.Echo, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, target string, form url.Values) *httptest.ResponseRecorder {
	return do(e, http.MethodPost, target, form.Encode(), echo.MIMEApplicationForm)
}

func decodeServices(t *testing.T, rec *httptest.ResponseRecorder) model.Services {
	t.Helper()
	services, err := model.DecodeServices(rec.Body.Bytes())
	require.NoError(t, err)
	return services
}

func TestScenario_CorteThenLavado(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/servicios", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<p class="service-name">Corte</p>`)
	assert.Contains(t, rec.Body.String(), `<span class="price">$10</span>`)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `class="service-card"`))

	rec = postForm(e, "/admin/services", url.Values{
		"nombre":      {"Lavado"},
		"precio":      {"5"},
		"descripcion": {"Lavado simple"},
		"cantidad":    {"3"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, http.MethodGet, "/admin", "", "")
	assert.Contains(t, rec.Body.String(), `<tr data-id="2">`)

	rec = postForm(e, "/admin/rows", url.Values{"action": {"delete:1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin?delete=1", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, http.MethodGet, "/admin?delete=1", "", "")
	assert.Contains(t, rec.Body.String(), "¿Eliminar este servicio?")

	rec = postForm(e, "/admin/services/1/delete", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/services", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	services := decodeServices(t, rec)
	require.Len(t, services, 1)
	assert.Equal(t, 2, services[0].ID)
	assert.Equal(t, "Lavado", services[0].Name)
}

func TestAdmin_InvalidCreateRendersAlert(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := postForm(e, "/admin/services", url.Values{"nombre": {"Lavado"}, "precio": {"cinco"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Datos inválidos")
	assert.Contains(t, rec.Body.String(), `<tr data-id="1">`)

	rec = do(e, http.MethodGet, "/api/v1/services", "", "")
	assert.Len(t, decodeServices(t, rec), 1)
}

func TestAdmin_EditKeepsBlankFields(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := postForm(e, "/admin/rows", url.Values{"action": {"edit:1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin?edit=1", rec.Header().Get(echo.HeaderLocation))

	rec = postForm(e, "/admin/services/1", url.Values{"nombre": {""}, "precio": {"0"}, "cantidad": {""}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/services/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Corte", got.Name)
	assert.True(t, got.Price.IsZero())
	assert.Equal(t, 5, got.Quantity)
}

func TestAdmin_DeleteRefused(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := postForm(e, "/admin/services/1/delete", url.Values{"confirm": {"no"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/services", "", "")
	assert.Len(t, decodeServices(t, rec), 1)
}

func TestAdmin_UnknownRowAction(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := postForm(e, "/admin/rows", url.Values{"action": {"archive:1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_EditUnknownID(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := postForm(e, "/admin/services/42", url.Values{"nombre": {"x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Servicio no encontrado")
}

func TestDetailPage(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/servicios/detalle?id=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<h1 class="nombre">Corte</h1>`)
	assert.Contains(t, rec.Body.String(), `<p class="descripcion">Sin descripción</p>`)
	assert.Contains(t, rec.Body.String(), `<p class="cantidad">Cantidad: 5</p>`)

	rec = do(e, http.MethodGet, "/servicios/detalle?id=abc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<h1 class="nombre">Servicio</h1>`)
}

func TestRedirects(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/servicios", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, http.MethodGet, "/detalleserv.html?id=2", "", "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/servicios/detalle?id=2", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, http.MethodGet, "/pages/crudadmin.html", "", "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, http.MethodGet, "/pages/index.html", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_CRUD(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodPost, "/api/v1/services",
		`{"nombre":"Lavado","precio":5.5,"descripcion":"Lavado simple","cantidad":3}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":2,"nombre":"Lavado","precio":5.5,"descripcion":"Lavado simple","cantidad":3}`, rec.Body.String())

	rec = do(e, http.MethodPut, "/api/v1/services/2", `{"cantidad":0}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"nombre":"Lavado","precio":5.5,"descripcion":"Lavado simple","cantidad":0}`, rec.Body.String())

	rec = do(e, http.MethodDelete, "/api/v1/services/2", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/services/2", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"SERVICE_NOT_FOUND"`)
}

func TestAPI_CreateInvalid(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodPost, "/api/v1/services", `{"nombre":"Lavado"}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Datos inválidos", body.Message)
	assert.NotEmpty(t, body.Errors)
}

func TestAPI_Export(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/api/v1/services/export", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=servicios.json", rec.Header().Get("Content-Disposition"))
	assert.JSONEq(t, corte, rec.Body.String())
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/status", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store"`)

	rec = do(e, http.MethodGet, "/docs", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/static/css/styles.css", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/static/openapi.json", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	e := newTestRouter(t, 0)

	rec := do(e, http.MethodGet, "/servicios", "", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	e := newTestRouter(t, 1)

	form := url.Values{"action": {"edit:1"}}
	first := postForm(e, "/admin/rows", form)
	second := postForm(e, "/admin/rows", form)

	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Reads are never limited.
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/admin", "", "").Code)
}
