package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/deppfellow/service-catalog/internal/sqlerr"
)

func TestClassify(t *testing.T) {
	notFound := errs.NewNotFoundError("Servicio no encontrado", false, nil)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error", notFound, http.StatusNotFound, notFound.Code},
		{"route miss", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"postgres down", &pgconn.PgError{Code: "08006"}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)

			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
		})
	}

	assert.Equal(t, sqlerr.UnavailableMessage, classify(&pgconn.PgError{Code: "08006"}).Message)
}
