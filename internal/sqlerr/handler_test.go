package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/service-catalog/internal/errs"
)

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	in := errs.NewNotFoundError("Servicio no encontrado", true, nil)

	assert.Same(t, in, HandleError(in))
}

func TestHandleError_InvalidJSON(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02", Severity: "ERROR", TableName: "storage_slots", Message: "invalid input syntax for type json"}

	err := HandleError(fmt.Errorf("writing slot: %w", pgErr))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "STORAGE_SLOT_INVALID", httpErr.Code)
	assert.Equal(t, "The Storage Slot value is not valid", httpErr.Message)
}

func TestHandleError_NotNull(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23502", TableName: "storage_slots", ColumnName: "value"}

	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(pgErr), &httpErr))
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "value", httpErr.Errors[0].Field)
	assert.Equal(t, "STORAGE_SLOT_REQUIRED", httpErr.Code)
}

func TestHandleError_ConnectionFailureIsUnavailable(t *testing.T) {
	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(&pgconn.PgError{Code: "08006"}), &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.Equal(t, "SERVICE_UNAVAILABLE", httpErr.Code)
	assert.Equal(t, UnavailableMessage, httpErr.Message)
}

func TestHandleError_UnmappedPgErrorIsInternal(t *testing.T) {
	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(&pgconn.PgError{Code: "42P01"}), &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestHandleError_NoRows(t *testing.T) {
	err := HandleError(fmt.Errorf("reading slot: %w", pgx.ErrNoRows))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestGetEntityName(t *testing.T) {
	assert.Equal(t, "Storage Slot", getEntityName("storage_slots"))
	assert.Equal(t, "record", getEntityName(""))
	assert.Equal(t, "STORAGE_SLOT_INVALID", errorCode("storage_slots", "INVALID"))
}

func TestHandleError_Unknown(t *testing.T) {
	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(errors.New("boom")), &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})

	assert.Equal(t, UniqueViolation, ErrCode(converted))
	assert.Equal(t, SeverityError, converted.Severity)
	assert.Equal(t, Other, ErrCode(errors.New("x")))
}
