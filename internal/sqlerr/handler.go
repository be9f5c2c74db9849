package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnavailableMessage is shown when the slot's database cannot be reached.
const UnavailableMessage = "El almacenamiento no está disponible"

// ErrCode reports the Code of a normalized error, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw pgconn.PgError into an Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// outcomes maps each Code to its code suffix and message template. The
// template receives the humanized entity (or column for NotNull).
var outcomes = map[Code]struct {
	suffix  string
	message string
}{
	ForeignKeyViolation: {"NOT_FOUND", "The referenced %s does not exist"},
	UniqueViolation:     {"ALREADY_EXISTS", "A %s with this identifier already exists"},
	NotNullViolation:    {"REQUIRED", "The %s is required"},
	CheckViolation:      {"INVALID", "The %s value is not valid"},
	InvalidTextRep:      {"INVALID", "The %s value is not valid"},
}

// errorCode builds <ENTITY>_<SUFFIX> codes, e.g. STORAGE_SLOT_INVALID.
func errorCode(tableName, suffix string) string {
	if tableName == "" {
		tableName = "record"
	}
	return strings.ToUpper(singular(tableName)) + "_" + suffix
}

// getEntityName singularizes a table name: "storage_slots" -> "Storage Slot".
func getEntityName(tableName string) string {
	if tableName == "" {
		return "record"
	}
	return humanizeText(singular(tableName))
}

func singular(name string) string {
	if len(name) > 1 && strings.HasSuffix(strings.ToLower(name), "s") {
		return name[:len(name)-1]
	}
	return name
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a slot storage error into an HTTPError.
//
//   - *errs.HTTPError is returned unchanged
//   - constraint violations become 400 with a generated code
//   - connection failures become 503
//   - ErrNoRows becomes 404
//   - anything else becomes 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return unavailable()
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errs.NewInternalServerError()
	}

	sqlErr := ConvertPgError(pgErr)
	if sqlErr.Code == ConnectionFailure {
		return unavailable()
	}

	outcome, ok := outcomes[sqlErr.Code]
	if !ok {
		return errs.NewInternalServerError()
	}

	code := errorCode(sqlErr.TableName, outcome.suffix)
	if sqlErr.Code != NotNullViolation {
		return errs.NewBadRequestError(fmt.Sprintf(outcome.message, getEntityName(sqlErr.TableName)), true, &code, nil, nil)
	}

	field := "field"
	if sqlErr.ColumnName != "" {
		field = humanizeText(sqlErr.ColumnName)
	}
	fieldErrors := []errs.FieldError{{
		Field: strings.ToLower(sqlErr.ColumnName),
		Error: "is required",
	}}
	return errs.NewBadRequestError(fmt.Sprintf(outcome.message, field), true, &code, fieldErrors, nil)
}

func unavailable() *errs.HTTPError {
	return &errs.HTTPError{
		Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusServiceUnavailable)),
		Message: UnavailableMessage,
		Status:  http.StatusServiceUnavailable,
	}
}
