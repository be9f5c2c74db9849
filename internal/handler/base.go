package handler

import (
	"reflect"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/service-catalog/internal/middleware"
	"github.com/deppfellow/service-catalog/internal/model"
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/validation"
)

// Handler is embedded by every concrete handler; it carries the server
// (config, logger, slot).
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc receives the bound and validated request. Req is a pointer
// type such as *GetServiceRequest.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a HandlerFunc without a response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseHandler writes a successful result and describes it for logs
// and New Relic.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes the result as JSON.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "api"
}

// AddAttributes tags the transaction with the service or list size the
// API answered with.
func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn == nil {
		return
	}
	switch r := result.(type) {
	case model.Service:
		txn.AddAttribute("service.id", r.ID)
	case model.Services:
		txn.AddAttribute("services.count", len(r))
	}
}

// NoContentResponseHandler answers with a bare status, e.g. 204 on delete.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "api_no_content"
}

func (h NoContentResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

// FileResponseHandler sends the []byte result as an attachment.
type FileResponseHandler struct {
	status      int
	filename    string
	contentType string
}

func (h FileResponseHandler) Handle(c echo.Context, result interface{}) error {
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+h.filename)
	return c.Blob(h.status, h.contentType, result.([]byte))
}

func (h FileResponseHandler) GetOperation() string {
	return "export"
}

func (h FileResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn == nil {
		return
	}
	txn.AddAttribute("file.name", h.filename)
	if data, ok := result.([]byte); ok {
		txn.AddAttribute("file.size_bytes", len(data))
	}
}

// RedirectResponseHandler answers a form post with a redirect to the URL
// the handler returned. When the handler already wrote a response (a
// re-rendered page after rejected input) nothing more is written.
type RedirectResponseHandler struct {
	status int
}

func (h RedirectResponseHandler) Handle(c echo.Context, result interface{}) error {
	if c.Response().Committed {
		return nil
	}
	return c.Redirect(h.status, result.(string))
}

func (h RedirectResponseHandler) GetOperation() string {
	return "form"
}

func (h RedirectResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if location, ok := result.(string); ok && txn != nil {
		txn.AddAttribute("redirect.location", location)
	}
}

// timings holds the phase durations reported for every request.
type timings struct {
	start      time.Time
	validation time.Duration
	handler    time.Duration
}

// report sets the phase status and durations on the transaction and
// notices err when present.
func (t timings) report(txn *newrelic.Transaction, phase string, err error) {
	if txn == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failed"
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}

	txn.AddAttribute(phase+".status", status)
	txn.AddAttribute("validation.duration_ms", t.validation.Milliseconds())
	if phase == "handler" {
		txn.AddAttribute("handler.duration_ms", t.handler.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(t.start).Milliseconds())
	}
}

// handleRequest binds and validates req, runs the handler and writes the
// result through responseHandler. Every phase is logged on the request
// logger and reported to New Relic when a transaction is present.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	t := timings{start: time.Now()}

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", c.Path()).
		Logger()

	err := validation.BindAndValidate(c, req)
	t.validation = time.Since(t.start)
	t.report(txn, "validation", err)
	if err != nil {
		logger.Warn().Err(err).Dur("validation_duration", t.validation).Msg("request validation failed")
		return err
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	t.handler = time.Since(handlerStart)
	t.report(txn, "handler", err)
	if err != nil {
		logger.Error().Err(err).
			Dur("handler_duration", t.handler).
			Dur("total_duration", time.Since(t.start)).
			Msg("handler execution failed")
		return err
	}

	responseHandler.AddAttributes(txn, result)

	logger.Info().
		Dur("validation_duration", t.validation).
		Dur("handler_duration", t.handler).
		Dur("total_duration", time.Since(t.start)).
		Msg("request handled")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler into the pipeline and writes its result as
// JSON:
//
//	api.POST("/services", handler.Handle(h.Handler, h.CreateService, http.StatusCreated, &CreateServiceRequest{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleFile wraps a handler that returns file bytes as a download.
func HandleFile[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, []byte],
	status int,
	req Req,
	filename string,
	contentType string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, FileResponseHandler{
			status:      status,
			filename:    filename,
			contentType: contentType,
		})
	}
}

// HandleNoContent wraps a handler for endpoints that return no body, such
// as a 204 on delete.
func HandleNoContent[Req validation.Validatable](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			err := handler(c, req)
			return nil, err
		}, NoContentResponseHandler{status: status})
	}
}

// HandleRedirect wraps a form handler that answers with a redirect to the
// URL it returns (303 after a successful post).
func HandleRedirect[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, string],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, RedirectResponseHandler{status: status})
	}
}

// newRequest returns a fresh zero value of the prototype's type, so
// concurrent requests never bind into a shared payload.
func newRequest[Req validation.Validatable](prototype Req) Req {
	t := reflect.TypeOf(prototype)
	if t.Kind() != reflect.Pointer {
		return prototype
	}
	return reflect.New(t.Elem()).Interface().(Req)
}
