// Package catalog holds the admin controller: the in-memory service list
// being edited and the create, edit and delete operations on it.
//
// The controller never talks to a UI. Field values come from a Prompter
// and confirmations from a Confirmer, and every successful mutation is
// persisted before the method returns.
package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/deppfellow/service-catalog/internal/model"
	"github.com/deppfellow/service-catalog/internal/validation"
)

// InvalidInputMessage is the alert shown when create input is rejected.
const InvalidInputMessage = "Datos inválidos"

// DeleteConfirmation is the question asked before deleting.
const DeleteConfirmation = "¿Eliminar este servicio?"

var (
	invalidInputCode = "SERVICE_INVALID"
	notFoundCode     = "SERVICE_NOT_FOUND"
)

// Store is the part of the store accessor the controller needs.
type Store interface {
	Stored(ctx context.Context) (model.Services, bool, error)
	Persist(ctx context.Context, services model.Services) error
}

// Admin owns the mutable copy of the list for one admin session.
type Admin struct {
	services model.Services
	store    Store
}

// NewAdmin starts a controller from given, unless the store already holds
// a persisted copy: once written, storage is authoritative.
func NewAdmin(ctx context.Context, given model.Services, store Store) (*Admin, error) {
	services := given.Clone()

	stored, ok, err := store.Stored(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		services = stored
	}

	return &Admin{services: services, store: store}, nil
}

// Services returns a copy of the current list for rendering.
func (a *Admin) Services() model.Services {
	return a.services.Clone()
}

type createInput struct {
	Name        string `json:"nombre" validate:"required"`
	Price       string `json:"precio" validate:"required"`
	Description string `json:"descripcion" validate:"required"`
	Quantity    string `json:"cantidad" validate:"required"`
}

// Create prompts for all four fields and appends a new service with the
// next id. Invalid input returns a 400 *errs.HTTPError and changes nothing.
func (a *Admin) Create(ctx context.Context, p Prompter) (model.Service, error) {
	answer := func(f Field) string {
		v, _ := p.Prompt(f, "")
		return strings.TrimSpace(v)
	}

	in := createInput{
		Name:        answer(FieldName),
		Price:       answer(FieldPrice),
		Description: answer(FieldDescription),
		Quantity:    answer(FieldQuantity),
	}

	if err := validation.Struct(&in); err != nil {
		return model.Service{}, invalidInput(validation.FieldErrors(err))
	}

	var problems validation.CustomValidationErrors

	price, ok := parsePrice(in.Price)
	if !ok {
		problems = append(problems, validation.CustomValidationError{
			Field:   string(FieldPrice),
			Message: "must be a valid non-negative number",
		})
	}

	quantity, err := strconv.Atoi(in.Quantity)
	if err != nil {
		problems = append(problems, validation.CustomValidationError{
			Field:   string(FieldQuantity),
			Message: "must be a valid integer",
		})
	}

	if len(problems) > 0 {
		return model.Service{}, invalidInput(validation.FieldErrors(problems))
	}

	service := model.Service{
		ID:          a.services.NextID(),
		Name:        in.Name,
		Price:       price,
		Description: in.Description,
		Quantity:    quantity,
	}

	next := append(a.services.Clone(), service)
	if err := a.store.Persist(ctx, next); err != nil {
		return model.Service{}, err
	}
	a.services = next

	return service, nil
}

// Edit prompts for each field pre-filled with the current value. A field
// with no input keeps its value, as does a price or quantity that does not
// parse. A provided zero is applied.
func (a *Admin) Edit(ctx context.Context, id int, p Prompter) (model.Service, error) {
	i := a.services.Index(id)
	if i < 0 {
		return model.Service{}, NotFound()
	}

	service := a.services[i]
	current := currentValues(service.Name, service.Price.String(), service.Description, service.Quantity)

	answer := func(f Field) (string, bool) {
		v, ok := p.Prompt(f, current[f])
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := answer(FieldName); ok {
		service.Name = v
	}
	if v, ok := answer(FieldPrice); ok {
		if price, valid := parsePrice(v); valid {
			service.Price = price
		}
	}
	if v, ok := answer(FieldDescription); ok {
		service.Description = v
	}
	if v, ok := answer(FieldQuantity); ok {
		if quantity, err := strconv.Atoi(v); err == nil {
			service.Quantity = quantity
		}
	}

	next := a.services.Clone()
	next[i] = service
	if err := a.store.Persist(ctx, next); err != nil {
		return model.Service{}, err
	}
	a.services = next

	return service, nil
}

// Delete asks for confirmation and removes the service with id. It
// reports whether anything was removed; a refusal is not an error.
func (a *Admin) Delete(ctx context.Context, id int, c Confirmer) (bool, error) {
	if !c.Confirm(DeleteConfirmation) {
		return false, nil
	}

	if a.services.Index(id) < 0 {
		return false, NotFound()
	}

	next := a.services.Without(id)
	if err := a.store.Persist(ctx, next); err != nil {
		return false, err
	}
	a.services = next

	return true, nil
}

func parsePrice(s string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(s)
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, false
	}
	return price, true
}

func invalidInput(fieldErrors []errs.FieldError) *errs.HTTPError {
	return errs.NewBadRequestError(InvalidInputMessage, true, &invalidInputCode, fieldErrors, nil)
}

// NotFound is the error for an id that matches no service.
func NotFound() *errs.HTTPError {
	return errs.NewNotFoundError("Servicio no encontrado", true, &notFoundCode)
}
