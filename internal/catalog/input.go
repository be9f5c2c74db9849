package catalog

import (
	"strconv"
)

// Field identifies one editable attribute of a service.
type Field string

// Keys match the JSON names so form fields, API bodies and error
// messages all use the same vocabulary.
const (
	FieldName        Field = "nombre"
	FieldPrice       Field = "precio"
	FieldDescription Field = "descripcion"
	FieldQuantity    Field = "cantidad"
)

// Fields lists the prompts in the order they are asked.
var Fields = []Field{FieldName, FieldPrice, FieldDescription, FieldQuantity}

// Label returns the prompt text shown for the field.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Nombre del servicio"
	case FieldPrice:
		return "Precio"
	case FieldDescription:
		return "Descripción"
	case FieldQuantity:
		return "Cantidad"
	default:
		return string(f)
	}
}

// Prompter supplies field values. current is the value being edited
// (empty on create). A false second result means the user cancelled or
// gave no input for that field.
type Prompter interface {
	Prompt(field Field, current string) (string, bool)
}

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// Values is a Prompter backed by pre-collected answers, e.g. a submitted
// form, a JSON body or CLI flags. A missing key is "no input"; a present
// empty string is also treated as no input.
type Values map[Field]string

func (v Values) Prompt(field Field, current string) (string, bool) {
	answer, ok := v[field]
	if !ok || answer == "" {
		return "", false
	}
	return answer, true
}

// Confirmation is a fixed answer to every question.
type Confirmation bool

func (c Confirmation) Confirm(string) bool {
	return bool(c)
}

// currentValues renders a service's fields as prompt defaults.
func currentValues(name, price, description string, quantity int) map[Field]string {
	return map[Field]string{
		FieldName:        name,
		FieldPrice:       price,
		FieldDescription: description,
		FieldQuantity:    strconv.Itoa(quantity),
	}
}
