// Package model holds the catalog's only entity, the Service record,
// and the ordered list it lives in.
//
// The JSON shape (id, nombre, precio, descripcion, cantidad) is shared by
// the bootstrap file, the persisted slot and the JSON API.
package model

import (
	"encoding/json"
	"slices"

	"github.com/shopspring/decimal"
)

// DescriptionPlaceholder is shown wherever a service has no description.
const DescriptionPlaceholder = "Sin descripción"

// Service is a catalog record.
type Service struct {
	ID          int             `json:"id"`
	Name        string          `json:"nombre"`
	Price       decimal.Decimal `json:"precio"`
	Description string          `json:"descripcion"`
	Quantity    int             `json:"cantidad"`
}

// MarshalJSON encodes Price as a bare JSON number instead of decimal's
// default quoted string, so the persisted copy keeps the bootstrap shape.
func (s Service) MarshalJSON() ([]byte, error) {
	type alias Service

	return json.Marshal(struct {
		alias
		Price json.Number `json:"precio"`
	}{
		alias: alias(s),
		Price: json.Number(s.Price.String()),
	})
}

// FormattedPrice returns the price prefixed with the currency symbol, e.g. "$10".
func (s Service) FormattedPrice() string {
	return "$" + s.Price.String()
}

// DisplayDescription returns the description or the placeholder when empty.
func (s Service) DisplayDescription() string {
	if s.Description == "" {
		return DescriptionPlaceholder
	}
	return s.Description
}

// Services is the full catalog in insertion order.
type Services []Service

// NextID returns one more than the largest id in the list, or 1 when empty.
func (ss Services) NextID() int {
	next := 1
	for _, s := range ss {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

// Index returns the position of the service with the given id, or -1.
func (ss Services) Index(id int) int {
	return slices.IndexFunc(ss, func(s Service) bool { return s.ID == id })
}

// Find returns the service with the given id.
func (ss Services) Find(id int) (Service, bool) {
	i := ss.Index(id)
	if i < 0 {
		return Service{}, false
	}
	return ss[i], true
}

// Without returns a new list with every service matching id removed.
// The relative order of the remaining services is preserved.
func (ss Services) Without(id int) Services {
	out := make(Services, 0, len(ss))
	for _, s := range ss {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a copy that shares no backing array with ss.
// A nil list clones to an empty, non-nil list so it encodes as [].
func (ss Services) Clone() Services {
	out := make(Services, len(ss))
	copy(out, ss)
	return out
}

// Encode serializes the whole list.
func (ss Services) Encode() ([]byte, error) {
	if ss == nil {
		ss = Services{}
	}
	return json.Marshal(ss)
}

// DecodeServices parses a JSON array of services.
func DecodeServices(data []byte) (Services, error) {
	var ss Services
	if err := json.Unmarshal(data, &ss); err != nil {
		return nil, err
	}
	if ss == nil {
		ss = Services{}
	}
	return ss, nil
}
