// Package view turns the service list into the three HTML pages: the
// card grid, the detail card and the admin table.
//
// The projections (ListCards, DetailOf, AdminRows) are pure and carry
// everything the templates print, so they are what tests assert on.
// Renderer only executes the embedded templates.
package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/deppfellow/service-catalog/internal/model"
)

// Route paths printed into links and form actions.
const (
	ListPath   = "/servicios"
	DetailPath = "/servicios/detalle"
	AdminPath  = "/admin"
)

// EmptyListMessage is shown on the list page when the load succeeded
// with zero services.
const EmptyListMessage = "No hay servicios disponibles."

// Card is one entry of the list page grid.
type Card struct {
	ID    int
	Name  string
	Price string
	Href  string
}

// DetailHref links to the detail page of the service with id.
func DetailHref(id int) string {
	return DetailPath + "?id=" + strconv.Itoa(id)
}

// ListCards projects services into cards, preserving order.
func ListCards(services model.Services) []Card {
	cards := make([]Card, 0, len(services))
	for _, s := range services {
		cards = append(cards, Card{
			ID:    s.ID,
			Name:  s.Name,
			Price: s.FormattedPrice(),
			Href:  DetailHref(s.ID),
		})
	}
	return cards
}

// Detail holds the four text regions of the detail page.
type Detail struct {
	Name        string
	Price       string
	Description string
	Quantity    string
}

// DefaultDetail is the page's content before (or instead of) a lookup.
func DefaultDetail() Detail {
	return Detail{
		Name:        "Servicio",
		Price:       "$0",
		Description: "Descripción del servicio",
		Quantity:    QuantityLabel(0),
	}
}

// QuantityLabel formats the quantity region, e.g. "Cantidad: 5".
func QuantityLabel(n int) string {
	return fmt.Sprintf("Cantidad: %d", n)
}

// ParseID parses a query-string id. Surrounding whitespace is ignored;
// anything else that is not a base-10 integer fails.
func ParseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return id, true
}

// DetailOf looks up rawID in services. On a miss (empty, malformed or
// unknown id) it returns DefaultDetail and false.
func DetailOf(services model.Services, rawID string) (Detail, bool) {
	id, ok := ParseID(rawID)
	if !ok {
		return DefaultDetail(), false
	}

	s, ok := services.Find(id)
	if !ok {
		return DefaultDetail(), false
	}

	return Detail{
		Name:        s.Name,
		Price:       s.FormattedPrice(),
		Description: s.DisplayDescription(),
		Quantity:    QuantityLabel(s.Quantity),
	}, true
}

// Row is one line of the admin table. ID is the lookup key the row's
// buttons post back.
type Row struct {
	ID    int
	Name  string
	Price string
}

// EditAction and DeleteAction are the button values posted by a row.
func (r Row) EditAction() string   { return "edit:" + strconv.Itoa(r.ID) }
func (r Row) DeleteAction() string { return "delete:" + strconv.Itoa(r.ID) }

// AdminRows projects services into table rows, preserving order.
func AdminRows(services model.Services) []Row {
	rows := make([]Row, 0, len(services))
	for _, s := range services {
		rows = append(rows, Row{ID: s.ID, Name: s.Name, Price: s.FormattedPrice()})
	}
	return rows
}

// EditForm is the edit dialog, pre-filled with the current values.
type EditForm struct {
	ID          int
	Name        string
	Price       string
	Description string
	Quantity    string
}

// EditFormOf builds the edit dialog for s.
func EditFormOf(s model.Service) EditForm {
	return EditForm{
		ID:          s.ID,
		Name:        s.Name,
		Price:       s.Price.String(),
		Description: s.Description,
		Quantity:    strconv.Itoa(s.Quantity),
	}
}

// ListPage is the data of the list page. Loaded is false after a failed
// load, which suppresses the empty-state message.
type ListPage struct {
	Loaded bool
	Cards  []Card
}

// Empty reports whether the empty-state message is shown.
func (p ListPage) Empty() bool {
	return p.Loaded && len(p.Cards) == 0
}

// DetailPage is the data of the detail page.
type DetailPage struct {
	Detail Detail
}

// AdminPage is the data of the admin page.
type AdminPage struct {
	Loaded      bool
	Rows        []Row
	Alert       string
	FieldErrors []errs.FieldError

	// Editing opens the edit dialog for one service.
	Editing *EditForm

	// Deleting opens the delete confirmation for one row.
	Deleting *Row
	Question string
}
