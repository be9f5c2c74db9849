package email

import (
	"fmt"
	"time"
)

// CatalogChangedData is the data of the catalog_changed template.
type CatalogChangedData struct {
	Action    string
	ServiceID int
	Name      string
	At        time.Time
}

// Subject is the email subject line for the change.
func (d CatalogChangedData) Subject() string {
	return fmt.Sprintf("Servicio %d %s", d.ServiceID, d.ActionLabel())
}

// ActionLabel translates the job action into the email's wording.
func (d CatalogChangedData) ActionLabel() string {
	switch d.Action {
	case "created":
		return "creado"
	case "updated":
		return "actualizado"
	case "deleted":
		return "eliminado"
	default:
		return d.Action
	}
}

// SendCatalogChangedEmail notifies to about one catalog change.
func (c *Client) SendCatalogChangedEmail(to string, data CatalogChangedData) error {
	return c.SendEmail(to, data.Subject(), TemplateCatalogChanged, data)
}
