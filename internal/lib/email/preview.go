package email

import "time"

// PreviewData holds sample data for every template, used to preview
// and test the rendered emails.
var PreviewData = map[Template]any{
	TemplateCatalogChanged: CatalogChangedData{
		Action:    "created",
		ServiceID: 2,
		Name:      "Lavado",
		At:        time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	},
}
