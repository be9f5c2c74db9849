package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateCatalogChanged corresponds to templates/emails/catalog_changed.html
	TemplateCatalogChanged Template = "catalog_changed"
)
