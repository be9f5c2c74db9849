package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names, one per page.
const (
	templateList   = "list.html"
	templateDetail = "detail.html"
	templateAdmin  = "admin.html"
)

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, name := range []string{templateList, templateDetail, templateAdmin} {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse page template %s", name)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// MustNewRenderer is NewRenderer for callers that cannot recover, such as
// tests and process start-up.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) List(w io.Writer, page ListPage) error {
	return r.execute(w, templateList, page)
}

func (r *Renderer) Detail(w io.Writer, page DetailPage) error {
	return r.execute(w, templateDetail, page)
}

func (r *Renderer) Admin(w io.Writer, page AdminPage) error {
	return r.execute(w, templateAdmin, page)
}

// execute renders into a buffer first so a template error never leaves
// a half-written page behind.
func (r *Renderer) execute(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown page template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return errors.Wrapf(err, "failed to execute page template %s", name)
	}

	_, err := buf.WriteTo(w)
	return err
}
