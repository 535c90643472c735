package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	ViewIndex = "index"
	ViewError = "error"
)

// IndexPage is the model of the index view.
// Result is nil on a fresh visit, which renders the credentials form.
type IndexPage struct {
	Result *domain.AuthResult
}

// ErrorPage is the model of the uniform error view
type ErrorPage struct {
	Message     string
	Description string
}

// Views holds the parsed page templates
type Views struct {
	pages map[string]*template.Template
}

// NewViews parses the embedded templates. Each page is parsed with the
// shared layout into its own set so page blocks do not collide.
func NewViews() *Views {
	pages := make(map[string]*template.Template)
	for _, name := range []string{ViewIndex, ViewError} {
		pages[name] = template.Must(template.New(name).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		))
	}
	return &Views{pages: pages}
}

// Render executes a page into a buffer and writes it with the given status.
// Nothing is written when execution fails.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
