package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed page.html.tmpl
var pageFS embed.FS

// PageTemplate is the template name of the board page.
const PageTemplate = "board"

// HTMLRenderer renders documents as the board page. It satisfies echo.Renderer.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(pageFS, "page.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render writes the named template with data to w.
func (r *HTMLRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
