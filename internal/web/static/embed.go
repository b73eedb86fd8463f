// Package static holds the embedded viewer page.
package static

import (
	_ "embed"
	"html/template"
	"io"
)

//go:embed view.html.tmpl
var viewHTML string

var viewTemplate = template.Must(template.New("view").Parse(viewHTML))

// ViewData is the input of the viewer page.
type ViewData struct {
	Title          string
	ImageURL       string
	Width          int
	Height         int
	RefreshSeconds int
}

// RenderView writes the viewer page.
func RenderView(w io.Writer, data ViewData) error {
	return viewTemplate.Execute(w, data)
}
