package document

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var printTemplate = template.Must(template.ParseFS(templateFS, "templates/print.html"))

// RenderHTML writes a standalone page that opens the browser print dialog
// once loaded.
func RenderHTML(w io.Writer, doc Document) error {
	return printTemplate.ExecuteTemplate(w, "print.html", doc)
}
