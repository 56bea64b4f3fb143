// Package web bundles the HTML templates of the paper carbon form.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Templates returns the parsed page templates. The result is shared and safe for concurrent execution.
func Templates() *template.Template {
	return templates
}
