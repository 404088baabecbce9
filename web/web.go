// Package web embeds the HTML page shells served by the backend.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every embedded page; template names are the file names
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
