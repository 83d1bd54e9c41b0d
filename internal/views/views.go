// Package views holds the embedded HTML templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var files embed.FS

// FuncMap is shared by every page.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"price": func(cents int) string { return fmt.Sprintf("%.2f", float64(cents)/100.0) },
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
	}
}

// Templates parses all pages and partials. Pages are addressed by file name, e.g. "build_a_board.tmpl".
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(FuncMap()).ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
