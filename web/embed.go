// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"fmt"
	"html/template"

	"holou/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page with the helpers the plan view needs.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"extract_url":   func(v any) string { return utils.ExtractURL(asText(v)) },
		"extract_title": func(v any) string { return utils.ExtractTitle(asText(v)) },
		"resource_link": func(v any) string { return "/resource/?url=" + template.URLQueryEscaper(utils.ExtractURL(asText(v))) },
	}).ParseFS(templateFS, "templates/*.html")
}

func asText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
