// Package templates embeds the HTML views so handlers render the same files
// regardless of working directory.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "*.html"))

// Lookup returns the named page template. Unknown names are a programming
// error and panic at startup.
func Lookup(name string) *template.Template {
	t := pages.Lookup(name)
	if t == nil {
		panic("templates: no template named " + name)
	}
	return t
}
