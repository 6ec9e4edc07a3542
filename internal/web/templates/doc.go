// Package templates renders the HTML pages of the application. Components
// are written in .templ files; the _templ.go files are generated with
// `templ generate` and committed.
package templates
