// Package template defines the template engine contract used to render
// generated source files, plus a pongo2-backed implementation in the
// gotemplate subpackage.
package template
