// Package views is the seam between handlers and the template engine.
package views

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
)

// Renderer writes a named page with the given status.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, data any)
}

// Templates renders through the booted waffle template engine.
type Templates struct{}

// Render sets the status and content type, then executes the template.
func (Templates) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, name, data)
}
