package testutil

import "net/http"

// ViewRecorder is a views.Renderer that captures render calls instead of
// executing templates, so handler tests can assert on the chosen page and
// its view model.
type ViewRecorder struct {
	Calls []RenderCall
}

// RenderCall is one captured render.
type RenderCall struct {
	Status int
	Name   string
	Data   any
}

// Render records the call and writes the status.
func (rec *ViewRecorder) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	rec.Calls = append(rec.Calls, RenderCall{Status: status, Name: name, Data: data})
	w.WriteHeader(status)
}

// Last returns the most recent call, or the zero RenderCall.
func (rec *ViewRecorder) Last() RenderCall {
	if len(rec.Calls) == 0 {
		return RenderCall{}
	}
	return rec.Calls[len(rec.Calls)-1]
}
