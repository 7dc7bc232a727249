// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
)

// pageData is the view model for error pages.
type pageData struct {
	Title      string
	Status     int
	IsLoggedIn bool
	UserName   string
	Message    string
	BackURL    string
	ErrorID    string
}

// Handler serves the router-level error pages.
type Handler struct {
	ErrLog *ErrorLogger
}

// NewHandler constructs an errors Handler.
func NewHandler(errLog *ErrorLogger) *Handler {
	return &Handler{ErrLog: errLog}
}

// NotFound is the router's fallback for unmatched paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.ErrLog.LogNotFound(w, r, "no route", nil, "The page you requested does not exist.", "")
}

// MethodNotAllowed answers a known path with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.ErrLog.LogBadRequest(w, r, "method not allowed", nil, "That action is not available here.", "")
}
