// internal/app/features/errors/errorlogger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/jobboard/internal/app/system/auth"
	"github.com/dalemusser/jobboard/internal/app/system/views"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger logs a failed request and renders the matching error page.
// Handlers call exactly one Log* method and return.
type ErrorLogger struct {
	log      *zap.Logger
	renderer views.Renderer
}

// NewErrorLogger builds an ErrorLogger that renders through the template engine.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger, renderer: views.Templates{}}
}

// WithRenderer returns a copy that renders through rr.
func (e *ErrorLogger) WithRenderer(rr views.Renderer) *ErrorLogger {
	cp := *e
	cp.renderer = rr
	return &cp
}

// LogBadRequest responds 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, append(requestFields(r), zap.Error(err))...)
	e.render(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL, "")
}

// LogForbidden responds 403.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, append(requestFields(r), zap.Error(err))...)
	e.render(w, r, http.StatusForbidden, "Access denied", userMsg, backURL, "")
}

// LogNotFound responds 404.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Info(msg, append(requestFields(r), zap.Error(err))...)
	e.render(w, r, http.StatusNotFound, "Not found", userMsg, backURL, "")
}

// LogConflict responds 409.
func (e *ErrorLogger) LogConflict(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Info(msg, append(requestFields(r), zap.Error(err))...)
	e.render(w, r, http.StatusConflict, "Conflict", userMsg, backURL, "")
}

// LogServerError responds 500. The error id is logged and shown to the user
// so a report can be matched to the log line.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	id := uuid.NewString()
	e.log.Error(msg, append(requestFields(r), zap.String("error_id", id), zap.Error(err))...)
	e.render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL, id)
}

// LogUpstreamError responds 502 when an outside service we depend on failed.
func (e *ErrorLogger) LogUpstreamError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	id := uuid.NewString()
	e.log.Error(msg, append(requestFields(r), zap.String("error_id", id), zap.Error(err))...)
	e.render(w, r, http.StatusBadGateway, "Service unavailable", userMsg, backURL, id)
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL, errorID string) {
	if backURL == "" {
		backURL = "/jobs/1"
	}
	data := pageData{
		Title:   title,
		Status:  status,
		Message: userMsg,
		BackURL: backURL,
		ErrorID: errorID,
	}
	if u, ok := auth.CurrentUser(r); ok {
		data.IsLoggedIn = true
		data.UserName = u.Name
	}
	e.renderer.Render(w, r, status, "error_page", data)
}

func requestFields(r *http.Request) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	return fields
}
