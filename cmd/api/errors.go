package main

import (
	"fmt"
	"net/http"
	"time"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, resource string) {
	app.logger.Infow("not found", "method", r.Method, "path", r.URL.Path, "resource", resource)

	writeJSONError(w, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// validationFailedResponse lists one message per violated field.
func (app *application) validationFailedResponse(w http.ResponseWriter, r *http.Request, messages []string) {
	app.logger.Infow("validation failed", "method", r.Method, "path", r.URL.Path, "errors", messages)

	type envelope struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
		Status  int      `json:"status"`
	}
	writeJSON(w, http.StatusUnprocessableEntity, &envelope{
		Success: false,
		Errors:  messages,
		Status:  http.StatusUnprocessableEntity,
	})
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	app.logger.Warnw("rate limit exceeded", "path", r.URL.Path, "ip", r.RemoteAddr)

	w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry later")
}
