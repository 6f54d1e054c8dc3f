// Package response writes the two wire envelopes used by the API: a success
// wrapper carrying the payload with a message and status code, and an
// RFC 7807 style problem document for failures.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

type ProblemDetails struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "write response failed", "error", err, "path", r.URL.Path)
	}
}

// Success wraps the payload in the uniform envelope. The envelope code echoes
// the HTTP status so clients consuming only the body see the same outcome.
func Success(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	JSON(w, r, status, Envelope{Data: data, Message: message, Code: status})
}

func Problem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	JSON(w, r, status, ProblemDetails{Title: http.StatusText(status), Status: status, Detail: detail})
}

// ValidationProblem reports a 400 with one entry per violated field, keyed by
// the lower-cased field name.
func ValidationProblem(w http.ResponseWriter, r *http.Request, errs map[string][]string) {
	JSON(w, r, http.StatusBadRequest, ProblemDetails{
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: errs,
	})
}
