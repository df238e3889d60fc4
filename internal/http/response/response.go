// Package response renders the API's JSON envelope. Every endpoint, success
// or failure, emits the same shape so clients parse one structure.
package response

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	write(w, status, Envelope{
		Success:   true,
		Data:      data,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

func Error(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	var apiErr *APIError
	if code != "" || message != "" {
		apiErr = &APIError{Code: code, Message: message, Details: details}
	}
	write(w, status, Envelope{
		Success:   false,
		Error:     apiErr,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encoding a fully value-typed envelope cannot fail; ignore the error.
	_ = json.NewEncoder(w).Encode(env)
}
