// Package httpapi is the HTTP transport for the auth service. It maps
// request bodies to service calls and wraps every response in the
// platform's uniform envelope.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kids-learning/auth-service/internal/common"
)

// Envelope is the uniform response wrapper shared by all platform services:
// {success, data?, message?, timestamp}.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newEnvelope(success bool, data any, message string) Envelope {
	return Envelope{
		Success:   success,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, newEnvelope(true, data, message))
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, newEnvelope(false, nil, message))
}

// statusForError maps the service error taxonomy to HTTP statuses and
// client-facing messages. Anything unrecognized is an internal failure
// and must not leak details.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, "account with this email already exists"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "insufficient permissions"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "invalid or expired token"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
