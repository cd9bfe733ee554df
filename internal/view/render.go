// internal/view/render.go
//
// JSON response writers shared by every component.
//
// Public helpers
// --------------
//   - JSON    – encode v with the given status.
//   - Error   – `{"error": msg}`.
//   - Invalid – 400 `{"error": "Validation failed", "details": [...]}`.
//   - Fail    – log err with request context and send a generic 500.
//
// Handlers never write raw errors to the client; anything unexpected goes
// through Fail so the message stays "Internal server error".

package view

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Canonical client-facing messages.
const (
	MsgBadBody    = "Invalid request body"
	MsgValidation = "Validation failed"
	MsgInternal   = "Internal server error"
	MsgNotFound   = "Not found"
)

// FieldError is one entry of a validation failure payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// JSON writes v as the response body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("response encode failed", "err", err)
	}
}

// Error writes `{"error": msg}`.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// Invalid writes the 400 validation payload.
func Invalid(w http.ResponseWriter, details []FieldError) {
	JSON(w, http.StatusBadRequest, errorBody{Error: MsgValidation, Details: details})
}

// Fail logs err and answers 500 without leaking it.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	zap.S().Errorw("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	Error(w, http.StatusInternalServerError, MsgInternal)
}
