package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tweetsched/tweetsched/internal/tweet"
)

// JSONResponse is the standard JSON response envelope.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeData renders a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, JSONResponse{Data: data})
}

// writeError maps domain errors onto the HTTP taxonomy: validation
// failures are 400, unknown or unowned ids are 404, deleting a tweet
// that left pending is 409, anything else is a 500 with no partial
// state cleanup attempted.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	msg := ""

	switch {
	case errors.Is(err, tweet.ErrEmptyText),
		errors.Is(err, tweet.ErrTextTooLong),
		errors.Is(err, tweet.ErrZeroScheduleTime):
		status = http.StatusBadRequest
		code = "validation_error"
		msg = err.Error()
	case errors.Is(err, tweet.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		msg = err.Error()
	case errors.Is(err, tweet.ErrNotPending):
		status = http.StatusConflict
		code = "conflict"
		msg = err.Error()
	}

	writeJSON(w, status, JSONResponse{Error: &ErrorDetail{Code: code, Message: msg}})
}

// writeValidationError renders a transport-level validation failure.
func writeValidationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, JSONResponse{Error: &ErrorDetail{
		Code:    "validation_error",
		Message: msg,
	}})
}
