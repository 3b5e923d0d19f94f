package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPError is the error object inside the JSON envelope.
type HTTPError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HTTPErrorResponse is the stable JSON error envelope for all endpoints.
type HTTPErrorResponse struct {
	Error HTTPError `json:"error"`
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrUnsupportedInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrExternalTool):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes the JSON envelope for err with the mapped status code.
func WriteError(w http.ResponseWriter, requestID string, err error) {
	WriteErrorCode(w, StatusFor(err), Code(err), err.Error(), requestID)
}

// WriteErrorCode writes the JSON envelope with an explicit status and code.
func WriteErrorCode(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{Error: HTTPError{
		Code:      code,
		Message:   message,
		RequestID: requestID,
	}})
}
