package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersWrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NotFound("job %s", "abc"), ErrNotFound},
		{"invalid argument", InvalidArgument("noun required"), ErrInvalidArgument},
		{"external tool", ExternalTool("soffice exited %d", 1), ErrExternalTool},
		{"unsupported input", UnsupportedInput("unsupported file type"), ErrUnsupportedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
		})
	}

	assert.Equal(t, "job abc: not found", NotFound("job %s", "abc").Error())
}

func TestCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", Code(NotFound("x")))
	assert.Equal(t, "INVALID_ARGUMENT", Code(InvalidArgument("x")))
	assert.Equal(t, "UNSUPPORTED_INPUT", Code(UnsupportedInput("x")))
	assert.Equal(t, "EXTERNAL_TOOL", Code(ExternalTool("x")))
	assert.Equal(t, "INTERNAL_ERROR", Code(errors.New("anything else")))

	// Classification survives further wrapping.
	assert.Equal(t, "NOT_FOUND", Code(fmt.Errorf("outer: %w", NotFound("x"))))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(NotFound("x")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(InvalidArgument("x")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(UnsupportedInput("x")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(ExternalTool("x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, "req-123", NotFound("job abc"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	assert.Equal(t, "job abc: not found", envelope.Error.Message)
	assert.Equal(t, "req-123", envelope.Error.RequestID)
}

func TestWriteErrorCode_OmitsEmptyRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorCode(rec, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.NotContains(t, rec.Body.String(), "request_id")
}
