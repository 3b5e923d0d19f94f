package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

// ErrorResponse aliases the shared envelope so middleware tests can decode
// responses without importing apperrors directly.
type ErrorResponse = apperrors.HTTPErrorResponse

// Recovery converts handler panics into a 500 JSON envelope. The process
// never crashes on a request path.
func Recovery(logger *zap.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				requestID := GetRequestID(r.Context())
				logger.Error("panic in handler",
					zap.String("path", r.URL.Path),
					zap.String("request_id", requestID),
					zap.Any("panic", rec))
				apperrors.WriteErrorCode(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", fmt.Sprintf("panic: %v", rec), requestID)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
