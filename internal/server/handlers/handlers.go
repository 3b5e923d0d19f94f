// Package handlers implements the HTTP endpoints over the job, mark,
// query, and lexicon stores.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
	"github.com/Wangkaiwei233/word-fetcher/internal/server/middleware"
	"github.com/Wangkaiwei233/word-fetcher/pkg/jobs"
	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
)

// Handlers bundles the collaborators used by the endpoint methods.
type Handlers struct {
	Store   *jobs.Store
	Runner  *jobs.Runner
	Marks   *jobs.MarkStore
	Query   *jobs.Query
	Lexicon *lexicon.Store
	Logger  *zap.Logger

	// UploadMaxBytes caps the accepted upload body size.
	UploadMaxBytes int64

	// Version is reported by the version endpoint.
	Version string
}

func (h *Handlers) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.WriteError(w, middleware.GetRequestID(r.Context()), err)
}
