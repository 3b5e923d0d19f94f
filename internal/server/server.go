// Package server wires the chi router, middleware chain, and endpoint
// handlers into an HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
	"github.com/Wangkaiwei233/word-fetcher/internal/config"
	"github.com/Wangkaiwei233/word-fetcher/internal/server/handlers"
	"github.com/Wangkaiwei233/word-fetcher/internal/server/middleware"
)

// Server hosts the HTTP API.
type Server struct {
	cfg     config.ServerConfig
	logger  *zap.Logger
	handler http.Handler
}

// New builds the router over the given handlers.
func New(cfg config.ServerConfig, upload config.UploadConfig, h *handlers.Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	var uploadLimiter *rate.Limiter
	if upload.RatePerSecond > 0 {
		burst := upload.RateBurst
		if burst <= 0 {
			burst = 1
		}
		uploadLimiter = rate.NewLimiter(rate.Limit(upload.RatePerSecond), burst)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(func(next http.Handler) http.Handler { return middleware.Recovery(logger, next) })
	r.Use(func(next http.Handler) http.Handler { return middleware.RequestLogger(logger, next) })

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		apperrors.WriteErrorCode(w, http.StatusNotFound, "NOT_FOUND",
			"route not found", middleware.GetRequestID(req.Context()))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		apperrors.WriteErrorCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"method not allowed", middleware.GetRequestID(req.Context()))
	})

	r.Get("/health", h.Health)
	r.Get("/version", h.VersionInfo)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/upload",
			middleware.RateLimit(uploadLimiter, http.HandlerFunc(h.Upload)))

		r.Route("/jobs/{jobID}", func(r chi.Router) {
			r.Get("/status", h.JobStatus)
			r.Get("/nouns", h.JobNouns)
			r.Get("/nouns/{noun}/occurrences", h.NounOccurrences)
			r.Get("/marks", h.ListMarks)
			r.Post("/marks", h.AddMark)
			r.Post("/marks/toggle", h.ToggleMark)
		})

		r.Route("/dict", func(r chi.Router) {
			r.Get("/", h.DownloadDict)
			r.Post("/", h.UploadDict)
			r.Get("/words", h.DictWords)
			r.Post("/add", h.AddDictWord)
			r.Delete("/words", h.RemoveDictWord)
		})
	})

	return &Server{cfg: cfg, logger: logger, handler: r}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

// Port returns the configured listen port.
func (s *Server) Port() int { return s.cfg.Port }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownTimeout := s.cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
