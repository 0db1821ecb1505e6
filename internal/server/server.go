package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reelsync/internal/logging"
	"reelsync/internal/services"
)

const requestIDHeader = "X-Request-ID"

// PathSource returns the file path recorded on a catalog page.
type PathSource interface {
	NASPath(ctx context.Context, pageID string) (string, error)
}

// Server is the file-open HTTP service.
type Server struct {
	bind     string
	source   PathSource
	open     Opener
	lockPath string
	logger   *slog.Logger
	router   chi.Router
}

// Option customizes a Server.
type Option func(*Server)

// WithOpener replaces the system opener.
func WithOpener(open Opener) Option {
	return func(s *Server) {
		if open != nil {
			s.open = open
		}
	}
}

// WithLockPath guards Run with an exclusive flock on path.
func WithLockPath(path string) Option {
	return func(s *Server) { s.lockPath = path }
}

// New builds a Server bound to bind.
func New(bind string, source PathSource, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		bind:   strings.TrimSpace(bind),
		source: source,
		open:   SystemOpener,
		logger: logging.NewComponentLogger(logger, "server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/health", s.handleHealth)
	r.Get("/open", s.handleOpen)
	r.Get("/play/{movieID}", s.handlePlay)
	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.lockPath != "" {
		lock := flock.New(s.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire server lock: %w", err)
		}
		if !ok {
			return fmt.Errorf("another reelsync server holds %s", s.lockPath)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logging.WarnWithContext(s.logger, "failed to release server lock", "server_lock_release_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "stale lock file left behind"),
				)
			}
		}()
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("server listen: %w", err)
	}
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()
	s.logger.Info("file server listening", logging.String("address", listener.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("file server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	movieID := strings.TrimSpace(r.URL.Query().Get("movie_id"))
	if movieID == "" {
		writeError(w, http.StatusBadRequest, "movie_id is required")
		return
	}
	s.openMovie(w, r, movieID)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	s.openMovie(w, r, chi.URLParam(r, "movieID"))
}

func (s *Server) openMovie(w http.ResponseWriter, r *http.Request, movieID string) {
	ctx := services.WithPageID(r.Context(), movieID)
	logger := logging.WithContext(ctx, s.logger)

	path, err := s.source.NASPath(ctx, movieID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "no NAS path recorded for this movie")
		return
	case err != nil:
		logging.WarnWithContext(logger, "nas path lookup failed", "server_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.String(logging.FieldImpact, "file not opened"),
		)
		writeError(w, http.StatusBadGateway, "catalog lookup failed")
		return
	}

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "file not found on NAS: "+path)
		return
	}

	if err := s.open(ctx, path); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrUnsupported) {
			status = http.StatusNotImplemented
		}
		logging.ErrorWithContext(logger, "open file failed", "server_open_failed",
			logging.String("path", path),
			logging.Error(err),
		)
		writeError(w, status, err.Error())
		return
	}
	logger.Info("file opened", logging.String("path", path))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "path": path})
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.WithContext(r.Context(), s.logger).Debug("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
