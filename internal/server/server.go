// Package server exposes the comparison workflow over HTTP: upload capture
// logs, read chart and summary views, edit names and download the export.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mwiater/perfview/internal/appconfig"
	"github.com/mwiater/perfview/internal/logging"
	"github.com/mwiater/perfview/internal/session"
)

const shutdownTimeout = 5 * time.Second

// Server serves the web UI and its JSON API.
type Server struct {
	config appconfig.Config
	store  *session.Store
}

// New returns a server over store.
func New(config appconfig.Config, store *session.Store) *Server {
	return &Server{config: config, store: store}
}

// HTTPServer wraps the routes in an http.Server bound to the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.ListenAddr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute,
	}
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := s.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("perfview listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to serve on %s: %w", srv.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logging.LogEvent("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("unable to shut down: %w", err)
		}
		return nil
	}
}
