package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/sftpbridge/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP server behind NewRouter.
type Server struct {
	server       *http.Server
	config       Config
	ln           net.Listener
	done         chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a stopped server. Call Start to serve.
func NewServer(config Config, handler http.Handler) *Server {
	config.applyDefaults()

	return &Server{
		server: &http.Server{
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		config: config,
		done:   make(chan struct{}),
	}
}

// Start binds the port and serves in the background until ctx is done or
// Stop is called. Bind errors are returned directly.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("HTTP listener: %w", err)
	}
	s.ln = ln

	logger.Info("HTTP server listening", "port", s.Port())
	logger.Debug("HTTP endpoints available",
		"health", fmt.Sprintf("http://localhost:%d/health", s.Port()),
		"metrics", fmt.Sprintf("http://localhost:%d/metrics", s.Port()),
	)

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", logger.Err(err))
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.Stop(shutdownCtx)
	}()
	return nil
}

// Stop shuts the server down gracefully. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.done)
		logger.Debug("HTTP server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("HTTP server shutdown error: %w", err)
			logger.Error("HTTP server shutdown error", logger.Err(err))
		} else {
			logger.Info("HTTP server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the bound port, or the configured one before Start.
func (s *Server) Port() int {
	if s.ln != nil {
		return s.ln.Addr().(*net.TCPAddr).Port
	}
	return s.config.Port
}
