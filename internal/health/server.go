// Package health serves the HTTP liveness endpoint.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/villani/menubot/internal/config"
	"github.com/villani/menubot/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server answers GET / with a static status string. No other routes exist.
type Server struct {
	log    *slog.Logger
	addr   string
	status string
	echo   *echo.Echo
}

func NewServer(cfg config.HTTPConfig, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = 10 * time.Second

	s := &Server{
		log:    log.With("component", "http"),
		addr:   net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		status: cfg.Status,
		echo:   e,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.DebugContext(c.Request().Context(), "HTTP request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.Match([]string{http.MethodGet, http.MethodHead}, "/", s.index)
}

func (s *Server) index(c echo.Context) error {
	return c.String(http.StatusOK, s.status)
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.echo.Listener = ln

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start("")
	}()
	s.log.Info("HTTP server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	<-errCh
	s.log.Info("HTTP server stopped")
	return nil
}
