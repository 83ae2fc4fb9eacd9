package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/merijjeyn/logan/internal/broadcast"
	"github.com/merijjeyn/logan/internal/config"
	apperrors "github.com/merijjeyn/logan/internal/errors"
)

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	broadcaster *broadcast.Broadcaster
	clock       clockwork.Clock
	port        int
	startTime   time.Time
}

// NewServer wires the HTTP surface around an already-running broadcaster.
// port must be a port the caller has verified to be free.
func NewServer(cfg *config.Config, broadcaster *broadcast.Broadcaster, clock clockwork.Clock, port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request logging stays debug-only: the viewer's own output is the
	// log surface, and access lines for every ingested event drown it.
	if cfg.LogLevel == "debug" {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		broadcaster: broadcaster,
		clock:       clock,
		port:        port,
		startTime:   clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Host, s.port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// URL returns the base URL clients should talk to.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.port)
}

// Port returns the port the server was bound to.
func (s *Server) Port() int {
	return s.port
}
