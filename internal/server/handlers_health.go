package server

import (
	"github.com/labstack/echo/v4"

	"github.com/merijjeyn/logan/internal/version"
)

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := s.clock.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

// handleReadiness reports whether the broadcaster actor is answering
// commands. A negative subscriber count means the command timed out.
func (s *Server) handleReadiness(c echo.Context) error {
	if s.broadcaster.Subscribers() < 0 {
		return c.JSON(503, map[string]any{
			"status":       "unhealthy",
			"failed_check": "broadcaster",
		})
	}
	return c.JSON(200, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}
