package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Ingestion and streaming
	s.echo.POST("/api/log", s.handleIngest)
	s.echo.GET("/api/logs/stream", s.handleStream)
	s.echo.GET("/api/logs/history", s.handleHistory)

	// Viewer page and assets
	s.echo.FileFS("/", "web_ui/index.html", webUI)
	s.echo.StaticFS("/web_ui", echo.MustSubFS(webUI, "web_ui"))
}
