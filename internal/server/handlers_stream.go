package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/merijjeyn/logan/internal/broadcast"
	"github.com/merijjeyn/logan/internal/metrics"
)

// heartbeatPayload is the distinguished keep-alive frame sent when no
// event arrives within the heartbeat window.
var heartbeatPayload = []byte(`{"type":"heartbeat"}`)

// handleStream serves one long-lived Server-Sent-Events connection. The
// session registers a subscriber on open and unconditionally unregisters
// it on every exit path: normal end, write failure, client disconnect,
// or server shutdown.
func (s *Server) handleStream(c echo.Context) error {
	sub := s.broadcaster.Register()
	defer s.broadcaster.Unregister(sub)

	metrics.StreamSessionsActive.Inc()
	defer metrics.StreamSessionsActive.Dec()

	opened := s.clock.Now()
	defer func() {
		metrics.StreamSessionDuration.Observe(s.clock.Since(opened).Seconds())
	}()

	resp := c.Response()
	header := resp.Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set(echo.HeaderAccessControlAllowOrigin, "*")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	slog.Debug("Stream session opened", "subscriber_id", sub.ID().String())
	defer slog.Debug("Stream session closed", "subscriber_id", sub.ID().String())

	ctx := c.Request().Context()

	for {
		ev, err := sub.Next(ctx, s.config.HeartbeatTimeout)
		switch {
		case err == nil:
			data, marshalErr := json.Marshal(ev)
			if marshalErr != nil {
				slog.Error("Failed to marshal stream event", "error", marshalErr)
				continue
			}
			if writeErr := writeFrame(resp, data); writeErr != nil {
				return nil
			}
			metrics.StreamEventsSentTotal.Inc()

		case errors.Is(err, broadcast.ErrTimeout):
			// Keep intermediaries from closing the idle connection.
			if writeErr := writeFrame(resp, heartbeatPayload); writeErr != nil {
				return nil
			}
			metrics.StreamHeartbeatsTotal.Inc()

		case errors.Is(err, broadcast.ErrClosed):
			// Server shutdown tore the subscriber down underneath us.
			return nil

		default:
			// Request context cancelled: the client went away.
			return nil
		}
	}
}

// writeFrame emits one SSE frame and flushes it to the client.
func writeFrame(resp *echo.Response, payload []byte) error {
	if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
		return err
	}
	resp.Flush()
	return nil
}
