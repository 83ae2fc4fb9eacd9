package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/merijjeyn/logan/event"
	apperrors "github.com/merijjeyn/logan/internal/errors"
	"github.com/merijjeyn/logan/internal/metrics"
)

// handleIngest accepts one serialized log event per call. Accepted events
// are handed to the broadcaster, which records them in the history ring
// and fans them out inside the same actor turn. Ingestion succeeds once
// the event is accepted; consumer delivery failures never reach the
// producer.
func (s *Server) handleIngest(c echo.Context) error {
	var ev event.Event
	if err := c.Bind(&ev); err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("malformed").Inc()
		return apperrors.ValidationError("malformed log event body").WithField("cause", err.Error())
	}

	ev.Normalize()
	if err := ev.Validate(); err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("invalid").Inc()
		return apperrors.ValidationError(err.Error())
	}

	s.broadcaster.Publish(ev)
	metrics.IngestAcceptedTotal.Inc()

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// handleHistory returns a snapshot of recently ingested events. History is
// for introspection only; it is never replayed onto live streams.
func (s *Server) handleHistory(c echo.Context) error {
	events := s.broadcaster.History()
	if events == nil {
		events = []event.Event{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":  len(events),
		"events": events,
	})
}
