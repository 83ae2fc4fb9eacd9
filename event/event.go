// Package event defines the log event model shared by the logan client
// library and the embedded viewer server.
package event

import (
	"errors"
	"fmt"
	"time"
)

// Severity classifies a log event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityDebug   Severity = "debug"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityDebug:
		return true
	}
	return false
}

// DefaultNamespace is used when a caller does not name one.
const DefaultNamespace = "global"

// Frame is one entry of a captured callstack, innermost caller first.
type Frame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// ExceptionInfo carries the message and formatted trace of an error
// attached to an event.
type ExceptionInfo struct {
	Message   string   `json:"message"`
	Traceback []string `json:"traceback"`
}

// Event is one structured log record. Events are immutable after
// construction; the server and all subscribers treat them read-only.
//
// The wire key for Severity is "type" to stay compatible with the
// viewer page and any existing event-stream consumers.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Severity  Severity       `json:"type"`
	Message   string         `json:"message"`
	Namespace string         `json:"namespace"`
	Callstack []Frame        `json:"callstack"`
	Exception *ExceptionInfo `json:"exception,omitempty"`
}

// New builds an event with the callstack captured at the caller's site.
// skip counts additional stack frames to drop on top of New itself.
func New(message string, severity Severity, namespace string, cause error, skip int) Event {
	ev := Event{
		Timestamp: time.Now().Truncate(time.Millisecond),
		Severity:  severity,
		Message:   message,
		Namespace: namespace,
		Callstack: Capture(skip + 1),
	}
	if cause != nil {
		ev.Exception = NewExceptionInfo(cause)
	}
	ev.Normalize()
	return ev
}

// Normalize fills defaulted fields in place. It does not touch fields
// that would make the event invalid; that is Validate's job.
func (e *Event) Normalize() {
	if e.Namespace == "" {
		e.Namespace = DefaultNamespace
	}
	if e.Severity == "" {
		e.Severity = SeverityInfo
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().Truncate(time.Millisecond)
	}
}

// Validate reports whether the event is acceptable for ingestion.
func (e *Event) Validate() error {
	if e.Message == "" {
		return errors.New("message is required")
	}
	if !e.Severity.Valid() {
		return fmt.Errorf("unknown severity %q", e.Severity)
	}
	return nil
}

// NewExceptionInfo formats an error into an ExceptionInfo. The traceback
// holds one line per wrapping layer, outermost first, mirroring how a
// formatted exception trace reads.
func NewExceptionInfo(cause error) *ExceptionInfo {
	if cause == nil {
		return nil
	}
	info := &ExceptionInfo{Message: cause.Error()}
	for err := cause; err != nil; err = errors.Unwrap(err) {
		info.Traceback = append(info.Traceback, err.Error())
	}
	return info
}
