package logan

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/merijjeyn/logan/event"
)

// SlogHandler bridges the standard log/slog framework into a Viewer, so
// existing slog call sites stream into the viewer page without changes.
//
//	v, _ := logan.Init()
//	slog.SetDefault(slog.New(logan.NewSlogHandler(v, slog.LevelInfo)))
type SlogHandler struct {
	viewer *Viewer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewSlogHandler returns a handler forwarding records at or above level
// to v. The viewer may be nil; records then render to the console.
func NewSlogHandler(v *Viewer, level slog.Leveler) *SlogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &SlogHandler{viewer: v, level: level}
}

func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *SlogHandler) Handle(_ context.Context, rec slog.Record) error {
	namespace := event.DefaultNamespace
	var cause error
	var extras []string

	collect := func(a slog.Attr) bool {
		switch {
		case a.Key == "namespace":
			namespace = a.Value.String()
		case a.Key == "error" || a.Key == "err":
			if err, ok := a.Value.Any().(error); ok {
				cause = err
				return true
			}
			extras = append(extras, a.Key+"="+a.Value.String())
		default:
			extras = append(extras, a.Key+"="+a.Value.String())
		}
		return true
	}

	for _, a := range h.attrs {
		collect(a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		a.Key = h.prefix + a.Key
		return collect(a)
	})

	message := rec.Message
	if len(extras) > 0 {
		message += " (" + strings.Join(extras, " ") + ")"
	}

	ev := event.Event{
		Timestamp: rec.Time.Truncate(time.Millisecond),
		Severity:  severityFromLevel(rec.Level),
		Message:   message,
		Namespace: namespace,
		Callstack: event.Capture(0),
		Exception: event.NewExceptionInfo(cause),
	}
	ev.Normalize()

	h.viewer.emit(ev)
	return nil
}

// WithAttrs applies the current group prefix when the attrs are added,
// so attrs bound before a WithGroup stay unprefixed.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func severityFromLevel(level slog.Level) event.Severity {
	switch {
	case level >= slog.LevelError:
		return event.SeverityError
	case level >= slog.LevelWarn:
		return event.SeverityWarning
	case level >= slog.LevelInfo:
		return event.SeverityInfo
	default:
		return event.SeverityDebug
	}
}
