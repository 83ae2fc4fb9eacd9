package logan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/merijjeyn/logan/event"
	"github.com/merijjeyn/logan/internal/banner"
	"github.com/merijjeyn/logan/internal/broadcast"
	"github.com/merijjeyn/logan/internal/config"
	"github.com/merijjeyn/logan/internal/netport"
	"github.com/merijjeyn/logan/internal/server"
)

// Severity and Event re-export the event model so most callers only
// import this package.
type (
	Severity = event.Severity
	Event    = event.Event
)

const (
	SeverityInfo    = event.SeverityInfo
	SeverityWarning = event.SeverityWarning
	SeverityError   = event.SeverityError
	SeverityDebug   = event.SeverityDebug
)

const (
	transportTimeout = 1 * time.Second
	readyProbeDelay  = 20 * time.Millisecond
	readyProbeCount  = 100
)

// Viewer is the handle to one running viewer instance. It is safe for
// concurrent use. A nil Viewer renders events to the console instead of
// posting them anywhere.
type Viewer struct {
	cfg         *config.Config
	clock       clockwork.Clock
	console     io.Writer
	httpClient  *http.Client
	broadcaster *broadcast.Broadcaster
	server      *server.Server
	baseURL     string
}

// Option customizes Init.
type Option func(*Viewer)

// WithHost overrides the listen host (default 127.0.0.1).
func WithHost(host string) Option {
	return func(v *Viewer) { v.cfg.Host = host }
}

// WithPort overrides the first port probed (default 5000).
func WithPort(port int) Option {
	return func(v *Viewer) { v.cfg.Port = port }
}

// WithHeartbeatTimeout overrides the stream idle window after which a
// heartbeat frame is sent (default 30s).
func WithHeartbeatTimeout(d time.Duration) Option {
	return func(v *Viewer) { v.cfg.HeartbeatTimeout = d }
}

// WithHistorySize overrides how many recent events the server retains
// for introspection (default 1000, 0 disables).
func WithHistorySize(n int) Option {
	return func(v *Viewer) { v.cfg.HistorySize = n }
}

// WithBanner toggles the startup banner.
func WithBanner(enabled bool) Option {
	return func(v *Viewer) { v.cfg.Banner = enabled }
}

// WithClock substitutes the clock, mostly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(v *Viewer) { v.clock = clock }
}

// WithConsole redirects the fallback console rendering and the banner.
func WithConsole(w io.Writer) Option {
	return func(v *Viewer) { v.console = w }
}

// Init starts the embedded viewer server on a free port and returns the
// handle for it. Configuration comes from the environment (LOGAN_*
// variables), then options. Init fails if no port in the probe budget is
// free or the server does not come up.
func Init(opts ...Option) (*Viewer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("logan: invalid configuration: %w", err)
	}

	v := &Viewer{
		cfg:        cfg,
		clock:      clockwork.NewRealClock(),
		console:    consoleOut,
		httpClient: &http.Client{Timeout: transportTimeout},
	}
	for _, opt := range opts {
		opt(v)
	}
	// Options bypass Load's checks, so the bounds run again.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("logan: invalid configuration: %w", err)
	}

	port, err := netport.Acquire(cfg.Host, cfg.Port, cfg.PortAttempts)
	if err != nil {
		return nil, fmt.Errorf("logan: %w", err)
	}

	v.broadcaster = broadcast.New(v.clock, cfg.HistorySize)
	v.server = server.NewServer(cfg, v.broadcaster, v.clock, port)
	v.baseURL = v.server.URL()

	go func() {
		if err := v.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Logan server error", "error", err)
		}
	}()

	if err := v.waitReady(); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		v.broadcaster.Stop()
		_ = v.server.Shutdown(shutdownCtx)
		return nil, fmt.Errorf("logan: server did not become ready: %w", err)
	}

	if cfg.Banner {
		banner.Print(v.console, v.baseURL)
	}

	return v, nil
}

// waitReady polls the liveness endpoint until the server answers.
func (v *Viewer) waitReady() error {
	var lastErr error
	for range readyProbeCount {
		resp, err := v.httpClient.Get(v.baseURL + "/health/live")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			lastErr = fmt.Errorf("liveness returned status %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		v.clock.Sleep(readyProbeDelay)
	}
	return lastErr
}

// URL returns the address of the viewer page, or "" on a nil Viewer.
func (v *Viewer) URL() string {
	if v == nil {
		return ""
	}
	return v.baseURL
}

// Close tears down all open stream sessions and shuts the embedded
// server down, leaving the subscriber set empty. The broadcaster stops
// first: stream handlers block on their subscriber, so closing the
// subscribers is what lets Shutdown's drain of in-flight requests
// complete.
func (v *Viewer) Close(ctx context.Context) error {
	if v == nil || v.server == nil {
		return nil
	}
	v.broadcaster.Stop()
	if err := v.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("logan: server shutdown: %w", err)
	}
	return nil
}

// Log captures one event at the caller's site and delivers it to the
// viewer. cause may be nil; a non-nil cause attaches exception context.
// On a nil or uninitialized Viewer the event renders to the console.
func (v *Viewer) Log(message string, severity Severity, namespace string, cause error) {
	v.emit(event.New(message, severity, namespace, cause, 1))
}

// Info logs an info-severity message in the default namespace.
func (v *Viewer) Info(message string) {
	v.emit(event.New(message, SeverityInfo, event.DefaultNamespace, nil, 1))
}

// Debug logs a debug-severity message in the default namespace.
func (v *Viewer) Debug(message string) {
	v.emit(event.New(message, SeverityDebug, event.DefaultNamespace, nil, 1))
}

// Warn logs a warning-severity message in the default namespace.
func (v *Viewer) Warn(message string) {
	v.emit(event.New(message, SeverityWarning, event.DefaultNamespace, nil, 1))
}

// Error logs an error-severity message in the default namespace,
// attaching cause as exception context when non-nil.
func (v *Viewer) Error(message string, cause error) {
	v.emit(event.New(message, SeverityError, event.DefaultNamespace, cause, 1))
}

func (v *Viewer) emit(ev event.Event) {
	if v == nil || v.baseURL == "" {
		renderConsole(v.consoleWriter(), ev)
		return
	}
	v.post(ev)
}

// post delivers one event to the ingest endpoint, fire-and-forget. A
// missing server, connection error, or non-200 response is dropped
// silently; the log path favors availability over guaranteed delivery.
func (v *Viewer) post(ev event.Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		return
	}
	resp, err := v.httpClient.Post(v.baseURL+"/api/log", "application/json", bytes.NewReader(body))
	if err != nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func (v *Viewer) consoleWriter() io.Writer {
	if v == nil || v.console == nil {
		return consoleOut
	}
	return v.console
}
