package server

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/merijjeyn/logan/internal/broadcast"
	"github.com/merijjeyn/logan/internal/config"
)

// testServer spins the HTTP surface up on an httptest listener. The
// heartbeat timeout is short-circuited per test; everything else uses
// config defaults.
func testServer(t *testing.T, heartbeat time.Duration, historySize int) (*Server, *httptest.Server) {
	t.Helper()

	cfg := &config.Config{
		Host:             "127.0.0.1",
		Port:             5000,
		PortAttempts:     1,
		LogLevel:         "info",
		LogFormat:        "text",
		HeartbeatTimeout: heartbeat,
		HistorySize:      historySize,
	}

	broadcaster := broadcast.New(clockwork.NewRealClock(), cfg.HistorySize)
	t.Cleanup(broadcaster.Stop)

	srv := NewServer(cfg, broadcaster, clockwork.NewRealClock(), 0)
	ts := httptest.NewServer(srv.echo)
	t.Cleanup(ts.Close)

	return srv, ts
}

func waitForSubscribers(t *testing.T, srv *Server, expected int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return srv.broadcaster.Subscribers() == expected
	}, time.Second, time.Millisecond)
}

// sseClient consumes one event-stream connection, forwarding each
// data frame's payload on a channel.
type sseClient struct {
	resp   *http.Response
	frames chan string
}

func dialStream(t *testing.T, baseURL string) *sseClient {
	t.Helper()

	resp, err := http.Get(baseURL + "/api/logs/stream")
	require.NoError(t, err)

	client := &sseClient{
		resp:   resp,
		frames: make(chan string, 64),
	}
	t.Cleanup(client.close)

	go func() {
		defer close(client.frames)
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if payload, ok := strings.CutPrefix(strings.TrimSpace(line), "data: "); ok {
				client.frames <- payload
			}
		}
	}()

	return client
}

func (c *sseClient) close() {
	_ = c.resp.Body.Close()
}

// next returns the next frame payload, failing the test on timeout.
func (c *sseClient) next(t *testing.T, timeout time.Duration) string {
	t.Helper()
	select {
	case payload, ok := <-c.frames:
		require.True(t, ok, "stream closed before a frame arrived")
		return payload
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a stream frame")
		return ""
	}
}

// expectNone asserts no frame arrives within d.
func (c *sseClient) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case payload, ok := <-c.frames:
		if ok {
			t.Fatalf("unexpected frame: %s", payload)
		}
	case <-time.After(d):
	}
}
