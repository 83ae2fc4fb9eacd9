package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestIngest_AcceptsValidEvent(t *testing.T) {
	srv, ts := testServer(t, 30*time.Second, 100)

	resp := postJSON(t, ts.URL+"/api/log", `{
		"timestamp": "2026-08-28T10:15:00.123Z",
		"type": "error",
		"message": "boom",
		"namespace": "svc",
		"callstack": [{"file": "main.go", "line": 42, "function": "main.main"}]
	}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	require.Eventually(t, func() bool {
		return len(srv.broadcaster.History()) == 1
	}, time.Second, time.Millisecond)

	got := srv.broadcaster.History()[0]
	assert.Equal(t, "boom", got.Message)
	assert.Equal(t, "svc", got.Namespace)
}

func TestIngest_DefaultsNamespaceAndSeverity(t *testing.T) {
	srv, ts := testServer(t, 30*time.Second, 100)

	resp := postJSON(t, ts.URL+"/api/log", `{"message": "hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Eventually(t, func() bool {
		return len(srv.broadcaster.History()) == 1
	}, time.Second, time.Millisecond)

	got := srv.broadcaster.History()[0]
	assert.Equal(t, "global", got.Namespace)
	assert.Equal(t, "info", string(got.Severity))
	assert.False(t, got.Timestamp.IsZero())
}

func TestIngest_RejectsMissingMessage(t *testing.T) {
	srv, ts := testServer(t, 30*time.Second, 100)

	// A connected subscriber must see nothing from a rejected event.
	stream := dialStream(t, ts.URL)
	waitForSubscribers(t, srv, 1)

	resp := postJSON(t, ts.URL+"/api/log", `{"type": "info", "namespace": "svc"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "validation", body["type"])

	assert.Empty(t, srv.broadcaster.History())
	stream.expectNone(t, 100*time.Millisecond)
}

func TestIngest_RejectsMalformedJSON(t *testing.T) {
	_, ts := testServer(t, 30*time.Second, 100)

	resp := postJSON(t, ts.URL+"/api/log", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIngest_RejectsUnknownSeverity(t *testing.T) {
	_, ts := testServer(t, 30*time.Second, 100)

	resp := postJSON(t, ts.URL+"/api/log", `{"message": "hi", "type": "catastrophic"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistory_ReturnsRecentEvents(t *testing.T) {
	_, ts := testServer(t, 30*time.Second, 100)

	postJSON(t, ts.URL+"/api/log", `{"message": "one"}`)
	postJSON(t, ts.URL+"/api/log", `{"message": "two"}`)

	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/api/logs/history")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var body struct {
			Count  int `json:"count"`
			Events []struct {
				Message string `json:"message"`
			} `json:"events"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return false
		}
		return body.Count == 2 && body.Events[0].Message == "one" && body.Events[1].Message == "two"
	}, time.Second, 5*time.Millisecond)
}

func TestHistory_EmptyWhenDisabled(t *testing.T) {
	_, ts := testServer(t, 30*time.Second, 0)

	resp, err := http.Get(ts.URL + "/api/logs/history")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Count  int   `json:"count"`
		Events []any `json:"events"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Zero(t, body.Count)
	assert.NotNil(t, body.Events)
}
