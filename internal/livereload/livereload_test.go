package livereload

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, url string) (*bufio.Reader, func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body), func() {
		cancel()
		_ = resp.Body.Close()
	}
}

func readUntil(r *bufio.Reader, needle string) bool {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return false
		}
		if strings.Contains(line, needle) {
			return true
		}
	}
}

func TestInitialConnectReceivesLastHash(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()
	hub.Broadcast("abc123")

	server := httptest.NewServer(hub)
	defer server.Close()

	reader, done := connect(t, server.URL)
	defer done()
	assert.True(t, readUntil(reader, `data: {"hash":"abc123"}`))
}

func TestBroadcastSendsEvent(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()
	server := httptest.NewServer(hub)
	defer server.Close()

	reader, done := connect(t, server.URL)
	defer done()
	require.True(t, readUntil(reader, ": connected"))
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast("newhash")
	assert.True(t, readUntil(reader, `"hash":"newhash"`))
}

func TestHeartbeat(t *testing.T) {
	hub := NewHub(WithHeartbeat(20 * time.Millisecond))
	defer hub.Shutdown()
	server := httptest.NewServer(hub)
	defer server.Close()

	reader, done := connect(t, server.URL)
	defer done()
	assert.True(t, readUntil(reader, ": ping"))
}

func TestBroadcastIgnoresEmptyAndRepeatedHashes(t *testing.T) {
	hub := NewHub()
	hub.Broadcast("")
	assert.Empty(t, hub.lastHash)
	hub.Broadcast("a")
	hub.Broadcast("a")
	assert.Equal(t, "a", hub.lastHash)
}

func TestShutdownClosesClientsAndRejectsNew(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub)
	defer server.Close()

	reader, done := connect(t, server.URL)
	defer done()
	require.True(t, readUntil(reader, ": connected"))

	hub.Shutdown()
	assert.False(t, readUntil(reader, "never"), "stream ends after shutdown")
	assert.Equal(t, 0, hub.Clients())

	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livereload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	hub.Shutdown()
}
