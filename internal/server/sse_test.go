package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprwatch/hyprwatch/internal/dispatch"
	"github.com/hyprwatch/hyprwatch/pkg/types"
)

// stubSource feeds a fixed set of messages to one Tap subscriber, then
// closes the stream.
type stubSource struct {
	msgs []*message.Message
}

func (s *stubSource) Tap(ctx context.Context) (<-chan *message.Message, error) {
	ch := make(chan *message.Message, len(s.msgs))
	for _, m := range s.msgs {
		ch <- m
	}
	close(ch)
	return ch, nil
}

func eventMessage(t *testing.T, ev types.Event) *message.Message {
	t.Helper()
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(dispatch.MetadataType, string(ev.Type))
	return msg
}

func TestHealthz(t *testing.T) {
	srv := New(Config{Heartbeat: time.Second}, &stubSource{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestEventsStreamsSSEFrames(t *testing.T) {
	source := &stubSource{msgs: []*message.Message{
		eventMessage(t, types.Event{Type: types.WorkspaceChanged, Data: 2}),
		eventMessage(t, types.Event{Type: types.MonitorAdded, Data: "DP-1"}),
	}}
	srv := New(Config{Heartbeat: time.Minute}, source)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The stub closes its channel after two events, which ends the
	// response body; everything can be read to EOF.
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, ": connected")
	assert.Contains(t, body, "event: "+string(types.WorkspaceChanged))
	assert.Contains(t, body, "event: "+string(types.MonitorAdded))
	assert.Contains(t, body, `"data":"DP-1"`)

	// Every frame carries a non-empty id line.
	scanner := bufio.NewScanner(strings.NewReader(body))
	ids := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "id: ") {
			assert.Greater(t, len(line), len("id: "))
			ids++
		}
	}
	assert.Equal(t, 2, ids)
}

func TestEventsEndsWhenSourceCloses(t *testing.T) {
	srv := New(Config{Heartbeat: time.Minute}, &stubSource{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(ts.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	_, err = io.ReadAll(resp.Body)
	assert.NoError(t, err, "stream must terminate once the event source is done")
}
