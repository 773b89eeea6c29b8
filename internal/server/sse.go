package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/hyprwatch/hyprwatch/internal/dispatch"
)

// sseWriter wraps http.ResponseWriter for SSE framing.
type sseWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	rc := http.NewResponseController(w)
	if _, ok := w.(http.Flusher); !ok {
		return nil, fmt.Errorf("streaming not supported by this connection")
	}
	return &sseWriter{w: w, rc: rc}, nil
}

// writeEvent writes one SSE frame: id, event name, data payload.
func (s *sseWriter) writeEvent(id, event string, data []byte) error {
	if _, err := fmt.Fprintf(s.w, "id: %s\nevent: %s\ndata: %s\n\n", id, event, data); err != nil {
		return err
	}
	return s.rc.Flush()
}

// writeComment writes an SSE comment line, used for heartbeats.
func (s *sseWriter) writeComment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	return s.rc.Flush()
}

// events streams every dispatched compositor event to the client until
// it disconnects or the event source closes.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable proxy buffering

	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)

	msgs, err := s.source.Tap(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("subscribe event tap")
		return
	}

	if err := sse.writeComment("connected"); err != nil {
		return
	}

	ticker := time.NewTicker(s.config.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				// Listener finished; the stream is over.
				return
			}
			kind := msg.Metadata.Get(dispatch.MetadataType)
			err := sse.writeEvent(ulid.Make().String(), kind, msg.Payload)
			msg.Ack()
			if err != nil {
				return
			}
		case <-ticker.C:
			if err := sse.writeComment("heartbeat"); err != nil {
				return
			}
		}
	}
}
