// Package listener drives the read → reassemble → decode → dispatch
// cycle for one compositor event socket connection.
//
// One Listener owns one connection, one stream buffer, and one handler
// registry; none of that state is shared, so two concurrent listeners
// are simply two independent instances. Handler registration must finish
// before the loop starts. Delivery is synchronous and in arrival order:
// a handler that blocks stalls every later event on that listener.
package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/hyprwatch/hyprwatch/internal/dispatch"
	"github.com/hyprwatch/hyprwatch/internal/stream"
	"github.com/hyprwatch/hyprwatch/internal/transport"
	"github.com/hyprwatch/hyprwatch/internal/wire"
)

// readBufferSize matches the compositor's own write granularity; events
// are tens of bytes, so one read usually drains several of them.
const readBufferSize = 4096

// ErrAlreadyStarted is returned when Listen or Start is called twice on
// the same instance. A Listener runs exactly one connection to
// completion.
var ErrAlreadyStarted = errors.New("listener already started")

// Listener turns the event socket byte stream into ordered handler
// invocations.
type Listener struct {
	dialer   transport.Dialer
	registry *dispatch.Registry
	splitter *stream.Splitter
	started  atomic.Bool
}

// New creates a Listener that connects through dialer. Register handlers
// before calling Listen or Start.
func New(dialer transport.Dialer) *Listener {
	return &Listener{
		dialer:   dialer,
		registry: dispatch.NewRegistry(),
		splitter: &stream.Splitter{},
	}
}

// NewFromEnv resolves the compositor's event socket from the environment
// and returns a Listener connected to it on start.
func NewFromEnv() (*Listener, error) {
	path, err := transport.SocketPath()
	if err != nil {
		return nil, err
	}
	return New(transport.UnixDialer{Path: path}), nil
}

// Listen connects and runs the event loop on the calling goroutine until
// the socket closes or a fatal error occurs. A graceful end-of-stream
// returns nil; any retained partial line at that point is discarded, not
// decoded. Cancelling ctx closes the connection, which unblocks the
// pending read and ends the loop with ctx's error.
//
// Terminal errors are surfaced exactly once, unwrapped down to their
// cause: transport read failures, *wire.DecodeError for protocol
// corruption (never skipped), and *dispatch.HandlerError when a handler
// fails. Reconnect policy belongs to the caller.
func (l *Listener) Listen(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer l.registry.Close()

	conn, err := l.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Closing the connection is the only cancellation point: it
	// unblocks a read that is waiting on the socket.
	stopCancel := context.AfterFunc(ctx, func() { conn.Close() })
	defer stopCancel()

	log.Debug().Msg("event socket connected")

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if derr := l.drain(buf[:n]); derr != nil {
				return derr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if rest := l.splitter.Discard(); rest != "" {
					log.Debug().Str("partial", rest).Msg("discarding unterminated trailer at end of stream")
				}
				log.Debug().Msg("event socket closed")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event socket: %w", err)
		}
	}
}

// Start runs Listen on its own goroutine and returns a channel that
// delivers the single terminal result once the loop reaches its end.
func (l *Listener) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- l.Listen(ctx)
	}()
	return done
}

// drain feeds one chunk through the splitter and decodes and dispatches
// every complete line, in order. A decode failure is fatal protocol
// corruption; skipping the line would desynchronize callers from the
// compositor.
func (l *Listener) drain(chunk []byte) error {
	for _, line := range l.splitter.Feed(chunk) {
		ev, err := wire.Decode(line)
		if err != nil {
			return err
		}
		log.Debug().Str("type", string(ev.Type)).Msg("dispatching event")
		if err := l.registry.Dispatch(ev); err != nil {
			return err
		}
	}
	return nil
}
