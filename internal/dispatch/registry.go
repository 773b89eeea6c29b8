// Package dispatch routes decoded events to caller-registered handlers.
// It keeps an ordered handler list per event kind and delivers
// synchronously in registration order, on top of a watermill gochannel
// that carries a JSON copy of every dispatched event for observers.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/hyprwatch/hyprwatch/pkg/types"
)

// Topic is the watermill topic carrying the JSON form of every
// dispatched event.
const Topic = "compositor.events"

// MetadataType is the message metadata key holding the event kind.
const MetadataType = "type"

// Handler consumes one event. A non-nil error aborts delivery of the
// current event to any later handlers and terminates the listener; a
// handler that must tolerate its own failures has to recover internally.
type Handler func(types.Event) error

// HandlerError wraps an error returned by a registered handler, recording
// which kind and which position in the registration order failed.
type HandlerError struct {
	Kind  types.EventType
	Index int
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %d for %s: %v", e.Index, e.Kind, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Registry holds the per-kind ordered handler lists for one listener.
// Registration is append-only and must complete before the listener
// starts; Dispatch is driven by the single listener goroutine.
type Registry struct {
	mu       sync.RWMutex
	handlers map[types.EventType][]Handler
	pubsub   *gochannel.GoChannel
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[types.EventType][]Handler),
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NopLogger{},
		),
	}
}

// Register appends h to the ordered handler list for kind.
func (r *Registry) Register(kind types.EventType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = append(r.handlers[kind], h)
}

// Dispatch invokes every handler registered for ev's kind, in
// registration order, synchronously on the calling goroutine. Handlers
// never observe mutated payload state: the event value is passed as-is
// and is immutable by convention. The first handler error stops delivery
// and is returned as a *HandlerError.
//
// After the handlers complete, a JSON copy of the event is published on
// the watermill channel for Tap subscribers. A stalled subscriber
// backpressures dispatch once the channel buffer fills, the same way a
// slow handler would.
func (r *Registry) Dispatch(ev types.Event) error {
	r.mu.RLock()
	hs := r.handlers[ev.Type]
	r.mu.RUnlock()

	for i, h := range hs {
		if err := h(ev); err != nil {
			return &HandlerError{Kind: ev.Type, Index: i, Err: err}
		}
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataType, string(ev.Type))
	if err := r.pubsub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}

// Tap subscribes to the JSON stream of all dispatched events. The
// returned channel closes when ctx is done or the registry is closed.
func (r *Registry) Tap(ctx context.Context) (<-chan *message.Message, error) {
	return r.pubsub.Subscribe(ctx, Topic)
}

// Close shuts down the tap infrastructure. Registered handlers are
// unaffected; the registry itself is not reusable afterwards.
func (r *Registry) Close() error {
	return r.pubsub.Close()
}
