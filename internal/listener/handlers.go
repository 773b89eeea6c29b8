package listener

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/hyprwatch/hyprwatch/pkg/types"
)

// The On* methods register a typed handler for one event kind. Handlers
// for the same kind run in registration order; a non-nil error from any
// handler aborts delivery of the current event and terminates the
// listener with a *dispatch.HandlerError. All registration must happen
// before Listen or Start.

// OnWorkspaceChanged registers f for workspace focus changes.
func (l *Listener) OnWorkspaceChanged(f func(types.WorkspaceID) error) {
	l.registry.Register(types.WorkspaceChanged, func(ev types.Event) error {
		return f(ev.Data.(types.WorkspaceID))
	})
}

// OnWorkspaceAdded registers f for workspace creation.
func (l *Listener) OnWorkspaceAdded(f func(types.WorkspaceID) error) {
	l.registry.Register(types.WorkspaceAdded, func(ev types.Event) error {
		return f(ev.Data.(types.WorkspaceID))
	})
}

// OnWorkspaceDeleted registers f for workspace destruction.
func (l *Listener) OnWorkspaceDeleted(f func(types.WorkspaceID) error) {
	l.registry.Register(types.WorkspaceDeleted, func(ev types.Event) error {
		return f(ev.Data.(types.WorkspaceID))
	})
}

// OnActiveMonitorChanged registers f for monitor focus changes.
func (l *Listener) OnActiveMonitorChanged(f func(types.MonitorEvent) error) {
	l.registry.Register(types.ActiveMonitorChanged, func(ev types.Event) error {
		return f(ev.Data.(types.MonitorEvent))
	})
}

// OnActiveWindowChanged registers f for window focus changes. f receives
// nil when focus moved to no window.
func (l *Listener) OnActiveWindowChanged(f func(*types.WindowEvent) error) {
	l.registry.Register(types.ActiveWindowChanged, func(ev types.Event) error {
		win, _ := ev.Data.(*types.WindowEvent)
		return f(win)
	})
}

// OnFullscreenStateChanged registers f for fullscreen toggles. The
// argument is true when a window just became fullscreen.
func (l *Listener) OnFullscreenStateChanged(f func(bool) error) {
	l.registry.Register(types.FullscreenStateChanged, func(ev types.Event) error {
		return f(ev.Data.(bool))
	})
}

// OnMonitorAdded registers f for monitor hotplug connects.
func (l *Listener) OnMonitorAdded(f func(string) error) {
	l.registry.Register(types.MonitorAdded, func(ev types.Event) error {
		return f(ev.Data.(string))
	})
}

// OnMonitorRemoved registers f for monitor hotplug disconnects.
func (l *Listener) OnMonitorRemoved(f func(string) error) {
	l.registry.Register(types.MonitorRemoved, func(ev types.Event) error {
		return f(ev.Data.(string))
	})
}

// OnEvent registers f for one event kind with the untyped envelope. It
// is the escape hatch for callers that route on kind themselves.
func (l *Listener) OnEvent(kind types.EventType, f func(types.Event) error) {
	l.registry.Register(kind, f)
}

// Tap subscribes to the JSON copies of every dispatched event. Used by
// the SSE bridge; the channel closes when ctx is done or the listener
// finishes.
func (l *Listener) Tap(ctx context.Context) (<-chan *message.Message, error) {
	return l.registry.Tap(ctx)
}
