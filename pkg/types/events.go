// Package types defines the public event model for the compositor
// event socket: one EventType per notification kind plus the typed
// payloads carried by each kind.
package types

// EventType identifies the kind of a compositor notification.
type EventType string

const (
	WorkspaceChanged       EventType = "workspace.changed"
	WorkspaceAdded         EventType = "workspace.added"
	WorkspaceDeleted       EventType = "workspace.deleted"
	ActiveMonitorChanged   EventType = "monitor.active"
	ActiveWindowChanged    EventType = "window.active"
	FullscreenStateChanged EventType = "window.fullscreen"
	MonitorAdded           EventType = "monitor.added"
	MonitorRemoved         EventType = "monitor.removed"
)

// Kinds returns every event kind, in wire-grammar order.
func Kinds() []EventType {
	return []EventType{
		WorkspaceChanged,
		WorkspaceDeleted,
		WorkspaceAdded,
		ActiveMonitorChanged,
		ActiveWindowChanged,
		FullscreenStateChanged,
		MonitorRemoved,
		MonitorAdded,
	}
}

// WorkspaceID identifies a compositor workspace. The wire protocol
// carries at most two decimal digits, so the full range fits in a uint8.
type WorkspaceID uint8

// MonitorEvent is the payload of ActiveMonitorChanged: the monitor that
// gained focus and the workspace currently shown on it.
type MonitorEvent struct {
	Name      string      `json:"name"`
	Workspace WorkspaceID `json:"workspace"`
}

// WindowEvent is the payload of ActiveWindowChanged. A nil *WindowEvent
// means focus moved to no window at all.
type WindowEvent struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

// Event is one decoded notification from the event socket. Data holds
// the kind-specific payload:
//
//	WorkspaceChanged / WorkspaceAdded / WorkspaceDeleted  WorkspaceID
//	ActiveMonitorChanged                                  MonitorEvent
//	ActiveWindowChanged                                   *WindowEvent (nil allowed)
//	FullscreenStateChanged                                bool
//	MonitorAdded / MonitorRemoved                         string
//
// Events are immutable once constructed; the decoder is the only
// producer.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}
