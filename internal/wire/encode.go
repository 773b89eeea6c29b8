package wire

import (
	"fmt"

	"github.com/hyprwatch/hyprwatch/pkg/types"
)

// Encode renders an event back into its wire line, without the trailing
// newline. It is the inverse of Decode for well-formed events and exists
// for round-trip tests and mock compositor sockets; production code only
// ever decodes.
//
// Field values containing "," or ">>" are not escaped: the wire format
// has no escaping, so such names are unrepresentable on it.
func Encode(ev types.Event) (string, error) {
	switch ev.Type {
	case types.WorkspaceChanged:
		id, ok := ev.Data.(types.WorkspaceID)
		if !ok {
			return "", payloadError(ev)
		}
		return fmt.Sprintf("workspace>>%d", id), nil

	case types.WorkspaceDeleted:
		id, ok := ev.Data.(types.WorkspaceID)
		if !ok {
			return "", payloadError(ev)
		}
		return fmt.Sprintf("destroyworkspace>>%d", id), nil

	case types.WorkspaceAdded:
		id, ok := ev.Data.(types.WorkspaceID)
		if !ok {
			return "", payloadError(ev)
		}
		return fmt.Sprintf("createworkspace>>%d", id), nil

	case types.ActiveMonitorChanged:
		mon, ok := ev.Data.(types.MonitorEvent)
		if !ok {
			return "", payloadError(ev)
		}
		return fmt.Sprintf("activemon>>%s,%d", mon.Name, mon.Workspace), nil

	case types.ActiveWindowChanged:
		win, ok := ev.Data.(*types.WindowEvent)
		if !ok && ev.Data != nil {
			return "", payloadError(ev)
		}
		if win == nil {
			return "activewindow>>,", nil
		}
		return fmt.Sprintf("activewindow>>%s,%s", win.Class, win.Title), nil

	case types.FullscreenStateChanged:
		state, ok := ev.Data.(bool)
		if !ok {
			return "", payloadError(ev)
		}
		// Inverted wire sense, mirroring Decode: "0" is fullscreen on.
		if state {
			return "fullscreen>>0", nil
		}
		return "fullscreen>>1", nil

	case types.MonitorRemoved:
		name, ok := ev.Data.(string)
		if !ok {
			return "", payloadError(ev)
		}
		return "monitorremoved>>" + name, nil

	case types.MonitorAdded:
		name, ok := ev.Data.(string)
		if !ok {
			return "", payloadError(ev)
		}
		return "monitoradded>>" + name, nil
	}

	return "", fmt.Errorf("encode: unknown event type %q", ev.Type)
}

func payloadError(ev types.Event) error {
	return fmt.Errorf("encode %s: unexpected payload type %T", ev.Type, ev.Data)
}
