// Package wire implements the line grammar of the compositor event
// socket: eight newline-delimited "name>>payload" patterns, a strict
// decoder that accepts a line only when exactly one pattern matches, and
// a re-encoder used by tests and mock sockets.
package wire

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/hyprwatch/hyprwatch/pkg/types"
)

// defaultWorkspace is the id reported when a workspace change line
// carries an empty id field.
const defaultWorkspace types.WorkspaceID = 1

// Decode classifies one protocol line and extracts its fields. It is a
// pure function: no state is read or written.
//
// A line is accepted only if exactly one grammar pattern matches; zero
// or multiple matches return a *DecodeError wrapping ErrAmbiguous. A
// captured numeric field outside the uint8 range returns a *DecodeError
// wrapping ErrFieldConversion.
func Decode(line string) (types.Event, error) {
	if !utf8.ValidString(line) {
		return types.Event{}, &DecodeError{Line: line, cause: ErrEncoding}
	}

	patterns := grammar()
	var matched *pattern
	matches := 0
	for i := range patterns {
		if patterns[i].re.MatchString(line) {
			matches++
			if matched == nil {
				matched = &patterns[i]
			}
		}
	}
	if matches != 1 {
		return types.Event{}, &DecodeError{Line: line, Matches: matches, cause: ErrAmbiguous}
	}

	subs := matched.re.FindStringSubmatch(line)

	switch matched.kind {
	case types.WorkspaceChanged:
		id := defaultWorkspace
		if raw := matched.capture(subs, "workspace"); raw != "" {
			parsed, err := parseWorkspace(line, raw)
			if err != nil {
				return types.Event{}, err
			}
			id = parsed
		}
		return types.Event{Type: types.WorkspaceChanged, Data: id}, nil

	case types.WorkspaceDeleted, types.WorkspaceAdded:
		id, err := parseWorkspace(line, matched.capture(subs, "workspace"))
		if err != nil {
			return types.Event{}, err
		}
		return types.Event{Type: matched.kind, Data: id}, nil

	case types.ActiveMonitorChanged:
		id, err := parseWorkspace(line, matched.capture(subs, "workspace"))
		if err != nil {
			return types.Event{}, err
		}
		return types.Event{Type: types.ActiveMonitorChanged, Data: types.MonitorEvent{
			Name:      matched.capture(subs, "monitor"),
			Workspace: id,
		}}, nil

	case types.ActiveWindowChanged:
		class := matched.capture(subs, "class")
		title := matched.capture(subs, "title")
		var win *types.WindowEvent
		if class != "" && title != "" {
			win = &types.WindowEvent{Class: class, Title: title}
		}
		return types.Event{Type: types.ActiveWindowChanged, Data: win}, nil

	case types.FullscreenStateChanged:
		// The wire sense is inverted from what the digit suggests:
		// "0" means fullscreen is now active. Preserved as observed.
		return types.Event{
			Type: types.FullscreenStateChanged,
			Data: matched.capture(subs, "state") == "0",
		}, nil

	case types.MonitorRemoved, types.MonitorAdded:
		return types.Event{Type: matched.kind, Data: matched.capture(subs, "monitor")}, nil
	}

	// Unreachable: the grammar table covers every kind.
	return types.Event{}, &DecodeError{Line: line, Matches: matches, cause: ErrAmbiguous}
}

// parseWorkspace converts a captured workspace field to a WorkspaceID.
func parseWorkspace(line, raw string) (types.WorkspaceID, error) {
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, &DecodeError{Line: line, Matches: 1, cause: fmt.Errorf("%w: workspace %q: %v", ErrFieldConversion, raw, err)}
	}
	return types.WorkspaceID(n), nil
}
