// Package transport locates and opens the compositor event socket. The
// listener core depends only on the Dialer seam defined here; everything
// about where the socket lives is this package's concern.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// eventSocketName is the well-known event socket filename inside a
// compositor instance's runtime directory.
const eventSocketName = ".socket2.sock"

// instanceEnv carries the compositor instance signature that names the
// per-instance runtime directory.
const instanceEnv = "HYPRLAND_INSTANCE_SIGNATURE"

// ErrSocketNotFound reports that no candidate location holds the event
// socket. The returned path is still the preferred candidate, so callers
// that wait for the socket to appear know where to watch.
var ErrSocketNotFound = errors.New("event socket not found")

// SocketPath resolves the event socket of the current compositor
// instance. It prefers $XDG_RUNTIME_DIR/hypr/<signature> and falls back
// to the legacy /tmp/hypr/<signature> tree used by older compositor
// releases. Both candidates are checked for existence; when neither
// holds the socket, the preferred candidate is returned together with
// an error wrapping ErrSocketNotFound.
func SocketPath() (string, error) {
	sig := os.Getenv(instanceEnv)
	if sig == "" {
		return "", fmt.Errorf("%s is not set; is the compositor running?", instanceEnv)
	}

	var candidates []string
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		candidates = append(candidates, filepath.Join(runtimeDir, "hypr", sig, eventSocketName))
	}
	candidates = append(candidates, filepath.Join("/tmp", "hypr", sig, eventSocketName))

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return candidates[0], fmt.Errorf("%w (checked %s)", ErrSocketNotFound, strings.Join(candidates, ", "))
}

// Dialer opens the byte-oriented, ordered event channel. Connect-once
// semantics: the listener dials exactly once per run and never
// reconnects on its own.
type Dialer interface {
	Dial(ctx context.Context) (net.Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (net.Conn, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context) (net.Conn, error) { return f(ctx) }

// UnixDialer connects to the event socket at Path.
type UnixDialer struct {
	Path string
}

// Dial implements Dialer.
func (d UnixDialer) Dial(ctx context.Context) (net.Conn, error) {
	if d.Path == "" {
		return nil, errors.New("event socket path is empty")
	}
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "unix", d.Path)
	if err != nil {
		return nil, fmt.Errorf("connect event socket %s: %w", d.Path, err)
	}
	return conn, nil
}
