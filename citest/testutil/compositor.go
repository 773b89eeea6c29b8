// Package testutil provides an in-process mock compositor for
// integration tests: a unix socket server that emits wire-encoded events
// on demand.
package testutil

import (
	"fmt"
	"net"
	"sync"

	"github.com/hyprwatch/hyprwatch/internal/wire"
	"github.com/hyprwatch/hyprwatch/pkg/types"
)

// MockCompositor serves the event socket wire protocol to one client at
// a time.
type MockCompositor struct {
	Path string

	ln net.Listener

	mu   sync.Mutex
	conn net.Conn
	errs []error
}

// StartMockCompositor listens on a unix socket at path and accepts
// clients in the background.
func StartMockCompositor(path string) (*MockCompositor, error) {
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("mock compositor listen: %w", err)
	}
	m := &MockCompositor{Path: path, ln: ln}
	go m.acceptLoop()
	return m, nil
}

func (m *MockCompositor) acceptLoop() {
	for {
		conn, err := m.ln.Accept()
		if err != nil {
			return
		}
		m.mu.Lock()
		if m.conn != nil {
			m.conn.Close()
		}
		m.conn = conn
		m.mu.Unlock()
	}
}

// Emit encodes ev and writes it as one line to the connected client.
func (m *MockCompositor) Emit(ev types.Event) error {
	line, err := wire.Encode(ev)
	if err != nil {
		return err
	}
	return m.EmitRaw(line + "\n")
}

// EmitRaw writes raw bytes verbatim, for exercising split and malformed
// payloads.
func (m *MockCompositor) EmitRaw(data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return fmt.Errorf("mock compositor: no client connected")
	}
	_, err := m.conn.Write([]byte(data))
	return err
}

// HasClient reports whether a client is currently connected.
func (m *MockCompositor) HasClient() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// CloseClient performs a graceful stream close toward the client while
// keeping the socket listening.
func (m *MockCompositor) CloseClient() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}

// Stop tears the whole mock down.
func (m *MockCompositor) Stop() {
	m.CloseClient()
	m.ln.Close()
}
