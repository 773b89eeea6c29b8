package transport

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketPathRequiresSignature(t *testing.T) {
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")
	_, err := SocketPath()
	assert.Error(t, err)
}

func TestSocketPathPrefersRuntimeDir(t *testing.T) {
	runtimeDir := t.TempDir()
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "abc123")
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	// Present under the runtime dir: that wins.
	sockDir := filepath.Join(runtimeDir, "hypr", "abc123")
	require.NoError(t, mkdirAll(sockDir))
	require.NoError(t, touch(filepath.Join(sockDir, eventSocketName)))

	path, err := SocketPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sockDir, eventSocketName), path)
}

func TestSocketPathFallsBackToTmp(t *testing.T) {
	// Unique per-run signature so the test never collides with a real
	// compositor instance under /tmp/hypr.
	sig := filepath.Base(t.TempDir())
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", sig)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir()) // empty: no socket created

	tmpDir := filepath.Join("/tmp", "hypr", sig)
	require.NoError(t, mkdirAll(tmpDir))
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	require.NoError(t, touch(filepath.Join(tmpDir, eventSocketName)))

	path, err := SocketPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, eventSocketName), path)
}

func TestSocketPathReportsMissingSocket(t *testing.T) {
	sig := filepath.Base(t.TempDir())
	runtimeDir := t.TempDir()
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", sig)
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	path, err := SocketPath()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSocketNotFound)
	assert.Equal(t, filepath.Join(runtimeDir, "hypr", sig, eventSocketName), path,
		"the preferred candidate is still reported so waiters know where to watch")
}

func TestUnixDialer(t *testing.T) {
	path := shortSocketPath(t)
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	conn, err := UnixDialer{Path: path}.Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	server := <-accepted
	defer server.Close()

	_, err = server.Write([]byte("workspace>>1\n"))
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "workspace>>1\n", string(buf[:n]))
}

func TestUnixDialerEmptyPath(t *testing.T) {
	_, err := UnixDialer{}.Dial(context.Background())
	assert.Error(t, err)
}

func TestWaitForSocketReturnsWhenPresent(t *testing.T) {
	path := shortSocketPath(t)
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, WaitForSocket(ctx, path))
}

func TestWaitForSocketObservesCreation(t *testing.T) {
	path := shortSocketPath(t)

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- WaitForSocket(ctx, path)
	}()

	// Give the watcher a moment to anchor before creating the socket.
	time.Sleep(100 * time.Millisecond)
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForSocket did not observe socket creation")
	}
}

func TestWaitForSocketHonorsCancellation(t *testing.T) {
	path := shortSocketPath(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, WaitForSocket(ctx, path), context.DeadlineExceeded)
}
