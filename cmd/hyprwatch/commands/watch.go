package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyprwatch/hyprwatch/internal/dispatch"
	"github.com/hyprwatch/hyprwatch/internal/listener"
	"github.com/hyprwatch/hyprwatch/internal/transport"
	"github.com/hyprwatch/hyprwatch/internal/wire"
	"github.com/hyprwatch/hyprwatch/pkg/types"
)

var (
	watchJSON      bool
	watchReconnect bool
	watchWait      bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print compositor events as they happen",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		path, err := resolveSocket()
		if err != nil {
			// With --wait a missing socket is the expected starting
			// state; the candidate path tells us where to watch.
			if !watchWait || path == "" || !errors.Is(err, transport.ErrSocketNotFound) {
				return err
			}
		}
		if watchWait {
			if err := transport.WaitForSocket(ctx, path); err != nil {
				return err
			}
		}

		runOnce := func() error {
			l := listener.New(transport.UnixDialer{Path: path})
			registerPrinters(l, watchJSON || cfg.JSON)
			return l.Listen(ctx)
		}

		if !watchReconnect {
			return ignoreCancel(ctx, runOnce())
		}
		return ignoreCancel(ctx, retryLoop(ctx, runOnce))
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Print events as JSON objects")
	watchCmd.Flags().BoolVar(&watchReconnect, "reconnect", false, "Reconnect with backoff after transport failures")
	watchCmd.Flags().BoolVar(&watchWait, "wait", false, "Wait for the event socket to appear before connecting")
}

// resolveSocket picks the socket path: explicit configuration first,
// environment auto-detection otherwise.
func resolveSocket() (string, error) {
	if cfg.Socket != "" {
		return cfg.Socket, nil
	}
	return transport.SocketPath()
}

// retryLoop reruns the listener with exponential backoff after transport
// failures. The listener never retries on its own; reconnect is a caller
// policy, and protocol corruption or a handler error stops it for good.
func retryLoop(ctx context.Context, runOnce func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.Reconnect.InitialInterval.Std()
	b.MaxInterval = cfg.Reconnect.MaxInterval.Std()
	b.MaxElapsedTime = cfg.Reconnect.MaxElapsedTime.Std()
	b.Reset()

	operation := func() error {
		err := runOnce()
		if err == nil {
			return nil // graceful close ends the loop
		}
		var decodeErr *wire.DecodeError
		var handlerErr *dispatch.HandlerError
		if errors.As(err, &decodeErr) || errors.As(err, &handlerErr) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("listener stopped; reconnecting")
	}
	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
}

// ignoreCancel maps a caller-initiated shutdown (SIGINT/SIGTERM) to a
// clean exit.
func ignoreCancel(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// registerPrinters hooks every event kind to stdout output.
func registerPrinters(l *listener.Listener, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, kind := range types.Kinds() {
			l.OnEvent(kind, func(ev types.Event) error {
				return enc.Encode(ev)
			})
		}
		return
	}

	l.OnWorkspaceChanged(func(id types.WorkspaceID) error {
		fmt.Printf("workspace changed: %d\n", id)
		return nil
	})
	l.OnWorkspaceAdded(func(id types.WorkspaceID) error {
		fmt.Printf("workspace added: %d\n", id)
		return nil
	})
	l.OnWorkspaceDeleted(func(id types.WorkspaceID) error {
		fmt.Printf("workspace deleted: %d\n", id)
		return nil
	})
	l.OnActiveMonitorChanged(func(mon types.MonitorEvent) error {
		fmt.Printf("active monitor: %s (workspace %d)\n", mon.Name, mon.Workspace)
		return nil
	})
	l.OnActiveWindowChanged(func(win *types.WindowEvent) error {
		if win == nil {
			fmt.Println("active window: none")
			return nil
		}
		fmt.Printf("active window: %s (%s)\n", win.Class, win.Title)
		return nil
	})
	l.OnFullscreenStateChanged(func(on bool) error {
		fmt.Printf("fullscreen: %t\n", on)
		return nil
	})
	l.OnMonitorAdded(func(name string) error {
		fmt.Printf("monitor added: %s\n", name)
		return nil
	})
	l.OnMonitorRemoved(func(name string) error {
		fmt.Printf("monitor removed: %s\n", name)
		return nil
	})
}
