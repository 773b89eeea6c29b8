package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyprwatch/hyprwatch/internal/listener"
	"github.com/hyprwatch/hyprwatch/internal/server"
	"github.com/hyprwatch/hyprwatch/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Re-broadcast compositor events over HTTP as Server-Sent Events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		path, err := resolveSocket()
		if err != nil {
			return err
		}

		l := listener.New(transport.UnixDialer{Path: path})
		srv := server.New(server.Config{
			Addr:       cfg.Serve.Addr,
			EnableCORS: cfg.Serve.EnableCORS,
			Heartbeat:  cfg.Serve.Heartbeat.Std(),
		}, l)

		// Whichever side stops first takes the other down with it.
		runCtx, stop := context.WithCancel(ctx)
		defer stop()

		listenDone := l.Start(runCtx)
		serveErr := make(chan error, 1)
		go func() {
			serveErr <- srv.Run(runCtx)
		}()

		select {
		case err := <-listenDone:
			stop()
			<-serveErr
			return ignoreCancel(ctx, err)
		case err := <-serveErr:
			stop()
			<-listenDone
			return ignoreCancel(ctx, err)
		}
	},
}
