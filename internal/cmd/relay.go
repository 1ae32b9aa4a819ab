package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alia5/keyview/internal/log"
	"github.com/Alia5/keyview/report/relay"
)

// Relay forwards the reports of a local source to viewers on other hosts.
type Relay struct {
	Listen        string `help:"Relay listen address" default:":3247" env:"KEYVIEW_RELAY_ADDR"`
	ServePassword string `help:"Password clients must use; empty streams in the clear" env:"KEYVIEW_RELAY_PASSWORD"`

	SourceConfig `embed:""`
}

// Run is called by Kong when the relay command is executed.
func (r *Relay) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", r.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", r.Listen, err)
	}
	return r.Serve(ctx, ln, logger, rawLogger)
}

// Serve relays reports to clients accepted on ln until ctx is done.
func (r *Relay) Serve(ctx context.Context, ln net.Listener, logger *slog.Logger, rawLogger log.RawLogger) error {
	srv, err := relay.NewServer(r.ServePassword, logger)
	if err != nil {
		_ = ln.Close()
		return err
	}
	src, err := r.Open(logger, rawLogger)
	if err != nil {
		_ = ln.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	reports := r.Poller(src, logger).Start(ctx)
	defer func() {
		cancel()
		for range reports {
		}
	}()

	logger.Info("Relaying reports", "source", r.Source, "addr", ln.Addr().String())
	return srv.Serve(ctx, ln, reports)
}
