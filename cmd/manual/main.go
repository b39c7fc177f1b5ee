package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"github.com/shivam-909/memstress/internal/pressure"
	"github.com/shivam-909/memstress/internal/pressure/manual"
)

func main() {
	// NoShutdownHook: SIGINT/SIGTERM are handled below so the tracker can
	// drain before the profile is written.
	defer profile.Start(profile.MemProfile, profile.NoShutdownHook).Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: "0.0.0.0:8080"}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})
	g.Go(func() error {
		return pressure.New(manual.New()).Run(ctx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("pressure loop failed", "err", err)
		os.Exit(1)
	}
}
