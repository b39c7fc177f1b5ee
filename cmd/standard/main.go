package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shivam-909/memstress/internal/pressure"
	"github.com/shivam-909/memstress/internal/pressure/standard"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pressure.New(standard.New()).Run(ctx); err != nil {
		slog.Error("pressure loop failed", "err", err)
		os.Exit(1)
	}
}
