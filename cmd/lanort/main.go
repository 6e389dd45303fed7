package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lanort/pedidos/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, cli.Options{}, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}
