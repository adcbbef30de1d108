package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"promptdeck/internal/cli"
	"promptdeck/internal/logger"
)

func main() {
	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.Execute(ctx)
	logger.Sync()
	if err != nil {
		if !cli.AlreadyShown(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		cancel()
		os.Exit(1)
	}
}
