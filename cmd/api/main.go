package main

import (
	"context"
	"fmt"
	"log"

	"user-deletion-service/cmd/api/app"
	"user-deletion-service/cmd/api/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run() error {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	a, err := app.New()
	if err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	return a.Run(ctx)
}
