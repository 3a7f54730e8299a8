// Command server runs the labwatch HTTP API.
//
// Configuration comes from CONFIG_PATH (default ./config.yaml) plus
// environment variables; see internal/config.
//
// Exit codes: 0 = clean shutdown, 1 = startup or serve error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/labwatch-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
