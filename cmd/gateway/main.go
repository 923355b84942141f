// gateway serves the idea generation HTTP, websocket and connect APIs.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ideaforge/internal/gateway/app"
)

// shutdownGrace lets in-flight generations finish before the listener closes.
const shutdownGrace = 30 * time.Second

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("gateway: init: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() { serveErr <- a.Start() }()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Printf("gateway: serve: %v", err)
		}
	case <-ctx.Done():
		log.Println("gateway: shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("gateway: forced shutdown: %v", err)
	}
	log.Println("gateway: stopped")
}
