package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"votingregistry/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases) and provision the election.
// 3) Start HTTP server.
//
// @title Voting Registry API
// @version 1.0
// @description Single-election voting registry: voter and proposal registration, voting and tally.
// @BasePath /
func main() {
	log.Println("votingregistry api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("votingregistry api stopped with error: %v", err)
	}
}
