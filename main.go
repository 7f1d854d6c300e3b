// Package main is the entry point for the ldb API server.
// It configures the shared database pool and serves statements over HTTP.
package main

import (
	"context"
	"log"
	"os"

	"ldb/src/app/server"
	"ldb/src/infra/config"
	"ldb/src/infra/db"
	"ldb/src/infra/logger"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from .env and environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	// Missing database credentials fail here rather than on the first request
	registry := db.NewRegistry(log, nil)
	pg, err := registry.Configure(context.Background(), nil)
	if err != nil {
		return err
	}
	defer registry.Reset()

	if err := pg.Health(context.Background()); err != nil {
		log.Warn("database not reachable yet", "error", err)
	}

	srv := server.New(cfg, log, pg)

	// Run blocks until shutdown signal is received
	return srv.Run()
}
