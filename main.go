package main

import (
	"context"
	"fmt"
	"formbuilder/cmd/migration/seed"
	"formbuilder/internal/app"
	"formbuilder/internal/handlers"
	"formbuilder/internal/logger"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	logger.SetupDefault(os.Getenv("ENVIRONMENT") == "production")
	log := logger.New("main").Function("main")

	app, err := app.New()
	if err != nil {
		log.Er("failed to initialize app", err)
		os.Exit(1)
	}
	defer app.Close()

	if app.Config.SeedSubmissions {
		if _, err := seed.Seed(context.Background(), app.SubmissionRepo, app.Validator, logger.New("main")); err != nil {
			log.Warn("failed to seed submissions", "error", err)
		}
	}

	server, err := handlers.NewServer(app)
	if err != nil {
		log.Er("failed to create server", err)
		os.Exit(1)
	}

	go func() {
		addr := fmt.Sprintf(":%d", app.Config.ServerPort)
		log.Info("Server listening", "addr", addr, "version", app.Config.GeneralVersion)
		if err := server.Listen(addr); err != nil {
			log.Er("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Er("shutdown error", err)
	}
	log.Info("Stopped")
}
