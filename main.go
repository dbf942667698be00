package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"todoapp/internal/app"
	"todoapp/internal/config"
	"todoapp/internal/database"
	"todoapp/internal/services"
	"todoapp/pkg/logger"
	"todoapp/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logr := logger.New(cfg.LogLevel, os.Stdout)

	// --- Database ---
	db, err := database.Open(cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("failed to open database")
	}
	defer database.Close(db)

	if cfg.DatabaseAutoMigrate {
		if err := database.Migrate(db); err != nil {
			logr.WithError(err).Fatal("failed to migrate database")
		}
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.RabbitMQExchange,
		}, logr)
		if err != nil {
			logr.WithError(err).Fatal("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		publisher = mqClient

		if cfg.EventsConsumerEnabled {
			if err := mqClient.Consume(app.EventQueue, "#", app.LogEvents(logr)); err != nil {
				logr.WithError(err).Error("failed to start event consumer")
			}
		}
	} else {
		logr.Info("RABBITMQ_URL not set, domain events are disabled")
	}

	// --- HTTP application ---
	server, err := app.New(app.Options{
		Config:    cfg,
		DB:        db,
		Publisher: publisher,
		Log:       logr,
		AccessLog: true,
	})
	if err != nil {
		logr.WithError(err).Fatal("failed to build application")
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logr.WithField("addr", cfg.AppPort).Info("starting server")
		if err := server.Listen(cfg.AppPort); err != nil {
			logr.WithError(err).Fatal("server failed to start")
		}
	}()

	<-quit
	logr.Info("shutting down server")
	if err := server.Shutdown(); err != nil {
		logr.WithError(err).Error("error during shutdown")
	}
	logr.Info("server gracefully stopped")
}
