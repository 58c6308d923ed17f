package main

import (
	"os"

	logrus "github.com/sirupsen/logrus"

	"alphawatch/internal/handlers"
	"alphawatch/internal/routes"
	"alphawatch/internal/store"
	"alphawatch/internal/stream"
	"alphawatch/pkg/config"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	db, err := config.OpenDB(config.LoadDatabaseConfig())
	if err != nil {
		logrus.Fatal("Failed to open database: ", err)
	}
	st := store.NewGormStore(db)

	// The live feed relays signal events from the broker. Without a
	// broker the REST API still serves persisted data.
	var hub *stream.Hub
	if os.Getenv("RABBITMQ_HOST") != "" {
		conn, err := config.ConnectRabbitMQ()
		if err != nil {
			logrus.Fatal("Failed to connect to RabbitMQ: ", err)
		}
		defer conn.Close()

		consumer, err := config.NewConsumer(conn, config.QueueSignalFeed)
		if err != nil {
			logrus.Fatal("Failed to create feed consumer: ", err)
		}
		defer consumer.Close()

		hub = stream.NewHub()
		go func() {
			err := consumer.Consume(func(msg []byte) error {
				hub.Broadcast(msg)
				return nil
			})
			if err != nil {
				logrus.Errorf("Signal feed consumer stopped: %v", err)
			}
		}()
		logrus.Info("Signal feed relay started")
	} else {
		logrus.Info("RabbitMQ not configured, live feed disabled")
	}

	r := routes.SetupRouter(handlers.NewHandler(st), hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}
