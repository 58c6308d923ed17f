package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"

	"alphawatch/internal/alpha"
	"alphawatch/internal/store"
	"alphawatch/pkg/config"
	"alphawatch/pkg/raydium"
	"alphawatch/pkg/solana"
	"alphawatch/pkg/twitter"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	cfg := config.LoadMonitorConfig()
	if len(cfg.Accounts) == 0 {
		logrus.Fatal("TARGET_ACCOUNTS is empty, nothing to monitor")
	}

	db, err := config.OpenDB(config.LoadDatabaseConfig())
	if err != nil {
		logrus.Fatal("Failed to open database: ", err)
	}
	st := store.NewGormStore(db)

	// Event publishing is optional; without a broker the monitor still
	// persists every signal.
	var events alpha.EventPublisher
	if os.Getenv("RABBITMQ_HOST") != "" {
		conn, err := config.ConnectRabbitMQ()
		if err != nil {
			logrus.Fatal("Failed to connect to RabbitMQ: ", err)
		}
		defer conn.Close()

		publisher, err := config.NewPublisher(conn)
		if err != nil {
			logrus.Fatal("Failed to create publisher: ", err)
		}
		defer publisher.Close()
		events = publisher
		logrus.Info("RabbitMQ publisher initialized")
	} else {
		logrus.Info("RabbitMQ not configured, signal events disabled")
	}

	creds, err := twitter.CredentialsFromEnv()
	if err != nil {
		logrus.Fatal("Twitter credentials: ", err)
	}
	gatewayURL := os.Getenv("SCRAPER_API_BASE")
	if gatewayURL == "" {
		gatewayURL = "http://localhost:3000"
	}
	client := twitter.NewClient(gatewayURL)

	loginCtx, cancelLogin := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := client.Login(loginCtx, creds); err != nil {
		cancelLogin()
		logrus.Fatal("Twitter login failed: ", err)
	}
	cancelLogin()
	logrus.Info("Logged in to Twitter")

	analyzer := alpha.NewAnalyzer(
		raydium.NewClient(cfg.RaydiumAPIBase),
		solana.NewMintChecker(cfg.SolanaRPC),
	)
	monitor := alpha.NewMonitor(cfg, client, st, analyzer, events)
	monitor.Start()

	c := cron.New()
	c.AddFunc("*/5 * * * *", func() {
		if removed := monitor.Cache().Sweep(); removed > 0 {
			logrus.Infof("Profile cache sweep removed %d entries", removed)
		}
	})
	if cfg.SelfHandle != "" {
		c.AddFunc("*/30 * * * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			marked, err := monitor.ReconcileTweeted(ctx, cfg.SelfHandle, 20)
			if err != nil {
				logrus.Warnf("Tweet reconciliation failed: %v", err)
				return
			}
			if len(marked) > 0 {
				logrus.Infof("Marked %d signals as tweeted", len(marked))
			}
		})
	}
	c.Start()
	defer c.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down...")
	monitor.Stop()
}
