package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	logrus "github.com/sirupsen/logrus"

	"alphawatch/internal/alpha"
	"alphawatch/internal/models"
	"alphawatch/pkg/config"
	"alphawatch/pkg/oracle"
	"alphawatch/pkg/simulator"
	"alphawatch/pkg/solana"
)

// tradeWorker sizes and executes simulated buys for actionable signals.
type tradeWorker struct {
	oracle    *oracle.Client
	simulator *simulator.Client
	wallet    *solana.WalletReader
	walletKey string
}

func (w *tradeWorker) handle(msg []byte) error {
	var signal models.AlphaSignal
	if err := json.Unmarshal(msg, &signal); err != nil {
		// Malformed messages are dropped, requeueing would loop forever.
		logrus.Errorf("Failed to unmarshal trade request: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"token":  signal.TokenMint,
		"handle": signal.Handle,
	}).Info("Received trade request")

	balances, err := w.simulator.GetBalances(ctx)
	if err != nil {
		logrus.Errorf("Failed to load simulator balances: %v", err)
		return err
	}
	usdcAvailable := 0.0
	for _, b := range balances {
		if b.Token == alpha.USDCMint {
			usdcAvailable = b.Amount
		}
	}

	if w.wallet != nil && w.walletKey != "" {
		lamports, err := w.wallet.GetSolBalance(ctx, w.walletKey)
		if err != nil {
			logrus.Warnf("On-chain balance check failed: %v", err)
		} else {
			logrus.Infof("Wallet holds %.4f SOL", float64(lamports)/1e9)
		}
	}

	amount, err := w.oracle.RecommendAmount(ctx, alpha.SignalSummary(&signal))
	if err != nil {
		logrus.Errorf("Recommendation failed for %s: %v", signal.TokenMint, err)
		return err
	}
	if amount <= 0 {
		logrus.Infof("Oracle declined %s, skipping trade", signal.TokenMint)
		return nil
	}
	if amount > usdcAvailable {
		logrus.Warnf("Recommended %.2f USDC exceeds balance %.2f, capping", amount, usdcAvailable)
		amount = usdcAvailable
	}
	if amount <= 0 {
		return nil
	}

	result, err := w.simulator.ExecuteTrade(ctx, alpha.USDCMint, signal.TokenMint, amount)
	if err != nil {
		logrus.Errorf("Trade failed for %s: %v", signal.TokenMint, err)
		return err
	}

	logrus.WithFields(logrus.Fields{
		"token":       signal.TokenMint,
		"transaction": result.TransactionID,
		"from_amount": result.FromAmount,
		"to_amount":   result.ToAmount,
	}).Info("Trade executed")
	return nil
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	conn, err := config.ConnectRabbitMQ()
	if err != nil {
		logrus.Fatal("Failed to connect to RabbitMQ: ", err)
	}
	defer conn.Close()

	consumer, err := config.NewConsumer(conn, config.QueueTradeRequests)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer consumer.Close()

	worker := &tradeWorker{
		oracle:    oracle.NewClient(envOr("ORACLE_API_BASE", "http://localhost:3000")),
		simulator: simulator.NewClient(envOr("SIMULATOR_API_BASE", "http://localhost:8090")),
		walletKey: os.Getenv("WALLET_PUBLIC_KEY"),
	}
	if worker.walletKey != "" {
		worker.wallet = solana.NewWalletReader(envOr("SOLANA_RPC", "https://api.mainnet-beta.solana.com"))
	}

	logrus.Info("Trade worker started, waiting for signals...")
	if err := consumer.Consume(worker.handle); err != nil {
		logrus.Fatal("Consumer stopped: ", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
