package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Queue names shared by the monitor, the worker and the API feed.
const (
	QueueSignalFeed    = "alpha_signal_feed"
	QueueTradeRequests = "alpha_trade_requests"
)

// MonitorConfig carries every tunable of the monitoring daemon. Values are
// read from the environment once at startup and passed to constructors; no
// package-level mutable state.
type MonitorConfig struct {
	Accounts      []string
	SelfHandle    string
	MinInterval   time.Duration
	MaxInterval   time.Duration
	StartInterval time.Duration

	// Interval auto-tuning: shrink when a cycle finds more than
	// ShrinkTrigger new follows, grow when it finds none.
	ShrinkTrigger int

	// A USDC pool younger than this is considered fresh enough to act on.
	FreshPoolMaxAgeDays float64

	CacheTTL      time.Duration
	CacheCapacity int

	MaxFollowing int

	RaydiumAPIBase string
	SolanaRPC      string
}

// LoadMonitorConfig reads the monitor configuration from the environment.
func LoadMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Accounts:            splitList(os.Getenv("TARGET_ACCOUNTS")),
		SelfHandle:          os.Getenv("TWITTER_USERNAME"),
		MinInterval:         envDuration("MIN_POLL_INTERVAL", 2*time.Minute),
		MaxInterval:         envDuration("MAX_POLL_INTERVAL", 15*time.Minute),
		StartInterval:       envDuration("START_POLL_INTERVAL", 5*time.Minute),
		ShrinkTrigger:       envInt("INTERVAL_SHRINK_TRIGGER", 5),
		FreshPoolMaxAgeDays: envFloat("FRESH_POOL_MAX_AGE_DAYS", 2),
		CacheTTL:            envDuration("PROFILE_CACHE_TTL", 10*time.Minute),
		CacheCapacity:       envInt("PROFILE_CACHE_CAPACITY", 500),
		MaxFollowing:        envInt("MAX_FOLLOWING_FETCH", 20000),
		RaydiumAPIBase:      envString("RAYDIUM_API_BASE", "https://api-v3.raydium.io/pools/info/mint"),
		SolanaRPC:           envString("SOLANA_RPC", "https://api.mainnet-beta.solana.com"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
