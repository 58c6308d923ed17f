// Package raydium queries the Raydium v3 pool-info API.
package raydium

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"alphawatch/pkg/retry"
)

// Pool is the normalized view of one liquidity pool. The raw API shape is
// parsed exactly once, in poolsFromResponse; everything downstream sees
// only this struct.
type Pool struct {
	ID          string
	MarketID    string
	BaseMint    string
	BaseSymbol  string
	QuoteMint   string
	QuoteSymbol string
	Price       float64
	TVL         float64
	Volume24h   float64
	FeeRate     float64
	LpMint      string
	OpenTime    int64 // unix seconds
}

// AgeDays returns the pool age in days relative to now.
func (p *Pool) AgeDays(now time.Time) float64 {
	return float64(now.Unix()-p.OpenTime) / 86400
}

type mintInfo struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

type rawPool struct {
	ID       string   `json:"id"`
	MarketID string   `json:"marketId"`
	MintA    mintInfo `json:"mintA"`
	MintB    mintInfo `json:"mintB"`
	Price    float64  `json:"price"`
	TVL      float64  `json:"tvl"`
	Day      struct {
		Volume float64 `json:"volume"`
	} `json:"day"`
	FeeRate  float64     `json:"feeRate"`
	LpMint   mintInfo    `json:"lpMint"`
	OpenTime json.Number `json:"openTime"`
}

type poolInfoResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Data []rawPool `json:"data"`
	} `json:"data"`
}

// Client queries the Raydium pool-info endpoint with retry and backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
}

// NewClient creates a Raydium API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		retryCfg: retry.DefaultConfig,
	}
}

// GetPoolsForMint returns every pool containing tokenMint, sorted by the
// API's 30-day volume field, highest first. A 404 or an empty result set is
// a definitive "no pools" and returns an empty slice with no error; only
// transport failures after all retries surface as an error.
func (c *Client) GetPoolsForMint(ctx context.Context, tokenMint string) ([]Pool, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("mint1", tokenMint)
	q.Set("poolType", "all")
	q.Set("poolSortField", "volume30d")
	q.Set("sortType", "desc")
	q.Set("pageSize", "1000")
	q.Set("page", "1")
	u.RawQuery = q.Encode()

	var pools []Pool
	err = retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return retry.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			// Definitive absence, not a transient failure.
			log.Warnf("Raydium returned 404 for mint %s", tokenMint)
			pools = nil
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var parsed poolInfoResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("decode pool response: %w", err)
		}

		pools = poolsFromResponse(parsed)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch pools for %s: %w", tokenMint, err)
	}

	return pools, nil
}

func poolsFromResponse(resp poolInfoResponse) []Pool {
	if !resp.Success || len(resp.Data.Data) == 0 {
		return nil
	}

	pools := make([]Pool, 0, len(resp.Data.Data))
	for _, raw := range resp.Data.Data {
		openTime, err := strconv.ParseInt(raw.OpenTime.String(), 10, 64)
		if err != nil {
			log.Warnf("Skipping pool %s with malformed openTime %q", raw.ID, raw.OpenTime)
			continue
		}
		pools = append(pools, Pool{
			ID:          raw.ID,
			MarketID:    raw.MarketID,
			BaseMint:    raw.MintA.Address,
			BaseSymbol:  raw.MintA.Symbol,
			QuoteMint:   raw.MintB.Address,
			QuoteSymbol: raw.MintB.Symbol,
			Price:       raw.Price,
			TVL:         raw.TVL,
			Volume24h:   raw.Day.Volume,
			FeeRate:     raw.FeeRate,
			LpMint:      raw.LpMint.Address,
			OpenTime:    openTime,
		})
	}
	return pools
}
