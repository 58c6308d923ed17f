// Package simulator is the REST client for the trading simulator.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Balance is one token holding in the simulated portfolio.
type Balance struct {
	Token  string  `json:"token"`
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
}

// TradeResult is the simulator's answer to an executed trade.
type TradeResult struct {
	Success       bool    `json:"success"`
	TransactionID string  `json:"transactionId"`
	FromAmount    float64 `json:"fromAmount"`
	ToAmount      float64 `json:"toAmount"`
	Error         string  `json:"error"`
}

// Client talks to the trading-simulator API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a simulator client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetBalances returns the current simulated holdings.
func (c *Client) GetBalances(ctx context.Context) ([]Balance, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/balances", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch balances: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("simulator returned status %d", resp.StatusCode)
	}

	var out struct {
		Balances []Balance `json:"balances"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}
	return out.Balances, nil
}

type tradeRequest struct {
	FromToken string  `json:"fromToken"`
	ToToken   string  `json:"toToken"`
	Amount    float64 `json:"amount"`
}

// ExecuteTrade performs a simulated swap of amount fromToken into toToken.
func (c *Client) ExecuteTrade(ctx context.Context, fromToken, toToken string, amount float64) (*TradeResult, error) {
	body, err := json.Marshal(tradeRequest{FromToken: fromToken, ToToken: toToken, Amount: amount})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/trade", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute trade: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("simulator returned status %d", resp.StatusCode)
	}

	var result TradeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode trade result: %w", err)
	}
	if !result.Success {
		return &result, fmt.Errorf("trade rejected: %s", result.Error)
	}
	return &result, nil
}
