// Package oracle asks the recommendation service how much of a token to
// buy. The service reasons over a textual summary; this client only parses
// the numeric answer.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Client calls the recommendation oracle endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an oracle client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type recommendRequest struct {
	Prompt string `json:"prompt"`
}

type recommendResponse struct {
	Text string `json:"text"`
}

// RecommendAmount sends the signal summary and returns the suggested USDC
// purchase amount. A non-numeric or non-positive answer means "no action"
// and returns 0 with no error.
func (c *Client) RecommendAmount(ctx context.Context, summary string) (float64, error) {
	body, err := json.Marshal(recommendRequest{Prompt: summary})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recommend", strings.NewReader(string(body)))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	var parsed recommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode oracle response: %w", err)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(parsed.Text), 64)
	if err != nil {
		log.Warnf("Oracle answer %q is not numeric, treating as no action", parsed.Text)
		return 0, nil
	}
	if amount <= 0 {
		return 0, nil
	}
	return amount, nil
}
