// Package twitter is the client for the scraper gateway that fronts the
// social platform. The gateway holds the session; this client handles
// login, lookups and paginated following retrieval. Retry, caching and
// rate pacing live with the callers, not here.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Profile is an account profile as returned by the gateway.
type Profile struct {
	UserID         string     `json:"userId"`
	Username       string     `json:"username"`
	Name           string     `json:"name"`
	Biography      string     `json:"biography"`
	FollowersCount int        `json:"followersCount"`
	FollowingCount int        `json:"followingCount"`
	TweetsCount    int        `json:"tweetsCount"`
	Joined         *time.Time `json:"joined"`
}

// Tweet is a single post.
type Tweet struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials holds the platform login secrets.
type Credentials struct {
	Username        string
	Password        string
	Email           string
	TwoFactorSecret string
	RetryLimit      int
}

// CredentialsFromEnv reads credentials from the environment. Username and
// password are required; the caller treats their absence as fatal.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		Username:        os.Getenv("TWITTER_USERNAME"),
		Password:        os.Getenv("TWITTER_PASSWORD"),
		Email:           os.Getenv("TWITTER_EMAIL"),
		TwoFactorSecret: os.Getenv("TWITTER_2FA_SECRET"),
		RetryLimit:      3,
	}
	if v := os.Getenv("TWITTER_RETRY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			creds.RetryLimit = n
		}
	}
	if creds.Username == "" || creds.Password == "" {
		return creds, fmt.Errorf("twitter credentials are missing in environment variables")
	}
	return creds, nil
}

// Client talks to the scraper gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
}

// NewClient creates a gateway client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		pageSize: 200,
	}
}

// Login establishes a platform session on the gateway, retrying up to
// creds.RetryLimit times with a fixed delay. The gateway reuses cached
// cookies when it has them.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	payload := map[string]string{
		"username":        creds.Username,
		"password":        creds.Password,
		"email":           creds.Email,
		"twoFactorSecret": creds.TwoFactorSecret,
	}

	var lastErr error
	for attempt := 1; attempt <= creds.RetryLimit; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.postJSON(ctx, "/api/login", payload, nil)
		if err == nil {
			log.Info("Logged in to platform gateway")
			return nil
		}
		lastErr = err
		log.Warnf("Login attempt %d/%d failed: %v", attempt, creds.RetryLimit, err)

		if attempt < creds.RetryLimit {
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("platform login failed after %d attempts: %w", creds.RetryLimit, lastErr)
}

// GetUserID resolves a handle to the platform's user ID.
func (c *Client) GetUserID(ctx context.Context, username string) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	params := url.Values{"username": {username}}
	if err := c.getJSON(ctx, "/api/user-id", params, &out); err != nil {
		return "", fmt.Errorf("resolve user ID for %s: %w", username, err)
	}
	if out.UserID == "" {
		return "", fmt.Errorf("user ID not found for %s", username)
	}
	return out.UserID, nil
}

// GetProfile fetches a single account profile.
func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var profile Profile
	params := url.Values{"username": {username}}
	if err := c.getJSON(ctx, "/api/profile", params, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile for %s: %w", username, err)
	}
	return &profile, nil
}

type followingPage struct {
	Profiles   []Profile `json:"profiles"`
	NextCursor string    `json:"nextCursor"`
}

// GetFollowing walks the user's follow list page by page, calling visit for
// each profile until visit returns false, maxCount profiles have been seen,
// or the list is exhausted.
func (c *Client) GetFollowing(ctx context.Context, userID string, maxCount int, visit func(Profile) bool) error {
	cursor := ""
	seen := 0

	for {
		params := url.Values{
			"userId": {userID},
			"count":  {strconv.Itoa(c.pageSize)},
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page followingPage
		if err := c.getJSON(ctx, "/api/following", params, &page); err != nil {
			return fmt.Errorf("fetch following page for %s: %w", userID, err)
		}
		if len(page.Profiles) == 0 {
			return nil
		}

		for _, profile := range page.Profiles {
			seen++
			if seen > maxCount {
				return nil
			}
			if !visit(profile) {
				return nil
			}
		}

		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

// GetRecentTweets fetches the user's most recent posts.
func (c *Client) GetRecentTweets(ctx context.Context, userID string, count int) ([]Tweet, error) {
	var out struct {
		Tweets []Tweet `json:"tweets"`
	}
	params := url.Values{
		"userId": {userID},
		"count":  {strconv.Itoa(count)},
	}
	if err := c.getJSON(ctx, "/api/tweets", params, &out); err != nil {
		return nil, fmt.Errorf("fetch tweets for %s: %w", userID, err)
	}
	return out.Tweets, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
