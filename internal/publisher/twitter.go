package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Twitter API v2 endpoint root.
const DefaultBaseURL = "https://api.twitter.com"

var (
	// ErrPublishFailed is returned when the publishing API rejects or
	// fails the request
	ErrPublishFailed = errors.New("publishing API call failed")
)

// Config describes the Twitter publisher settings.
type Config struct {
	BaseURL string        `env:"TWITTER_API_BASE_URL" envDefault:"https://api.twitter.com"`
	Timeout time.Duration `env:"TWITTER_API_TIMEOUT" envDefault:"15s"`
}

// Twitter publishes tweets through the Twitter API v2 POST /2/tweets
// endpoint using the owner's OAuth2 bearer token.
type Twitter struct {
	httpClient *http.Client
	baseURL    string
}

// TwitterOption configures a Twitter publisher.
type TwitterOption func(*Twitter)

// WithBaseURL overrides the API endpoint root. Intended for tests.
func WithBaseURL(url string) TwitterOption {
	return func(t *Twitter) {
		if url != "" {
			t.baseURL = url
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) TwitterOption {
	return func(t *Twitter) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// NewTwitter creates a Twitter publisher from config.
func NewTwitter(cfg Config, opts ...TwitterOption) *Twitter {
	t := &Twitter{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    DefaultBaseURL,
	}
	if cfg.BaseURL != "" {
		t.baseURL = cfg.BaseURL
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type tweetRequest struct {
	Text string `json:"text"`
}

func (t *Twitter) Publish(ctx context.Context, accessToken, text string) error {
	body, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return fmt.Errorf("marshal tweet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build tweet request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Bounded read keeps error messages useful without trusting the
		// remote side with unbounded memory.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrPublishFailed, resp.StatusCode, detail)
	}
	return nil
}
