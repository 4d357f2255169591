package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 10 * time.Second

type Result struct {
	Adds []string `json:"adds"`
	Cuts []string `json:"cuts"`
}

type request struct {
	Cards []string `json:"cards"`
}

// Client calls the external recommendation engine. It never returns an error:
// an unreachable or failing engine yields an empty Result and a warning.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zap.SugaredLogger
}

func NewClient(baseURL string, timeout time.Duration, rps float64, logger *zap.SugaredLogger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:      logger,
	}
}

func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

func (c *Client) Recommend(ctx context.Context, cardNames []string) Result {
	empty := Result{Adds: []string{}, Cuts: []string{}}
	if !c.Enabled() {
		return empty
	}

	result, err := c.fetch(ctx, cardNames)
	if err != nil {
		c.logger.Warnw("recommendation request failed", "cards", len(cardNames), "error", err)
		return empty
	}
	if result.Adds == nil {
		result.Adds = []string{}
	}
	if result.Cuts == nil {
		result.Cuts = []string{}
	}
	return *result
}

func (c *Client) fetch(ctx context.Context, cardNames []string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.httpClient.Timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(request{Cards: cardNames})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
