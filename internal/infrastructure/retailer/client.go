package retailer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client talks to the retailer aggregation API that fronts the individual
// Walmart/Target/Kroger adapters. It implements the domain provider
// interfaces for catalogs, deals, and user preferences.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new retailer API client
func NewClient(apiKey, baseURL string) *Client {
	// The aggregation API allows 5 requests per second per key
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request/response debug logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// exponentialBackoff returns the wait before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// GetProducts fetches the catalog for a retailer
func (c *Client) GetProducts(ctx context.Context, retailerID string) ([]domain.RetailerProduct, error) {
	if retailerID == "" {
		return nil, domain.ErrInvalidArgument
	}

	reqURL := fmt.Sprintf("%s/v1/retailers/%s/products?%s",
		c.baseURL, url.PathEscape(retailerID), c.authQuery())

	var resp productsResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	products := mapProducts(resp.Products)
	if c.debug {
		slog.Debug("fetched catalog", "retailer", retailerID, "products", len(products))
	}
	return products, nil
}

// GetActiveDeals fetches currently advertised deals, optionally scoped to
// one retailer
func (c *Client) GetActiveDeals(ctx context.Context, retailerID string) ([]domain.Deal, error) {
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	if retailerID != "" {
		params.Add("retailer", retailerID)
	}
	reqURL := fmt.Sprintf("%s/v1/deals?%s", c.baseURL, params.Encode())

	var resp dealsResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	deals := mapDeals(resp.Deals)
	if c.debug {
		slog.Debug("fetched deals", "retailer", retailerID, "deals", len(deals))
	}
	return deals, nil
}

// GetUserPreferences fetches a user's shopping preferences. A user with
// no stored preferences yields (nil, nil).
func (c *Client) GetUserPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	reqURL := fmt.Sprintf("%s/v1/users/%s/preferences?%s",
		c.baseURL, url.PathEscape(userID), c.authQuery())

	var dto preferencesDTO
	err := c.getJSON(ctx, reqURL, &dto)
	if err != nil {
		if err == domain.ErrRetailerNotFound {
			return nil, nil
		}
		return nil, err
	}

	return mapPreferences(&dto), nil
}

func (c *Client) authQuery() string {
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	return params.Encode()
}

// getJSON executes a GET with rate limiting and up to 3 attempts for
// transient failures, decoding the body into out on success
func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	var lastErr error

	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "Cartwise/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.debug {
				slog.Debug("request failed", "attempt", attempt, "error", err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrRetailerAPIFailure, err)
			sleepWithContext(ctx, exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return domain.ErrRetailerNotFound
		}
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				slog.Debug("API error", "attempt", attempt, "status", resp.StatusCode)
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRetailerAPIFailure, resp.StatusCode)
			sleepWithContext(ctx, exponentialBackoff(attempt))
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return lastErr
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
