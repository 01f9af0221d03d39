// Package fdc implements the USDA FoodData Central client and the portion
// parsing that derives ingredient densities from serving data.
package fdc

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/platewise/backend/internal/domain"
)

// Client handles communication with the FoodData Central API.
type Client struct {
	rest        *resty.Client
	apiKey      string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// ClientConfig holds FDC client configuration.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// NewClient creates a FoodData Central client with a bounded request timeout
// and a small retry budget, so a hung lookup cannot stall a whole batch.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.RetryCount
	if retries <= 0 {
		retries = 3
	}

	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("User-Agent", "Platewise/1.0").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	// FDC allows 1000 requests per hour: 1000/3600 ≈ 0.278 requests/sec.
	limiter := rate.NewLimiter(rate.Limit(0.278), 10)

	return &Client{
		rest:        rest,
		apiKey:      cfg.APIKey,
		rateLimiter: limiter,
		logger:      logger,
	}
}

// SearchFoods searches the FoodData Central database by name.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) (*domain.FDCSearchResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	if limit <= 0 {
		limit = 5
	}

	var searchResp domain.FDCSearchResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key":  c.apiKey,
			"query":    query,
			"pageSize": strconv.Itoa(limit),
			// FNDDS and SR Legacy carry the portion data density needs.
			"dataType": "Survey (FNDDS),SR Legacy,Foundation",
		}).
		SetResult(&searchResp).
		Get("/v1/foods/search")
	if err != nil {
		c.logger.Warn("fdc search request failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrFoodNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn("fdc search error status",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("%w: status %d", domain.ErrExternalLookup, resp.StatusCode())
	}
	if len(searchResp.Foods) == 0 {
		return nil, domain.ErrFoodNotFound
	}

	c.logger.Debug("fdc search succeeded",
		zap.String("query", query),
		zap.Int("foods", len(searchResp.Foods)))
	return &searchResp, nil
}

// GetFood retrieves a food detail record, including portion data, by FDC ID.
func (c *Client) GetFood(ctx context.Context, fdcID int) (*domain.FDCFoodDetail, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var detail domain.FDCFoodDetail
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&detail).
		Get(fmt.Sprintf("/v1/food/%d", fdcID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrFoodNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrExternalLookup, resp.StatusCode())
	}

	return &detail, nil
}
