package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonesrussell/ppicrawl/internal/config"
)

// PageClient fetches listing/post pages and downloads image bytes.
// Retry with backoff is the client's concern; callers see only the
// final outcome.
type PageClient interface {
	GetPage(ctx context.Context, url string) ([]byte, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Client implements PageClient on top of resty with exponential
// backoff for transient failures.
type Client struct {
	http            *resty.Client
	requestTimeout  time.Duration
	downloadTimeout time.Duration
}

// NewClient creates a page client from the scraper configuration.
func NewClient(cfg config.ScraperConfig) *Client {
	rc := resty.New().
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			code := r.StatusCode()
			return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
		})

	return &Client{
		http:            rc,
		requestTimeout:  cfg.RequestTimeout,
		downloadTimeout: cfg.DownloadTimeout,
	}
}

// GetPage fetches a listing or post page.
func (c *Client) GetPage(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, c.requestTimeout)
}

// Download fetches image bytes. Downloads get a longer timeout than
// page fetches.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, c.downloadTimeout)
}

func (c *Client) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.http.R().SetContext(reqCtx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case code >= http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s returned %d", ErrPermanent, url, code)
	}

	return resp.Body(), nil
}
