package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	defaultMaxRetries = 3
	defaultTimeout    = 30 * time.Second
	defaultRetryWait  = 2 * time.Second
)

// Page is a fetched listing page
type Page struct {
	// URL is the location the content was finally served from
	URL string
	Doc *goquery.Document
}

// PageFetcher retrieves and parses a listing page
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// FetcherOptions configures an HTTPFetcher
type FetcherOptions struct {
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
}

// HTTPFetcher fetches pages over HTTP with retry logic
type HTTPFetcher struct {
	Client     *http.Client
	Logger     *zap.Logger
	Headers    map[string]string
	MaxRetries int
	RetryWait  time.Duration
}

// NewHTTPFetcher creates a fetcher. A zero Timeout or MaxRetries falls back to the default,
// a negative RetryWait to the default wait.
func NewHTTPFetcher(opts FetcherOptions, log *zap.Logger) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryWait < 0 {
		opts.RetryWait = defaultRetryWait
	}

	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: opts.Timeout,
		},
		Logger:     log.Named("fetcher"),
		Headers:    getDefaultHeaders(),
		MaxRetries: opts.MaxRetries,
		RetryWait:  opts.RetryWait,
	}
}

// Fetch retrieves the page at url and parses it into a document
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	var lastErr error

	for attempt := 1; attempt <= f.MaxRetries; attempt++ {
		content, finalURL, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
			if err != nil {
				return nil, fmt.Errorf("failed to parse HTML: %w", err)
			}

			f.Logger.Debug("Successfully fetched URL",
				zap.String("url", url),
				zap.Int("content_length", len(content)))

			return &Page{URL: finalURL, Doc: doc}, nil
		}

		lastErr = err
		if !retryable {
			return nil, err
		}

		f.Logger.Warn("Fetch attempt failed",
			zap.Error(err),
			zap.String("url", url),
			zap.Int("attempt", attempt))

		if attempt < f.MaxRetries {
			select {
			case <-time.After(f.RetryWait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("failed to fetch URL after %d attempts: %w", f.MaxRetries, lastErr)
}

// fetchOnce performs a single request and reports whether a failure is worth retrying
func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) ([]byte, string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range f.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, "", ctx.Err() == nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
		return nil, "", retryable, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", true, fmt.Errorf("failed to read response body: %w", err)
	}

	return content, resp.Request.URL.String(), false, nil
}

// getDefaultHeaders returns common headers for HTTP requests
func getDefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "de-AT,de;q=0.9,en;q=0.5",
		"Cache-Control":   "no-cache",
		"Pragma":          "no-cache",
	}
}
