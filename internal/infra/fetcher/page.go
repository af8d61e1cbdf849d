// Package fetcher fetches web pages and extracts the text a user would select:
// the nodes matching a CSS selector, or the readable article body.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"quickmind/internal/observability/metrics"
	"quickmind/internal/resilience/circuitbreaker"
)

// Page is a fetched HTML document.
type Page struct {
	URL  *url.URL
	HTML []byte
}

// PageFetcher downloads pages with SSRF validation, size limits and a circuit breaker.
// It is safe for concurrent use.
type PageFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
	logger         *slog.Logger
}

// NewPageFetcher creates a PageFetcher. Every redirect target is validated
// the same way as the initial URL.
func NewPageFetcher(config Config) *PageFetcher {
	f := &PageFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageFetchConfig()),
		config:         config,
		logger:         slog.Default(),
	}

	f.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.Context(), req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchText returns the text of the page at urlStr. With a non-empty selector
// the text of the matching nodes is returned, otherwise the readable article
// body. ErrEmptySelection is returned when nothing but whitespace is found.
func (f *PageFetcher) FetchText(ctx context.Context, urlStr, selector string) (string, error) {
	page, err := f.Fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}
	if selector != "" {
		return ExtractSelection(page.HTML, selector)
	}
	return ExtractArticle(page.HTML, page.URL)
}

// Fetch downloads the page at urlStr through the circuit breaker.
func (f *PageFetcher) Fetch(ctx context.Context, urlStr string) (*Page, error) {
	if err := validateURL(ctx, urlStr, f.config.DenyPrivateIPs); err != nil {
		metrics.RecordPageFetch(false)
		return nil, err
	}

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	metrics.RecordPageFetch(err == nil)
	if err != nil {
		f.logger.Warn("page fetch failed",
			slog.String("url", urlStr),
			slog.String("circuit_state", f.circuitBreaker.State().String()),
			slog.Any("error", err))
		return nil, err
	}
	return result.(*Page), nil
}

func (f *PageFetcher) doFetch(ctx context.Context, urlStr string) (*Page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	// Read one byte past the limit to detect oversized bodies without trusting Content-Length.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response size exceeds limit %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	page := &Page{HTML: body}
	if resp.Request != nil && resp.Request.URL != nil {
		page.URL = resp.Request.URL
	} else if parsed, err := url.Parse(urlStr); err == nil {
		page.URL = parsed
	}
	return page, nil
}
