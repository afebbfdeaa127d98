package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// DefaultUserAgent is the browser identity presented to the listing sites.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// DirectConfig controls the Colly-backed fetcher.
type DirectConfig struct {
	UserAgent string
	Timeout   time.Duration
	Retry     RetryPolicy
}

// Direct fetches pages with plain HTTP requests through a Colly collector,
// presenting a fixed browser-like header set. Suited to sources that serve
// complete HTML without client-side rendering.
type Direct struct {
	cfg    DirectConfig
	base   *colly.Collector
	logger *zap.Logger
	pause  func(ctx context.Context, d time.Duration)
}

// NewDirect builds a Direct fetcher.
func NewDirect(cfg DirectConfig, logger *zap.Logger) *Direct {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	c.WithTransport(newHTTPTransport())

	return &Direct{
		cfg:    cfg,
		base:   c,
		logger: logger,
		pause:  sleep,
	}
}

// Fetch issues the request, retrying with a randomized backoff until the
// attempt budget runs out.
func (d *Direct) Fetch(ctx context.Context, url string) (*PageContent, error) {
	attempts := d.cfg.Retry.Attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		page, err := d.fetchOnce(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err
		d.logger.Warn("direct fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			d.pause(ctx, d.cfg.Retry.Backoff())
		}
	}
	return nil, &Error{URL: url, Attempts: attempts, Err: lastErr}
}

// Close satisfies Fetcher; the direct strategy holds no session state.
func (d *Direct) Close() error {
	return nil
}

func (d *Direct) fetchOnce(ctx context.Context, url string) (*PageContent, error) {
	collector := d.base.Clone()
	collector.UserAgent = d.cfg.UserAgent
	collector.SetRequestTimeout(d.cfg.Timeout)

	var (
		body     []byte
		status   int
		finalURL string
		fetchErr error
	)
	start := time.Now()

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9,vi;q=0.8")
	})
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
		finalURL = r.Request.URL.String()
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("visit %s: %w", url, err)
		}
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("response for %s (status %d): %w", url, status, fetchErr)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body for %s (status %d)", url, status)
	}
	return newPageContent(finalURL, status, body, time.Since(start))
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
