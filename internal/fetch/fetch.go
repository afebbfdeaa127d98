// Package fetch acquires rendered page content through one of two strategies:
// a direct HTTP fetch via Colly, or a full browser render via chromedp. Both
// share the same bounded-retry contract and return a parsed document.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageContent is the result of a successful fetch: the final URL, the raw
// HTML, and a parsed document for selector queries.
type PageContent struct {
	URL        string
	StatusCode int
	HTML       []byte
	Doc        *goquery.Document
	Duration   time.Duration
}

// Fetcher fetches one URL. Implementations retry internally and return *Error
// once the attempt budget is exhausted; callers decide whether that failure
// is fatal for their unit of work.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*PageContent, error)
	Close() error
}

// Error is the terminal fetch failure emitted after all retries failed.
type Error struct {
	URL      string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newPageContent(url string, status int, html []byte, dur time.Duration) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &PageContent{
		URL:        url,
		StatusCode: status,
		HTML:       html,
		Doc:        doc,
		Duration:   dur,
	}, nil
}

// sleep blocks for d or until the context finishes.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
