package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// SessionMode selects the browser session lifecycle for a rendered fetcher.
type SessionMode string

// Session lifecycle policies.
const (
	// SessionPersistent keeps one browser tab alive across fetches; it is
	// created on first use and closed exactly once by Close.
	SessionPersistent SessionMode = "persistent"
	// SessionEphemeral opens a fresh tab per fetch attempt and tears it down
	// on every exit path.
	SessionEphemeral SessionMode = "ephemeral"
)

// RenderedConfig controls the chromedp-backed fetcher.
type RenderedConfig struct {
	UserAgent    string
	Mode         SessionMode
	WaitSelector string
	WaitTimeout  time.Duration
	NavTimeout   time.Duration
	SettleDelay  time.Duration
	Retry        RetryPolicy

	// ScrollSelector enables scroll-to-exhaustion for pages that lazy-load
	// items: after navigation the page is scrolled to the bottom until the
	// count of elements matching this selector (and the page height) stops
	// growing, bounded by MaxScrolls. Empty disables scrolling.
	ScrollSelector string
	MaxScrolls     int
	ScrollPause    time.Duration
}

// Rendered drives a headless browser and returns the DOM after client-side
// rendering has settled. If WaitSelector is set, each fetch blocks (bounded
// by WaitTimeout) until that element is visible before reading the page.
type Rendered struct {
	cfg         RenderedConfig
	logger      *zap.Logger
	allocator   context.Context
	allocCancel context.CancelFunc
	pause       func(ctx context.Context, d time.Duration)

	mu        sync.Mutex
	tab       context.Context
	tabCancel context.CancelFunc
	closed    bool
}

// NewRendered builds a Rendered fetcher and its browser allocator. Persistent
// sessions create the tab lazily on first fetch.
func NewRendered(cfg RenderedConfig, logger *zap.Logger) (*Rendered, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Mode == "" {
		cfg.Mode = SessionPersistent
	}
	if cfg.Mode != SessionPersistent && cfg.Mode != SessionEphemeral {
		return nil, fmt.Errorf("unknown session mode %q", cfg.Mode)
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 12 * time.Second
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 45 * time.Second
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 1500 * time.Millisecond
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	if cfg.ScrollSelector != "" {
		if cfg.MaxScrolls <= 0 {
			cfg.MaxScrolls = 5
		}
		if cfg.ScrollPause <= 0 {
			cfg.ScrollPause = 2 * time.Second
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Rendered{
		cfg:         cfg,
		logger:      logger,
		allocator:   allocCtx,
		allocCancel: allocCancel,
		pause:       sleep,
	}, nil
}

// Fetch navigates with the headless browser, retrying failed attempts up to
// the policy bound.
func (r *Rendered) Fetch(ctx context.Context, url string) (*PageContent, error) {
	attempts := r.cfg.Retry.Attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		page, err := r.fetchOnce(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err
		r.logger.Warn("rendered fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.String("mode", string(r.cfg.Mode)),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
		// A persistent tab that errored may be wedged; start the next
		// attempt on a fresh one.
		r.dropPersistentTab()
		if attempt < attempts {
			r.pause(ctx, r.cfg.Retry.Backoff())
		}
	}
	return nil, &Error{URL: url, Attempts: attempts, Err: lastErr}
}

// Close tears the browser down exactly once.
func (r *Rendered) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.tabCancel != nil {
		r.tabCancel()
		r.tab = nil
		r.tabCancel = nil
	}
	r.allocCancel()
	return nil
}

func (r *Rendered) fetchOnce(ctx context.Context, url string) (*PageContent, error) {
	tabCtx, release, err := r.acquireTab()
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()

	navCtx, cancelNav := context.WithTimeout(tabCtx, r.cfg.NavTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx, r.sessionSetup(), chromedp.Navigate(url)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	if r.cfg.WaitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(tabCtx, r.cfg.WaitTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible(r.cfg.WaitSelector, chromedp.ByQuery))
		cancelWait()
		if err != nil {
			return nil, fmt.Errorf("wait for %q on %s: %w", r.cfg.WaitSelector, url, err)
		}
	}

	if r.cfg.ScrollSelector != "" {
		scrollCtx, cancelScroll := context.WithTimeout(tabCtx, r.cfg.NavTimeout)
		err := chromedp.Run(scrollCtx, r.scrollToExhaustion())
		cancelScroll()
		if err != nil {
			return nil, fmt.Errorf("scroll %s: %w", url, err)
		}
	}

	var html, finalURL string
	readCtx, cancelRead := context.WithTimeout(tabCtx, r.cfg.NavTimeout)
	defer cancelRead()
	err = chromedp.Run(readCtx,
		chromedp.Sleep(r.cfg.SettleDelay),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("read rendered page %s: %w", url, err)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("rendered fetch canceled: %w", ctx.Err())
	}

	return newPageContent(finalURL, 200, []byte(html), time.Since(start))
}

// acquireTab returns the tab context for one attempt plus its release func.
// Ephemeral mode hands out a fresh tab whose release tears it down; the
// persistent tab's release is a no-op, the tab outlives the attempt.
func (r *Rendered) acquireTab() (context.Context, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, nil, fmt.Errorf("fetcher is closed")
	}

	if r.cfg.Mode == SessionEphemeral {
		tab, cancel := chromedp.NewContext(r.allocator)
		return tab, cancel, nil
	}

	if r.tab == nil {
		r.tab, r.tabCancel = chromedp.NewContext(r.allocator)
	}
	return r.tab, func() {}, nil
}

func (r *Rendered) dropPersistentTab() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.Mode != SessionPersistent || r.tabCancel == nil {
		return
	}
	r.tabCancel()
	r.tab = nil
	r.tabCancel = nil
}

// scrollToExhaustion scrolls to the bottom until neither the page height nor
// the number of ScrollSelector matches grows, up to MaxScrolls passes. Pages
// that lazy-load listing cards only materialize them on scroll.
func (r *Rendered) scrollToExhaustion() chromedp.Action {
	countExpr := fmt.Sprintf("document.querySelectorAll(%q).length", r.cfg.ScrollSelector)
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var lastHeight, lastCount int
		if err := chromedp.Evaluate("document.body.scrollHeight", &lastHeight).Do(ctx); err != nil {
			return fmt.Errorf("measure page height: %w", err)
		}
		for i := 0; i < r.cfg.MaxScrolls; i++ {
			if err := chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil).Do(ctx); err != nil {
				return fmt.Errorf("scroll to bottom: %w", err)
			}
			if err := chromedp.Sleep(r.cfg.ScrollPause).Do(ctx); err != nil {
				return err
			}
			var height, count int
			if err := chromedp.Evaluate("document.body.scrollHeight", &height).Do(ctx); err != nil {
				return fmt.Errorf("measure page height: %w", err)
			}
			if err := chromedp.Evaluate(countExpr, &count).Do(ctx); err != nil {
				return fmt.Errorf("count %q: %w", r.cfg.ScrollSelector, err)
			}
			if height == lastHeight && count == lastCount {
				break
			}
			lastHeight, lastCount = height, count
		}
		return nil
	})
}

func (r *Rendered) sessionSetup() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if err := emulation.SetUserAgentOverride(r.cfg.UserAgent).Do(ctx); err != nil {
			return fmt.Errorf("set user-agent: %w", err)
		}
		return nil
	})
}
