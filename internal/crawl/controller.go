// Package crawl drives the listing-page walk for one source: paginate, pull
// each posting's detail page, and persist the combined raw record until the
// collection quota is met or the source runs dry.
package crawl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/clock/system"
	"github.com/quangtd/jobharvest/internal/extract"
	"github.com/quangtd/jobharvest/internal/fetch"
	"github.com/quangtd/jobharvest/internal/progress"
	"github.com/quangtd/jobharvest/internal/record"
)

// defaultDetailPause spaces detail fetches so a run never hammers a source.
const defaultDetailPause = 1200 * time.Millisecond

// StopReason records why a source walk ended.
type StopReason string

// The ways a source walk terminates.
const (
	StopQuotaMet        StopReason = "quota_met"
	StopSourceExhausted StopReason = "source_exhausted"
	StopListingFailed   StopReason = "listing_failed"
)

// Summary is the per-source tally returned from Run.
type Summary struct {
	Source         string
	Collected      int
	Pages          int
	Skipped        int
	DetailFailures int
	Stop           StopReason
}

// Sink persists one raw record per accepted posting. *store.JSONL satisfies it.
type Sink interface {
	Append(v any) error
}

type clock interface {
	Now() time.Time
}

// Config wires one source walk.
type Config struct {
	// ListingURL is the page-1 search URL for the source.
	ListingURL string
	// Quota is the number of postings to collect before stopping.
	Quota int
	// DetailPause overrides the politeness delay between detail fetches.
	DetailPause time.Duration

	Listing   fetch.Fetcher
	Detail    fetch.Fetcher
	Extractor extract.Extractor
	Sink      Sink

	RunID   uuid.UUID
	Emitter progress.Emitter
	Logger  *zap.Logger
	Clock   clock
}

// Controller walks one source's listing pages.
type Controller struct {
	cfg    Config
	logger *zap.Logger
	emit   progress.Emitter
	clk    clock
	pause  pauseController
}

// New validates the wiring and returns a Controller.
func New(cfg Config) (*Controller, error) {
	if cfg.ListingURL == "" {
		return nil, fmt.Errorf("listing URL is required")
	}
	if cfg.Quota <= 0 {
		return nil, fmt.Errorf("quota must be positive")
	}
	if cfg.Listing == nil || cfg.Detail == nil {
		return nil, fmt.Errorf("listing and detail fetchers are required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if cfg.DetailPause == 0 {
		cfg.DetailPause = defaultDetailPause
	}
	c := &Controller{
		cfg:    cfg,
		logger: cfg.Logger,
		emit:   cfg.Emitter,
		clk:    cfg.Clock,
		pause:  &timerPauseController{},
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.emit == nil {
		c.emit = progress.Nop{}
	}
	if c.clk == nil {
		c.clk = system.New()
	}
	return c, nil
}

// PageURL appends the page parameter to the base listing URL. Page 1 is the
// bare URL so the source's canonical first page stays cacheable.
func PageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", base, sep, page)
}

// Run walks listing pages until the quota is met, the source is exhausted, or
// a listing page fails. Detail failures skip the posting and keep walking.
// On context cancellation the summary so far is returned with ctx's error.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	source := c.cfg.Extractor.Source()
	summary := Summary{Source: source}

	c.event(progress.StageSourceStart, c.cfg.ListingURL, 0, "")
	c.logger.Info("source walk started",
		zap.String("source", source),
		zap.String("url", c.cfg.ListingURL),
		zap.Int("quota", c.cfg.Quota))

	for page := 1; ; page++ {
		// The quota can be met exactly at a page boundary; checking here
		// keeps the walk from fetching a listing page it will not use.
		if summary.Collected >= c.cfg.Quota {
			return c.finish(summary, StopQuotaMet), nil
		}

		url := PageURL(c.cfg.ListingURL, page)
		listingPage, err := c.cfg.Listing.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return c.finish(summary, StopListingFailed), ctx.Err()
			}
			c.logger.Warn("listing page failed",
				zap.String("source", source),
				zap.String("url", url),
				zap.Error(err))
			return c.finish(summary, StopListingFailed), nil
		}
		summary.Pages++

		listings := c.cfg.Extractor.ExtractListings(listingPage)
		if len(listings) == 0 {
			return c.finish(summary, StopSourceExhausted), nil
		}

		for _, listing := range listings {
			if err := ctx.Err(); err != nil {
				return c.finish(summary, StopSourceExhausted), err
			}
			if summary.Collected >= c.cfg.Quota {
				return c.finish(summary, StopQuotaMet), nil
			}
			// A sink failure means nothing further can be persisted;
			// abort without a stop reason.
			if err := c.collect(ctx, listing, &summary); err != nil {
				return summary, err
			}
		}
	}
}

// collect fetches one posting's detail page and persists the raw record.
// Fetch and extraction problems are tallied, not returned; only a sink
// failure aborts the walk.
func (c *Controller) collect(ctx context.Context, listing record.ListingSummary, summary *Summary) error {
	source := c.cfg.Extractor.Source()
	if listing.DetailURL == "" {
		summary.Skipped++
		c.logger.Debug("listing without detail url skipped",
			zap.String("source", source),
			zap.String("title", listing.Title))
		return nil
	}

	detailPage, err := c.cfg.Detail.Fetch(ctx, listing.DetailURL)
	if err != nil {
		summary.DetailFailures++
		c.event(progress.StageItemFailed, listing.DetailURL, summary.Collected, err.Error())
		c.logger.Warn("detail page failed",
			zap.String("source", source),
			zap.String("url", listing.DetailURL),
			zap.Error(err))
		return nil
	}

	rec := record.RawScrapeRecord{
		Platform:  source,
		Listing:   listing,
		Detail:    c.cfg.Extractor.ExtractDetail(detailPage),
		Timestamp: c.clk.Now().Unix(),
	}
	if err := c.cfg.Sink.Append(rec); err != nil {
		return fmt.Errorf("failed to persist record for %s: %w", listing.DetailURL, err)
	}
	summary.Collected++
	c.event(progress.StageItemSaved, listing.DetailURL, summary.Collected, "")

	c.pause.Pause(ctx, c.cfg.DetailPause)
	return nil
}

func (c *Controller) finish(summary Summary, stop StopReason) Summary {
	summary.Stop = stop
	c.event(progress.StageSourceDone, c.cfg.ListingURL, summary.Collected, string(stop))
	c.logger.Info("source walk finished",
		zap.String("source", summary.Source),
		zap.Int("collected", summary.Collected),
		zap.Int("pages", summary.Pages),
		zap.Int("skipped", summary.Skipped),
		zap.Int("detail_failures", summary.DetailFailures),
		zap.String("stop", string(stop)))
	return summary
}

func (c *Controller) event(stage progress.Stage, url string, count int, note string) {
	c.emit.Emit(progress.Event{
		RunID:  c.cfg.RunID,
		TS:     c.clk.Now().UTC(),
		Stage:  stage,
		Source: c.cfg.Extractor.Source(),
		URL:    url,
		Count:  count,
		Note:   note,
	})
}
