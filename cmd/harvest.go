package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/config"
	"github.com/quangtd/jobharvest/internal/crawl"
	"github.com/quangtd/jobharvest/internal/extract"
	"github.com/quangtd/jobharvest/internal/fetch"
	"github.com/quangtd/jobharvest/internal/progress"
	"github.com/quangtd/jobharvest/internal/store"
)

var harvestOnly []string

func newHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Collect raw postings from the configured sources",
		Long: `Walks each enabled source's listing pages, fetches every posting's detail
page, and appends the combined raw records to the per-source raw logs.
Sources run sequentially so each gets the full politeness budget.`,
		RunE: runHarvest,
	}
	cmd.Flags().StringSliceVar(&harvestOnly, "source", nil, "harvest only the named sources")
	return cmd
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.New()
	emitter := progress.NewLogSink(logger)
	total := 0

	for _, name := range sourceNames() {
		src := cfg.Sources[name]
		if !src.Enabled || !sourceSelected(name) {
			continue
		}

		summary, err := harvestSource(ctx, runID, emitter, name, src)
		total += summary.Collected
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Warn("harvest interrupted", zap.String("source", name))
				break
			}
			return err
		}
	}

	emitter.Emit(progress.Event{
		RunID: runID,
		TS:    time.Now().UTC(),
		Stage: progress.StageRunDone,
		Count: total,
	})
	return nil
}

func harvestSource(ctx context.Context, runID uuid.UUID, emitter progress.Emitter, name string, src config.SourceConfig) (crawl.Summary, error) {
	extractor, err := extract.New(name)
	if err != nil {
		return crawl.Summary{}, err
	}

	listing, detail, closeFetchers, err := buildFetchers(src, extractor)
	if err != nil {
		return crawl.Summary{}, fmt.Errorf("init fetchers for %s: %w", name, err)
	}
	defer closeFetchers()

	sink, err := store.OpenJSONL(cfg.RawLog(name))
	if err != nil {
		return crawl.Summary{}, err
	}
	defer sink.Close()

	controller, err := crawl.New(crawl.Config{
		ListingURL:  src.URL,
		Quota:       src.Quota,
		DetailPause: cfg.DetailPause(),
		Listing:     listing,
		Detail:      detail,
		Extractor:   extractor,
		Sink:        sink,
		RunID:       runID,
		Emitter:     emitter,
		Logger:      logger,
	})
	if err != nil {
		return crawl.Summary{}, err
	}
	return controller.Run(ctx)
}

// buildFetchers wires the listing and detail fetchers for one source. The
// rendered strategy gets a separate detail fetcher so only detail pages block
// on the source's wait selector.
func buildFetchers(src config.SourceConfig, extractor extract.Extractor) (listing, detail fetch.Fetcher, closeAll func(), err error) {
	retry := fetch.RetryPolicy{
		MaxAttempts: cfg.Fetch.MaxRetries,
		BaseDelay:   time.Duration(cfg.Fetch.BackoffInitialMs) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.Fetch.BackoffMaxMs) * time.Millisecond,
	}

	switch src.Strategy {
	case config.StrategyDirect:
		d := fetch.NewDirect(fetch.DirectConfig{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.HTTPTimeout(),
			Retry:     retry,
		}, logger)
		return d, d, func() { _ = d.Close() }, nil

	case config.StrategyRendered:
		base := fetch.RenderedConfig{
			UserAgent:   cfg.Fetch.UserAgent,
			Mode:        fetch.SessionMode(src.SessionMode),
			WaitTimeout: time.Duration(cfg.Fetch.WaitTimeoutSec) * time.Second,
			NavTimeout:  time.Duration(cfg.Fetch.NavTimeoutSec) * time.Second,
			SettleDelay: time.Duration(cfg.Fetch.SettleDelayMs) * time.Millisecond,
			Retry:       retry,
		}
		listingCfg := base
		listingCfg.ScrollSelector = extractor.ListingScrollSelector()
		listingCfg.MaxScrolls = cfg.Fetch.MaxScrolls
		listingCfg.ScrollPause = time.Duration(cfg.Fetch.ScrollPauseMs) * time.Millisecond
		listingFetcher, err := fetch.NewRendered(listingCfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		detailCfg := base
		detailCfg.WaitSelector = extractor.DetailWaitSelector()
		detailFetcher, err := fetch.NewRendered(detailCfg, logger)
		if err != nil {
			_ = listingFetcher.Close()
			return nil, nil, nil, err
		}
		closeBoth := func() {
			_ = listingFetcher.Close()
			_ = detailFetcher.Close()
		}
		return listingFetcher, detailFetcher, closeBoth, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown strategy %q", src.Strategy)
	}
}

func sourceSelected(name string) bool {
	if len(harvestOnly) == 0 {
		return true
	}
	for _, s := range harvestOnly {
		if s == name {
			return true
		}
	}
	return false
}
