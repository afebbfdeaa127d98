package cmd

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/skills"
)

func newEnrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Extract per-job skill lists from the normalized dataset",
		Long: `Builds one skill list per normalized job. With GEMINI_API_KEY set the
skills come from the Gemini model; otherwise a built-in vocabulary match is
used. Results are cached by content hash so reruns only pay for new jobs.`,
		RunE: runEnrich,
	}
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	// A local .env is a convenience, not a requirement.
	_ = godotenv.Load()

	ctx := cmd.Context()
	var extractor skills.Extractor
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gem, err := skills.NewGeminiExtractor(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return err
		}
		defer gem.Close()
		extractor = gem
	} else {
		logger.Info("GEMINI_API_KEY not set, using vocabulary matcher")
		extractor = skills.NewVocabExtractor()
	}

	cache := skills.OpenFileCache(cfg.SkillCache(), logger)
	enricher := skills.NewEnricher(extractor, cache, logger)
	enricher.CallPause = time.Duration(cfg.Gemini.CallPauseMs) * time.Millisecond

	stats, err := enricher.Run(ctx, cfg.NormalizedLog(), cfg.SkillsLog())
	if err != nil {
		return err
	}
	logger.Info("enrichment complete",
		zap.Int("jobs", stats.Jobs),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("extractor_calls", stats.ExtractorCalls),
		zap.Int("failures", stats.Failures),
		zap.String("output", cfg.SkillsLog()))
	return nil
}
