package skills

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/hash/sha256"
	"github.com/quangtd/jobharvest/internal/record"
	"github.com/quangtd/jobharvest/internal/store"
)

// extractAttempts bounds retries against a flaky extractor before the job
// falls back to an empty skill list.
const extractAttempts = 2

// Enricher derives per-job skill lists from the normalized log, consulting
// the cache before the extractor.
type Enricher struct {
	extractor Extractor
	cache     Cache
	hasher    *sha256.Hasher
	logger    *zap.Logger

	// CallPause spaces extractor calls on cache misses; zero disables it.
	CallPause time.Duration
}

// NewEnricher wires an extractor and cache.
func NewEnricher(extractor Extractor, cache Cache, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		extractor: extractor,
		cache:     cache,
		hasher:    sha256.New(),
		logger:    logger,
	}
}

// BuildText assembles the extraction input from the normalized job: labeled
// sections joined by blank lines, empty sections omitted. The text is also
// the cache identity, so its layout must stay stable.
func BuildText(job record.NormalizedJob) string {
	var parts []string
	add := func(title, content string) {
		if content != "" {
			parts = append(parts, "## "+title, content)
		}
	}
	add("Job Title", job.Title)
	add("Job Description", job.Description)
	add("Requirements", strings.Join(job.Requirements, "\n"))
	return strings.Join(parts, "\n\n")
}

// Stats tallies one enrichment run.
type Stats struct {
	Jobs           int
	CacheHits      int
	ExtractorCalls int
	Failures       int
}

// Run streams the normalized log and writes one {title, skills} line per job
// to outputPath, canonicalizing each skill list. The output stays line-aligned
// with the input; jobs with no usable text get an empty skill list without an
// extractor call.
func (e *Enricher) Run(ctx context.Context, inputPath, outputPath string) (Stats, error) {
	var stats Stats

	out, err := store.CreateJSONL(outputPath)
	if err != nil {
		return stats, err
	}
	defer out.Close()

	jobs, err := store.ReadAll[record.NormalizedJob](inputPath)
	if err != nil {
		return stats, err
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Jobs++
		skills := []string{}
		if text := BuildText(job); strings.TrimSpace(text) != "" {
			skills, err = e.skillsFor(ctx, text, &stats)
			if err != nil {
				return stats, err
			}
		}
		if err := out.Append(record.JobSkills{Title: job.Title, Skills: Canonicalize(skills)}); err != nil {
			return stats, err
		}
	}
	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("failed to close %s: %w", outputPath, err)
	}
	return stats, nil
}

// skillsFor resolves the skill list for one enrichment text, preferring the
// cache. Extractor failures degrade to an empty list after bounded retries;
// only context cancellation propagates.
func (e *Enricher) skillsFor(ctx context.Context, text string, stats *Stats) ([]string, error) {
	hash, err := e.hasher.Hash([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to hash enrichment text: %w", err)
	}
	if skills, ok := e.cache.Get(hash); ok {
		stats.CacheHits++
		return skills, nil
	}

	var skills []string
	var lastErr error
	for attempt := 1; attempt <= extractAttempts; attempt++ {
		stats.ExtractorCalls++
		skills, lastErr = e.extractor.Extract(ctx, text)
		if lastErr == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("skill extraction attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
	}
	if lastErr != nil {
		stats.Failures++
		skills = []string{}
	}

	if err := e.cache.Put(hash, skills); err != nil {
		e.logger.Warn("skill cache write failed", zap.Error(err))
	}
	if e.CallPause > 0 {
		timer := time.NewTimer(e.CallPause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return skills, nil
}
