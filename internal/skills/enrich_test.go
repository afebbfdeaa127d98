package skills

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangtd/jobharvest/internal/record"
	"github.com/quangtd/jobharvest/internal/store"
)

type countingExtractor struct {
	calls    int
	failures int
	skills   []string
}

func (e *countingExtractor) Extract(context.Context, string) ([]string, error) {
	e.calls++
	if e.failures > 0 {
		e.failures--
		return nil, fmt.Errorf("upstream unavailable")
	}
	return e.skills, nil
}

func writeNormalized(t *testing.T, path string, jobs ...record.NormalizedJob) {
	t.Helper()
	w, err := store.CreateJSONL(path)
	require.NoError(t, err)
	for _, job := range jobs {
		require.NoError(t, w.Append(job))
	}
	require.NoError(t, w.Close())
}

func TestBuildTextOmitsEmptySections(t *testing.T) {
	t.Parallel()

	text := BuildText(record.NormalizedJob{
		Title:        "Backend Developer",
		Requirements: []string{"Golang", "Docker"},
	})
	assert.Equal(t, "## Job Title\n\nBackend Developer\n\n## Requirements\n\nGolang\nDocker", text)

	assert.Equal(t, "", BuildText(record.NormalizedJob{}))
}

func TestEnricherCachesByContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "normalized.jsonl")
	job := record.NormalizedJob{Title: "Backend Developer", Description: "Go services"}
	// Two identical jobs plus one distinct one.
	writeNormalized(t, input, job, job, record.NormalizedJob{Title: "QA Engineer"})

	extractor := &countingExtractor{skills: []string{"golang", "docker"}}
	cache := OpenFileCache(filepath.Join(dir, "cache.json"), nil)
	enricher := NewEnricher(extractor, cache, nil)

	output := filepath.Join(dir, "skills.jsonl")
	stats, err := enricher.Run(context.Background(), input, output)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Jobs)
	assert.Equal(t, 1, stats.CacheHits)
	// One call per distinct text.
	assert.Equal(t, 2, extractor.calls)

	rows, err := store.ReadAll[record.JobSkills](output)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Golang", "Docker"}, rows[0].Skills)

	// A rerun with a warm cache never calls the extractor.
	extractor.calls = 0
	stats, err = NewEnricher(extractor, OpenFileCache(filepath.Join(dir, "cache.json"), nil), nil).
		Run(context.Background(), input, output)
	require.NoError(t, err)
	assert.Equal(t, 0, extractor.calls)
	assert.Equal(t, 3, stats.CacheHits)
}

func TestEnricherKeepsLineAlignmentForEmptyJobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "normalized.jsonl")
	// The blank middle job must still produce an output line so the skills
	// log stays line-aligned with the normalized log for the merge stage.
	writeNormalized(t, input,
		record.NormalizedJob{Title: "Backend Developer", Description: "Go services"},
		record.NormalizedJob{},
		record.NormalizedJob{Title: "QA Engineer"},
	)

	extractor := &countingExtractor{skills: []string{"golang"}}
	enricher := NewEnricher(extractor, OpenFileCache(filepath.Join(dir, "cache.json"), nil), nil)

	output := filepath.Join(dir, "skills.jsonl")
	stats, err := enricher.Run(context.Background(), input, output)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Jobs)
	// The blank job never reaches the extractor.
	assert.Equal(t, 2, extractor.calls)

	rows, err := store.ReadAll[record.JobSkills](output)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Golang"}, rows[0].Skills)
	assert.Empty(t, rows[1].Skills)
	assert.Empty(t, rows[1].Title)
}

func TestEnricherRetriesThenEmptyList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "normalized.jsonl")
	writeNormalized(t, input, record.NormalizedJob{Title: "Backend Developer"})

	extractor := &countingExtractor{failures: 5}
	enricher := NewEnricher(extractor, OpenFileCache(filepath.Join(dir, "cache.json"), nil), nil)

	output := filepath.Join(dir, "skills.jsonl")
	stats, err := enricher.Run(context.Background(), input, output)
	require.NoError(t, err)
	assert.Equal(t, 2, extractor.calls)
	assert.Equal(t, 1, stats.Failures)

	rows, err := store.ReadAll[record.JobSkills](output)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Skills)
}

func TestEnricherRecoversOnSecondAttempt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "normalized.jsonl")
	writeNormalized(t, input, record.NormalizedJob{Title: "Backend Developer"})

	extractor := &countingExtractor{failures: 1, skills: []string{"python"}}
	enricher := NewEnricher(extractor, OpenFileCache(filepath.Join(dir, "cache.json"), nil), nil)

	stats, err := enricher.Run(context.Background(), input, filepath.Join(dir, "skills.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 2, extractor.calls)
	assert.Equal(t, 0, stats.Failures)
}

func TestFileCachePersistsAcrossOpens(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.json")
	first := OpenFileCache(path, nil)
	require.NoError(t, first.Put("abc", []string{"Golang"}))
	require.NoError(t, first.Put("def", nil))

	second := OpenFileCache(path, nil)
	assert.Equal(t, 2, second.Len())
	skills, ok := second.Get("abc")
	require.True(t, ok)
	assert.Equal(t, []string{"Golang"}, skills)
	skills, ok = second.Get("def")
	require.True(t, ok)
	assert.Empty(t, skills)
}

func TestVocabExtractor(t *testing.T) {
	t.Parallel()

	got, err := NewVocabExtractor().Extract(context.Background(), "We use Python, Docker and machine learning daily")
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "docker", "machine learning"}, got)

	got, err = NewVocabExtractor().Extract(context.Background(), "Nothing relevant here")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseSkillArrayStripsFences(t *testing.T) {
	t.Parallel()

	got, err := parseSkillArray("```json\n[\"Golang\", \"Docker\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Golang", "Docker"}, got)

	_, err = parseSkillArray("not json")
	assert.Error(t, err)
}
