package skills

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Cache maps an enrichment-text hash to the skills previously extracted for
// that exact text.
type Cache interface {
	Get(hash string) ([]string, bool)
	Put(hash string, skills []string) error
}

// FileCache is a whole-file JSON cache: the file is read once at open and
// rewritten after every Put. The in-memory map is authoritative within a run;
// a persistence failure costs durability for the next run, not correctness of
// this one.
type FileCache struct {
	path   string
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string][]string
}

// OpenFileCache loads the cache file. A missing or unreadable file starts the
// cache empty and is logged, never fatal.
func OpenFileCache(path string, logger *zap.Logger) *FileCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &FileCache{path: path, logger: logger, entries: map[string][]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("skill cache unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		logger.Warn("skill cache corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		c.entries = map[string][]string{}
	}
	return c
}

// Get returns the cached skills for hash.
func (c *FileCache) Get(hash string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	skills, ok := c.entries[hash]
	return skills, ok
}

// Put stores the entry and rewrites the cache file. The entry stays in memory
// even when the write fails.
func (c *FileCache) Put(hash string, skills []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if skills == nil {
		skills = []string{}
	}
	c.entries[hash] = skills

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode skill cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write skill cache: %w", err)
	}
	return nil
}

// Len reports the number of cached entries.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
