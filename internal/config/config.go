// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Strategy names for source fetching.
const (
	StrategyDirect   = "direct"
	StrategyRendered = "rendered"
)

// Session mode names for the rendered strategy.
const (
	SessionPersistent = "persistent"
	SessionEphemeral  = "ephemeral"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Logging LoggingConfig           `mapstructure:"logging"`
	Paths   PathsConfig             `mapstructure:"paths"`
	Fetch   FetchConfig             `mapstructure:"fetch"`
	Gemini  GeminiConfig            `mapstructure:"gemini"`
	Sources map[string]SourceConfig `mapstructure:"sources"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// PathsConfig sets where the pipeline stages read and write their files.
type PathsConfig struct {
	RawDir        string `mapstructure:"raw_dir"`
	ProcessedDir  string `mapstructure:"processed_dir"`
	DashboardFile string `mapstructure:"dashboard_file"`
}

// FetchConfig configures fetch retry and pacing behavior for every source.
type FetchConfig struct {
	UserAgent        string `mapstructure:"user_agent"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	MaxRetries       int    `mapstructure:"max_retries"`
	BackoffInitialMs int    `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int    `mapstructure:"backoff_max_ms"`
	DetailPauseMs    int    `mapstructure:"detail_pause_ms"`
	NavTimeoutSec    int    `mapstructure:"nav_timeout_seconds"`
	WaitTimeoutSec   int    `mapstructure:"wait_timeout_seconds"`
	SettleDelayMs    int    `mapstructure:"settle_delay_ms"`
	MaxScrolls       int    `mapstructure:"max_scrolls"`
	ScrollPauseMs    int    `mapstructure:"scroll_pause_ms"`
}

// GeminiConfig configures the AI skill extractor. The API key itself comes
// from the environment, never the config file.
type GeminiConfig struct {
	Model       string `mapstructure:"model"`
	CallPauseMs int    `mapstructure:"call_pause_ms"`
}

// SourceConfig is one listing site's harvest settings.
type SourceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Quota   int    `mapstructure:"quota"`
	// Strategy picks how listing and detail pages are fetched.
	Strategy string `mapstructure:"strategy"`
	// SessionMode applies to the rendered strategy only.
	SessionMode string `mapstructure:"session_mode"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBHARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("paths.raw_dir", "raw_data")
	v.SetDefault("paths.processed_dir", "processed_data")
	v.SetDefault("paths.dashboard_file", "dashboard/src/data/jobs.json")
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("fetch.max_retries", 2)
	v.SetDefault("fetch.backoff_initial_ms", 1000)
	v.SetDefault("fetch.backoff_max_ms", 2000)
	v.SetDefault("fetch.detail_pause_ms", 1200)
	v.SetDefault("fetch.nav_timeout_seconds", 45)
	v.SetDefault("fetch.wait_timeout_seconds", 12)
	v.SetDefault("fetch.settle_delay_ms", 1500)
	v.SetDefault("fetch.max_scrolls", 5)
	v.SetDefault("fetch.scroll_pause_ms", 2000)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.call_pause_ms", 1000)

	v.SetDefault("sources.itviec.enabled", true)
	v.SetDefault("sources.itviec.url", "https://itviec.com/it-jobs")
	v.SetDefault("sources.itviec.quota", 500)
	v.SetDefault("sources.itviec.strategy", StrategyRendered)
	v.SetDefault("sources.itviec.session_mode", SessionEphemeral)

	v.SetDefault("sources.topcv.enabled", true)
	v.SetDefault("sources.topcv.url", "https://www.topcv.vn/tim-viec-lam-cong-nghe-thong-tin-cr257?type_keyword=1&sba=1&category_family=r257&saturday_status=0")
	v.SetDefault("sources.topcv.quota", 500)
	v.SetDefault("sources.topcv.strategy", StrategyRendered)
	v.SetDefault("sources.topcv.session_mode", SessionEphemeral)

	v.SetDefault("sources.vietnamworks.enabled", true)
	v.SetDefault("sources.vietnamworks.url", "https://www.vietnamworks.com/viec-lam?g=5&ignoreLocation=true")
	v.SetDefault("sources.vietnamworks.quota", 500)
	v.SetDefault("sources.vietnamworks.strategy", StrategyRendered)
	v.SetDefault("sources.vietnamworks.session_mode", SessionPersistent)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Paths.RawDir == "" {
		return fmt.Errorf("paths.raw_dir must be set")
	}
	if c.Paths.ProcessedDir == "" {
		return fmt.Errorf("paths.processed_dir must be set")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.MaxRetries <= 0 {
		return fmt.Errorf("fetch.max_retries must be > 0")
	}
	for name, src := range c.Sources {
		if !src.Enabled {
			continue
		}
		if src.URL == "" {
			return fmt.Errorf("sources.%s.url must be set", name)
		}
		if src.Quota <= 0 {
			return fmt.Errorf("sources.%s.quota must be > 0", name)
		}
		switch src.Strategy {
		case StrategyDirect, StrategyRendered:
		default:
			return fmt.Errorf("sources.%s.strategy must be %q or %q", name, StrategyDirect, StrategyRendered)
		}
		if src.Strategy == StrategyRendered {
			switch src.SessionMode {
			case SessionPersistent, SessionEphemeral:
			default:
				return fmt.Errorf("sources.%s.session_mode must be %q or %q", name, SessionPersistent, SessionEphemeral)
			}
		}
	}
	return nil
}

// HTTPTimeout converts the fetch timeout to a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// DetailPause converts the politeness delay to a duration.
func (c Config) DetailPause() time.Duration {
	return time.Duration(c.Fetch.DetailPauseMs) * time.Millisecond
}

// RawLog names the raw log file for one source.
func (c Config) RawLog(source string) string {
	return filepath.Join(c.Paths.RawDir, source+"_raw.jsonl")
}

// NormalizedLog names the canonical job log.
func (c Config) NormalizedLog() string {
	return filepath.Join(c.Paths.ProcessedDir, "normalized_jobs.jsonl")
}

// SkillsLog names the per-job skills log written by the enrich stage.
func (c Config) SkillsLog() string {
	return filepath.Join(c.Paths.ProcessedDir, "job_skills.jsonl")
}

// SkillCache names the enrichment cache file.
func (c Config) SkillCache() string {
	return filepath.Join(c.Paths.ProcessedDir, "skill_cache.json")
}

// MergedLog names the normalized-with-skills log.
func (c Config) MergedLog() string {
	return filepath.Join(c.Paths.ProcessedDir, "normalized_jobs_with_skills.jsonl")
}

// FlatLog names the flattened (job, skill) JSONL table.
func (c Config) FlatLog() string {
	return filepath.Join(c.Paths.ProcessedDir, "job_skills_flat.jsonl")
}

// FlatCSV names the CSV export of the flat table.
func (c Config) FlatCSV() string {
	return filepath.Join(c.Paths.ProcessedDir, "job_skills_flat.csv")
}
