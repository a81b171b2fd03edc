// Package config loads and validates the pipeline configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/goslate/internal/filter"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/timeutil"
)

// ErrInvalidConfig is the sentinel wrapped by all validation failures.
// Callers treat any error wrapping it as fatal to the run.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default values applied when the config file and environment are silent.
const (
	DefaultMaxRetries       = 2
	DefaultQualityThreshold = 0.6
	DefaultMaxPosts         = 50
	DefaultMinDelay         = time.Second
	DefaultMaxDelay         = 3 * time.Second
	DefaultModel            = "gemini-2.0-flash"
	DefaultMaxTokens        = 500
	DefaultExportDir        = "data/exports"
	DefaultArchivePath      = "data/goslate.db"
)

// PlatformConfig describes one target platform.
type PlatformConfig struct {
	// Name is the platform identifier (e.g. "twitter", "reddit").
	Name string `mapstructure:"name"`
	// Enabled toggles the platform for scraping and planning.
	Enabled bool `mapstructure:"enabled"`
	// PostsPerDay is the slot quota for the platform.
	PostsPerDay int `mapstructure:"posts_per_day"`
	// TimeWindows are the optimal UK-local posting times ("HH:MM"),
	// in ascending order.
	TimeWindows []string `mapstructure:"time_windows"`
	// MaxChars is the platform character limit.
	MaxChars int `mapstructure:"max_chars"`
	// MinChars is the floor below which generated posts are rejected.
	MinChars int `mapstructure:"min_chars"`
	// ContentTypes is the content-type mix cycled across the day's slots.
	ContentTypes []string `mapstructure:"content_types"`
}

// ScrapingConfig controls the collection stage.
type ScrapingConfig struct {
	// MaxPostsPerPlatform caps how many posts one platform contributes.
	MaxPostsPerPlatform int `mapstructure:"max_posts_per_platform"`
	// MinDelay and MaxDelay bound the randomized inter-request delay.
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
	// SourceGap is the per-source minimum spacing between requests.
	SourceGap time.Duration `mapstructure:"source_gap"`
	// WindowHours limits collection to posts newer than this many hours.
	WindowHours int `mapstructure:"window_hours"`
	// Subreddits are the subreddit names the Reddit scraper listens to.
	Subreddits []string `mapstructure:"subreddits"`
}

// GenerationConfig controls the LLM generation stage.
type GenerationConfig struct {
	// Model is the language model identifier.
	Model string `mapstructure:"model"`
	// MaxRetries bounds regeneration attempts after the first draft.
	MaxRetries int `mapstructure:"max_retries"`
	// QualityThreshold is the minimum heuristic score for acceptance.
	QualityThreshold float64 `mapstructure:"quality_threshold"`
	// MaxTokens caps the model output length.
	MaxTokens int `mapstructure:"max_tokens"`
	// Product is the product name woven into prompts and fallback posts.
	Product string `mapstructure:"product"`
	// APIKey authenticates against the model provider. Supplied via
	// environment, never the config file.
	APIKey string `mapstructure:"api_key"`
}

// PlannerConfig controls the planning stage.
type PlannerConfig struct {
	// DefaultKeywords seed the plan when no insights are available.
	DefaultKeywords []string `mapstructure:"default_keywords"`
	// KeywordsPerSlot is how many keywords each slot receives.
	KeywordsPerSlot int `mapstructure:"keywords_per_slot"`
}

// ExportConfig controls the export stage.
type ExportConfig struct {
	// Dir is the directory exported calendars are written to.
	Dir string `mapstructure:"dir"`
	// Formats selects the writers to run ("csv", "markdown", "json").
	Formats []string `mapstructure:"formats"`
}

// NotifyConfig controls the notification stage.
type NotifyConfig struct {
	// TelegramToken and TelegramChatID enable the Telegram notifier when
	// both are set. Supplied via environment, never the config file.
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID string `mapstructure:"telegram_chat_id"`
}

// StorageConfig controls the raw-data archive.
type StorageConfig struct {
	// Enabled toggles persistence of raw posts and insights.
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database file.
	Path string `mapstructure:"path"`
}

// FilterConfig mirrors filter.Config with mapstructure tags.
type FilterConfig struct {
	Profanity   bool     `mapstructure:"profanity"`
	Politics    bool     `mapstructure:"politics"`
	NSFW        bool     `mapstructure:"nsfw"`
	Competitors []string `mapstructure:"competitors"`
}

// Config is the immutable configuration value threaded through each stage.
type Config struct {
	Platforms  []PlatformConfig `mapstructure:"platforms"`
	Scraping   ScrapingConfig   `mapstructure:"scraping"`
	Generation GenerationConfig `mapstructure:"generation"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Filters    FilterConfig     `mapstructure:"filters"`
	Export     ExportConfig     `mapstructure:"export"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
		Encoding    string `mapstructure:"encoding"`
	} `mapstructure:"logging"`
}

// SetDefaults registers defaults on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scraping.max_posts_per_platform", DefaultMaxPosts)
	v.SetDefault("scraping.min_delay", DefaultMinDelay)
	v.SetDefault("scraping.max_delay", DefaultMaxDelay)
	v.SetDefault("scraping.window_hours", 24)
	v.SetDefault("scraping.subreddits", []string{
		"SaaS", "indiehackers", "Entrepreneur", "productivity",
	})
	v.SetDefault("generation.model", DefaultModel)
	v.SetDefault("generation.max_retries", DefaultMaxRetries)
	v.SetDefault("generation.quality_threshold", DefaultQualityThreshold)
	v.SetDefault("generation.max_tokens", DefaultMaxTokens)
	v.SetDefault("planner.keywords_per_slot", 3)
	v.SetDefault("planner.default_keywords", []string{
		"content creation", "productivity", "ai tools",
	})
	v.SetDefault("filters.profanity", true)
	v.SetDefault("filters.politics", true)
	v.SetDefault("filters.nsfw", true)
	v.SetDefault("export.dir", DefaultExportDir)
	v.SetDefault("export.formats", []string{"csv", "markdown", "json"})
	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.path", DefaultArchivePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
}

// Load unmarshals and validates the configuration from viper.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Platforms))
	for i := range c.Platforms {
		p := &c.Platforms[i]
		if p.Name == "" {
			return fmt.Errorf("%w: platform %d has no name", ErrInvalidConfig, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate platform %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true

		if !p.Enabled {
			continue
		}
		if p.PostsPerDay < 1 {
			return fmt.Errorf("%w: platform %q: posts_per_day must be >= 1", ErrInvalidConfig, p.Name)
		}
		if p.MaxChars < 1 {
			return fmt.Errorf("%w: platform %q: max_chars must be >= 1", ErrInvalidConfig, p.Name)
		}
		if p.MinChars < 0 || p.MinChars >= p.MaxChars {
			return fmt.Errorf("%w: platform %q: min_chars must be in [0, max_chars)", ErrInvalidConfig, p.Name)
		}
		for _, w := range p.TimeWindows {
			if _, _, err := timeutil.ParseClock(w); err != nil {
				return fmt.Errorf("%w: platform %q: %s", ErrInvalidConfig, p.Name, err)
			}
		}
	}

	if c.Scraping.MaxDelay < c.Scraping.MinDelay {
		return fmt.Errorf("%w: scraping.max_delay must be >= scraping.min_delay", ErrInvalidConfig)
	}
	if c.Generation.MaxRetries < 0 {
		return fmt.Errorf("%w: generation.max_retries must be >= 0", ErrInvalidConfig)
	}
	if c.Generation.QualityThreshold < 0 || c.Generation.QualityThreshold > 1 {
		return fmt.Errorf("%w: generation.quality_threshold must be in [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// EnabledPlatforms returns the enabled platforms in configuration order.
func (c *Config) EnabledPlatforms() []PlatformConfig {
	enabled := make([]PlatformConfig, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// Platform returns the configuration for the named platform.
func (c *Config) Platform(name string) (PlatformConfig, bool) {
	for _, p := range c.Platforms {
		if p.Name == name {
			return p, true
		}
	}
	return PlatformConfig{}, false
}

// FilterConfig converts the mapstructure-tagged filter section into the
// filter package's config type.
func (c *Config) FilterConfig() filter.Config {
	return filter.Config{
		Profanity:   c.Filters.Profanity,
		Politics:    c.Filters.Politics,
		NSFW:        c.Filters.NSFW,
		Competitors: c.Filters.Competitors,
	}
}

// LoggerConfig returns the logging section as a logger.Config.
func (c *Config) LoggerConfig() *logger.Config {
	return &logger.Config{
		Level:       c.Logging.Level,
		Development: c.Logging.Development,
		Encoding:    c.Logging.Encoding,
	}
}
