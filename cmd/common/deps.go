// Package common provides shared dependency construction for the CLI
// commands.
package common

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/exporter"
	"github.com/jonesrussell/goslate/internal/filter"
	"github.com/jonesrussell/goslate/internal/generator"
	"github.com/jonesrussell/goslate/internal/listener"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/notifier"
	"github.com/jonesrussell/goslate/internal/pipeline"
	"github.com/jonesrussell/goslate/internal/planner"
	"github.com/jonesrussell/goslate/internal/ratelimit"
	"github.com/jonesrussell/goslate/internal/reflector"
	"github.com/jonesrussell/goslate/internal/scrapers"
	"github.com/jonesrussell/goslate/internal/storage"
)

// Deps holds the dependencies every command needs.
type Deps struct {
	Logger logger.Interface
	Config *config.Config
}

// NewCommandDeps loads configuration from viper and builds the logger.
func NewCommandDeps() (*Deps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Deps{Logger: log, Config: cfg}, nil
}

// Pipeline bundles the orchestrator with resources the caller must close.
type Pipeline struct {
	Orchestrator *pipeline.Orchestrator
	archive      *storage.Archive
}

// Close releases the pipeline's resources.
func (p *Pipeline) Close() error {
	if p.archive != nil {
		return p.archive.Close()
	}
	return nil
}

// NewPipeline wires the full pipeline from configuration: scrapers behind
// the rate limiter, the analyzer, planner, Gemini-backed generator, exporter
// and notifier.
func NewPipeline(ctx context.Context, deps *Deps) (*Pipeline, error) {
	cfg := deps.Config
	log := deps.Logger

	var archive *storage.Archive
	if cfg.Storage.Enabled {
		var err error
		archive, err = storage.Open(cfg.Storage.Path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
	}

	safety := filter.New(cfg.FilterConfig())
	limiter := ratelimit.New(ratelimit.Config{
		MinDelay:  cfg.Scraping.MinDelay,
		MaxDelay:  cfg.Scraping.MaxDelay,
		SourceGap: cfg.Scraping.SourceGap,
	})

	window := time.Duration(cfg.Scraping.WindowHours) * time.Hour
	platformScrapers := []listener.Scraper{
		scrapers.NewReddit(cfg.Scraping.Subreddits, window),
		scrapers.NewHackerNews(window),
	}

	// Assign interfaces only when the archive exists so disabled storage
	// stays a nil interface, not a typed nil.
	var (
		listenerArchive  listener.Archive
		reflectorArchive reflector.Archive
		summaryArchive   pipeline.SummaryArchive
	)
	if archive != nil {
		listenerArchive = archive
		reflectorArchive = archive
		summaryArchive = archive
	}

	llm, err := generator.NewGeminiClient(ctx, cfg.Generation.APIKey, cfg.Generation.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	orchestrator := pipeline.New(
		log,
		cfg,
		listener.New(log, limiter, safety, platformScrapers, listenerArchive),
		reflector.New(log, reflectorArchive),
		planner.New(log),
		generator.New(log, llm, safety, cfg.Generation),
		exporter.New(log, cfg.Export),
		notifier.New(log, os.Stdout, cfg.Notify),
		summaryArchive,
	)

	return &Pipeline{Orchestrator: orchestrator, archive: archive}, nil
}
