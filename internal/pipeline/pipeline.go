// Package pipeline runs the daily content run: collect, analyze, plan,
// generate, export, notify, in that order.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/generator"
	"github.com/jonesrussell/goslate/internal/listener"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
)

// Collector gathers raw posts from the enabled platforms.
type Collector interface {
	Collect(ctx context.Context, runID string, cfg *config.Config) ([]models.RawPost, listener.Report)
}

// Analyzer derives ranked keyword insights from raw posts.
type Analyzer interface {
	Analyze(ctx context.Context, runID string, posts []models.RawPost) []models.Insight
}

// SlotPlanner allocates the day's content slots.
type SlotPlanner interface {
	Plan(insights []models.Insight, cfg *config.Config, date time.Time) ([]models.ContentSlot, error)
}

// PostGenerator fills one slot with content.
type PostGenerator interface {
	Generate(ctx context.Context, slot *models.ContentSlot) generator.Result
}

// CalendarExporter persists the slate and returns the files written.
type CalendarExporter interface {
	Export(slate *models.Slate) ([]string, error)
}

// SummaryNotifier reports the run outcome. Called exactly once per run,
// fatal or not.
type SummaryNotifier interface {
	Notify(ctx context.Context, summary *models.RunSummary)
}

// SummaryArchive records finished runs. Optional.
type SummaryArchive interface {
	SaveRunSummary(ctx context.Context, summary *models.RunSummary) error
}

// Orchestrator wires the stages into a single run.
type Orchestrator struct {
	log       logger.Interface
	cfg       *config.Config
	collector Collector
	analyzer  Analyzer
	planner   SlotPlanner
	generator PostGenerator
	exporter  CalendarExporter
	notifier  SummaryNotifier
	archive   SummaryArchive

	now func() time.Time
}

// New creates an orchestrator. The archive may be nil.
func New(
	log logger.Interface,
	cfg *config.Config,
	collector Collector,
	analyzer Analyzer,
	planner SlotPlanner,
	gen PostGenerator,
	exporter CalendarExporter,
	notifier SummaryNotifier,
	archive SummaryArchive,
) *Orchestrator {
	return &Orchestrator{
		log:       log.WithComponent("pipeline"),
		cfg:       cfg,
		collector: collector,
		analyzer:  analyzer,
		planner:   planner,
		generator: gen,
		exporter:  exporter,
		notifier:  notifier,
		archive:   archive,
		now:       time.Now,
	}
}

// Run executes one full pipeline pass planning content for date. Per-platform
// and per-slot failures degrade the run and are recorded in the summary; only
// configuration and export errors abort it. The notifier fires exactly once
// either way. The returned summary is always non-nil.
func (o *Orchestrator) Run(ctx context.Context, date time.Time) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: o.now(),
	}
	log := o.log.With("run_id", summary.RunID)
	log.Info("Pipeline run starting", "date", date.Format("2006-01-02"))

	defer func() {
		summary.FinishedAt = o.now()
		if o.archive != nil {
			if err := o.archive.SaveRunSummary(ctx, summary); err != nil {
				log.Warn("Failed to archive run summary", "error", err)
			}
		}
		o.notifier.Notify(ctx, summary)
	}()

	// Collect. Platforms that fail are skipped; an empty result is not fatal.
	posts, report := o.collector.Collect(ctx, summary.RunID, o.cfg)
	summary.PostsScraped = report.Accepted
	summary.PostsFiltered = report.Filtered
	for _, f := range report.Failures {
		summary.AddFailure(f.Stage, f.Subject, f.Reason)
	}

	// Analyze. With no posts the planner falls back to default keywords.
	insights := o.analyzer.Analyze(ctx, summary.RunID, posts)
	summary.InsightCount = len(insights)

	// Plan. Configuration problems surface here and abort the run.
	slots, err := o.planner.Plan(insights, o.cfg, date)
	if err != nil {
		return o.fatal(summary, log, fmt.Errorf("planning failed: %w", err))
	}
	summary.SlotsPlanned = len(slots)

	// Generate. Every slot gets content; fallbacks degrade, never abort.
	slate := &models.Slate{
		RunID: summary.RunID,
		Date:  date,
		Slots: slots,
		Posts: make(map[string]models.GeneratedPost, len(slots)),
	}
	for i := range slate.Slots {
		slot := &slate.Slots[i]
		result := o.generator.Generate(ctx, slot)
		slate.Posts[slot.ID] = result.Post

		if result.Post.Fallback {
			summary.AddFailure("generator", slot.ID, result.Reason)
		} else {
			summary.PostsGenerated++
		}
	}

	// Export. A run whose output cannot be persisted has failed.
	paths, err := o.exporter.Export(slate)
	if err != nil {
		return o.fatal(summary, log, fmt.Errorf("export failed: %w", err))
	}
	summary.ExportedFiles = paths

	summary.Success = true
	log.Info("Pipeline run finished",
		"scraped", summary.PostsScraped,
		"insights", summary.InsightCount,
		"slots", summary.SlotsPlanned,
		"generated", summary.PostsGenerated,
		"failures", summary.FailureCount,
	)
	return summary, nil
}

// fatal marks the summary failed and returns the abort error.
func (o *Orchestrator) fatal(summary *models.RunSummary, log logger.Interface, err error) (*models.RunSummary, error) {
	summary.Success = false
	summary.FatalError = err.Error()
	log.Error("Pipeline run aborted", "error", err)
	return summary, err
}
