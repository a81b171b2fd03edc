// Package listener implements the collection stage: it drives the platform
// scrapers through the rate limiter, normalizes their output and applies the
// content-safety filter.
package listener

import (
	"context"
	"fmt"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/filter"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
	"github.com/jonesrussell/goslate/internal/ratelimit"
)

// stageName identifies this stage in failure records.
const stageName = "listener"

// Scraper fetches trending posts for one platform. Implementations may fail
// with a transient network error; the listener skips the platform for the
// run rather than retrying.
type Scraper interface {
	// Platform returns the platform identifier the scraper serves.
	Platform() string
	// FetchTrending returns up to limit trending posts.
	FetchTrending(ctx context.Context, limit int) ([]models.RawPost, error)
}

// Archive persists accepted raw posts. Optional side effect of collection.
type Archive interface {
	SaveRawPosts(ctx context.Context, runID string, posts []models.RawPost) error
}

// ScrapeError wraps a per-platform scraping failure. It is transient: the
// platform is dropped for the run and the rest of the collection proceeds.
type ScrapeError struct {
	Platform string
	Err      error
}

// Error implements the error interface.
func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape failed for %s: %v", e.Platform, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Report summarizes one collection pass.
type Report struct {
	// Accepted counts posts that passed the safety filter.
	Accepted int
	// Filtered counts posts dropped by the safety filter.
	Filtered int
	// Failures records platforms that could not be scraped.
	Failures []models.StageFailure
}

// Listener coordinates the platform scrapers.
type Listener struct {
	log      logger.Interface
	limiter  *ratelimit.Limiter
	filter   *filter.Filter
	scrapers map[string]Scraper
	archive  Archive
}

// New creates a listener. The archive may be nil to disable persistence.
func New(
	log logger.Interface,
	limiter *ratelimit.Limiter,
	safety *filter.Filter,
	scrapers []Scraper,
	archive Archive,
) *Listener {
	byPlatform := make(map[string]Scraper, len(scrapers))
	for _, s := range scrapers {
		byPlatform[s.Platform()] = s
	}
	return &Listener{
		log:      log.WithComponent(stageName),
		limiter:  limiter,
		filter:   safety,
		scrapers: byPlatform,
		archive:  archive,
	}
}

// Collect scrapes every enabled platform in configuration order. One
// platform's failure never blocks the others; failures are recorded in the
// report. Posts keep platform iteration order, then source order.
func (l *Listener) Collect(
	ctx context.Context,
	runID string,
	cfg *config.Config,
) ([]models.RawPost, Report) {
	var (
		accepted []models.RawPost
		report   Report
	)

	limit := cfg.Scraping.MaxPostsPerPlatform

	for _, platform := range cfg.EnabledPlatforms() {
		scraper, ok := l.scrapers[platform.Name]
		if !ok {
			l.log.Warn("No scraper registered for platform", "platform", platform.Name)
			report.Failures = append(report.Failures, models.StageFailure{
				Stage:   stageName,
				Subject: platform.Name,
				Reason:  "no scraper registered",
			})
			continue
		}

		l.limiter.Acquire(ctx, platform.Name)

		posts, err := scraper.FetchTrending(ctx, limit)
		if err != nil {
			scrapeErr := &ScrapeError{Platform: platform.Name, Err: err}
			l.log.Warn("Platform scrape failed, skipping",
				"platform", platform.Name,
				"error", err,
			)
			report.Failures = append(report.Failures, models.StageFailure{
				Stage:   stageName,
				Subject: platform.Name,
				Reason:  scrapeErr.Error(),
			})
			continue
		}

		kept := 0
		for i := range posts {
			post := normalize(posts[i], platform.Name)
			if !l.filter.IsSafe(post.Text) {
				report.Filtered++
				continue
			}
			accepted = append(accepted, post)
			kept++
		}

		l.log.Info("Platform scraped",
			"platform", platform.Name,
			"fetched", len(posts),
			"kept", kept,
		)
	}

	report.Accepted = len(accepted)

	if l.archive != nil && len(accepted) > 0 {
		if err := l.archive.SaveRawPosts(ctx, runID, accepted); err != nil {
			// Persistence is a side effect, never a collection failure.
			l.log.Warn("Failed to archive raw posts", "error", err)
		}
	}

	return accepted, report
}

// normalize enforces the RawPost invariants: the platform field is set and
// engagement counts are never negative.
func normalize(post models.RawPost, platform string) models.RawPost {
	if post.Platform == "" {
		post.Platform = platform
	}
	post.Likes = max(post.Likes, 0)
	post.Comments = max(post.Comments, 0)
	post.Shares = max(post.Shares, 0)
	return post
}
