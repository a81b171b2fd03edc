// Package storage persists raw posts, insights and run summaries to a
// local SQLite archive for later analysis.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS raw_posts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	platform    TEXT NOT NULL,
	external_id TEXT NOT NULL,
	author      TEXT NOT NULL,
	text        TEXT NOT NULL,
	likes       INTEGER NOT NULL,
	comments    INTEGER NOT NULL,
	shares      INTEGER NOT NULL,
	url         TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	scraped_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_raw_posts_run ON raw_posts (run_id);

CREATE TABLE IF NOT EXISTS insights (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	keyword        TEXT NOT NULL,
	frequency      INTEGER NOT NULL,
	avg_engagement REAL NOT NULL,
	platform       TEXT NOT NULL,
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_insights_run ON insights (run_id);

CREATE TABLE IF NOT EXISTS runs (
	run_id          TEXT PRIMARY KEY,
	started_at      TIMESTAMP NOT NULL,
	finished_at     TIMESTAMP NOT NULL,
	posts_scraped   INTEGER NOT NULL,
	insight_count   INTEGER NOT NULL,
	slots_planned   INTEGER NOT NULL,
	posts_generated INTEGER NOT NULL,
	failure_count   INTEGER NOT NULL,
	success         BOOLEAN NOT NULL
);
`

// Archive is the SQLite-backed raw-data store.
type Archive struct {
	db  *sqlx.DB
	log logger.Interface
}

// Open opens (creating if necessary) the archive at path and ensures the
// schema exists. The parent directory is created as needed.
func Open(path string, log logger.Interface) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}

	return &Archive{db: db, log: log.WithComponent("storage")}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRawPosts stores the scraped posts for a run in one transaction.
func (a *Archive) SaveRawPosts(ctx context.Context, runID string, posts []models.RawPost) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO raw_posts
		(run_id, platform, external_id, author, text, likes, comments, shares, url, created_at, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, p := range posts {
		if _, err := tx.ExecContext(ctx, query,
			runID, p.Platform, p.ExternalID, p.Author, p.Text,
			p.Likes, p.Comments, p.Shares, p.URL, p.CreatedAt.UTC(), now,
		); err != nil {
			return fmt.Errorf("failed to insert raw post: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit raw posts: %w", err)
	}
	a.log.Debug("Archived raw posts", "run_id", runID, "count", len(posts))
	return nil
}

// SaveInsights stores the extracted insights for a run.
func (a *Archive) SaveInsights(ctx context.Context, runID string, insights []models.Insight) error {
	if len(insights) == 0 {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO insights
		(run_id, keyword, frequency, avg_engagement, platform, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, in := range insights {
		if _, err := tx.ExecContext(ctx, query,
			runID, in.Keyword, in.Frequency, in.AvgEngagement, in.Platform, now,
		); err != nil {
			return fmt.Errorf("failed to insert insight: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insights: %w", err)
	}
	a.log.Debug("Archived insights", "run_id", runID, "count", len(insights))
	return nil
}

// SaveRunSummary stores the final summary of a run.
func (a *Archive) SaveRunSummary(ctx context.Context, summary *models.RunSummary) error {
	const query = `INSERT OR REPLACE INTO runs
		(run_id, started_at, finished_at, posts_scraped, insight_count,
		 slots_planned, posts_generated, failure_count, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := a.db.ExecContext(ctx, query,
		summary.RunID, summary.StartedAt.UTC(), summary.FinishedAt.UTC(),
		summary.PostsScraped, summary.InsightCount, summary.SlotsPlanned,
		summary.PostsGenerated, summary.FailureCount, summary.Success,
	); err != nil {
		return fmt.Errorf("failed to save run summary: %w", err)
	}
	return nil
}

// RawPostCount reports how many raw posts a run archived.
func (a *Archive) RawPostCount(ctx context.Context, runID string) (int, error) {
	var count int
	err := a.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM raw_posts WHERE run_id = ?", runID)
	if err != nil {
		return 0, fmt.Errorf("failed to count raw posts: %w", err)
	}
	return count, nil
}

// InsightCount reports how many insights a run archived.
func (a *Archive) InsightCount(ctx context.Context, runID string) (int, error) {
	var count int
	err := a.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM insights WHERE run_id = ?", runID)
	if err != nil {
		return 0, fmt.Errorf("failed to count insights: %w", err)
	}
	return count, nil
}
