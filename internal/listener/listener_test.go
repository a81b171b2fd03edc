package listener_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/filter"
	"github.com/jonesrussell/goslate/internal/listener"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
	"github.com/jonesrussell/goslate/internal/ratelimit"
)

// fakeScraper returns canned posts or a canned error.
type fakeScraper struct {
	platform string
	posts    []models.RawPost
	err      error
	calls    int
}

func (f *fakeScraper) Platform() string { return f.platform }

func (f *fakeScraper) FetchTrending(_ context.Context, _ int) ([]models.RawPost, error) {
	f.calls++
	return f.posts, f.err
}

// fakeArchive records what was persisted.
type fakeArchive struct {
	saved []models.RawPost
	err   error
}

func (f *fakeArchive) SaveRawPosts(_ context.Context, _ string, posts []models.RawPost) error {
	f.saved = append(f.saved, posts...)
	return f.err
}

func testConfig(platforms ...config.PlatformConfig) *config.Config {
	return &config.Config{
		Platforms: platforms,
		Scraping:  config.ScrapingConfig{MaxPostsPerPlatform: 10},
	}
}

func enabled(name string) config.PlatformConfig {
	return config.PlatformConfig{Name: name, Enabled: true, PostsPerDay: 1, MaxChars: 280}
}

func newListener(scrapers []listener.Scraper, archive listener.Archive) *listener.Listener {
	limiter := ratelimit.New(ratelimit.Config{SourceGap: time.Millisecond})
	safety := filter.New(filter.Config{Profanity: true, Politics: true, NSFW: true})
	return listener.New(logger.NewNoOp(), limiter, safety, scrapers, archive)
}

func post(platform, text string, likes int) models.RawPost {
	return models.RawPost{Platform: platform, Text: text, Likes: likes}
}

func TestCollect_PartialFailure(t *testing.T) {
	t.Parallel()

	reddit := &fakeScraper{platform: "reddit", err: errors.New("connection reset")}
	hn := &fakeScraper{platform: "hackernews", posts: []models.RawPost{
		post("hackernews", "a new tool for faster content creation", 40),
	}}

	l := newListener([]listener.Scraper{reddit, hn}, nil)
	posts, report := l.Collect(context.Background(), "run-1", testConfig(
		enabled("reddit"), enabled("hackernews"),
	))

	require.Len(t, posts, 1)
	require.Equal(t, "hackernews", posts[0].Platform)

	require.Len(t, report.Failures, 1)
	require.Equal(t, "reddit", report.Failures[0].Subject)
	require.Contains(t, report.Failures[0].Reason, "scrape failed")
	require.Equal(t, 1, hn.calls)
}

func TestCollect_FiltersUnsafePosts(t *testing.T) {
	t.Parallel()

	s := &fakeScraper{platform: "reddit", posts: []models.RawPost{
		post("reddit", "great tips for growing your audience", 10),
		post("reddit", "the election is rigged", 900),
		post("reddit", "", 5),
	}}

	l := newListener([]listener.Scraper{s}, nil)
	posts, report := l.Collect(context.Background(), "run-1", testConfig(enabled("reddit")))

	require.Len(t, posts, 1)
	require.Equal(t, 2, report.Filtered)
	require.Equal(t, 1, report.Accepted)
}

func TestCollect_ZeroEnabledPlatforms(t *testing.T) {
	t.Parallel()

	s := &fakeScraper{platform: "reddit"}
	l := newListener([]listener.Scraper{s}, nil)

	disabled := config.PlatformConfig{Name: "reddit", Enabled: false}
	posts, report := l.Collect(context.Background(), "run-1", testConfig(disabled))

	require.Empty(t, posts)
	require.Empty(t, report.Failures)
	require.Zero(t, s.calls)
}

func TestCollect_MissingScraperRecorded(t *testing.T) {
	t.Parallel()

	l := newListener(nil, nil)
	posts, report := l.Collect(context.Background(), "run-1", testConfig(enabled("quora")))

	require.Empty(t, posts)
	require.Len(t, report.Failures, 1)
	require.Equal(t, "quora", report.Failures[0].Subject)
}

func TestCollect_NormalizesEngagement(t *testing.T) {
	t.Parallel()

	s := &fakeScraper{platform: "reddit", posts: []models.RawPost{
		{Text: "negative counters from a flaky api", Likes: -3, Comments: -1, Shares: 2},
	}}

	l := newListener([]listener.Scraper{s}, nil)
	posts, _ := l.Collect(context.Background(), "run-1", testConfig(enabled("reddit")))

	require.Len(t, posts, 1)
	require.Equal(t, "reddit", posts[0].Platform)
	require.Zero(t, posts[0].Likes)
	require.Zero(t, posts[0].Comments)
	require.Equal(t, 2, posts[0].Shares)
}

func TestCollect_ArchivesAcceptedPosts(t *testing.T) {
	t.Parallel()

	s := &fakeScraper{platform: "reddit", posts: []models.RawPost{
		post("reddit", "an honest writeup on audience growth", 12),
	}}
	archive := &fakeArchive{}

	l := newListener([]listener.Scraper{s}, archive)
	l.Collect(context.Background(), "run-1", testConfig(enabled("reddit")))

	require.Len(t, archive.saved, 1)
}

func TestCollect_ArchiveFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	s := &fakeScraper{platform: "reddit", posts: []models.RawPost{
		post("reddit", "an honest writeup on audience growth", 12),
	}}
	archive := &fakeArchive{err: errors.New("disk full")}

	l := newListener([]listener.Scraper{s}, archive)
	posts, report := l.Collect(context.Background(), "run-1", testConfig(enabled("reddit")))

	require.Len(t, posts, 1)
	require.Empty(t, report.Failures)
}

func TestScrapeError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("timeout")
	err := &listener.ScrapeError{Platform: "reddit", Err: cause}
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "reddit")
}
