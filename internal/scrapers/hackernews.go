package scrapers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/goslate/internal/models"
)

// hnTimeLayout is the layout of the title attribute on HN age spans.
const hnTimeLayout = "2006-01-02T15:04:05"

// HackerNews scrapes the front page ranking.
type HackerNews struct {
	window  time.Duration
	baseURL string
}

// NewHackerNews creates a Hacker News scraper.
func NewHackerNews(window time.Duration) *HackerNews {
	return &HackerNews{
		window:  window,
		baseURL: "https://news.ycombinator.com",
	}
}

// Platform returns the platform identifier.
func (h *HackerNews) Platform() string { return "hackernews" }

// FetchTrending returns up to limit front-page stories.
func (h *HackerNews) FetchTrending(ctx context.Context, limit int) ([]models.RawPost, error) {
	cutoff := time.Time{}
	if h.window > 0 {
		cutoff = time.Now().Add(-h.window)
	}

	var posts []models.RawPost

	c := colly.NewCollector(
		colly.UserAgent(randomUserAgent()),
		colly.StdlibContext(ctx),
	)
	c.OnHTML("tr.athing", func(e *colly.HTMLElement) {
		if len(posts) >= limit {
			return
		}

		title := e.ChildText("span.titleline > a")
		if title == "" {
			return
		}

		// Points, author and comment count live in the sibling subtext row.
		subtext := e.DOM.Next()
		post := models.RawPost{
			Platform:   "hackernews",
			ExternalID: e.Attr("id"),
			Text:       title,
			Author:     subtext.Find("a.hnuser").Text(),
			Likes:      parseLeadingInt(subtext.Find("span.score").Text()),
			Comments:   parseCommentCount(subtext),
			CreatedAt:  parseAge(subtext),
			URL:        fmt.Sprintf("%s/item?id=%s", h.baseURL, e.Attr("id")),
		}

		if !cutoff.IsZero() && !post.CreatedAt.IsZero() && post.CreatedAt.Before(cutoff) {
			return
		}
		posts = append(posts, post)
	})

	if err := c.Visit(h.baseURL + "/news"); err != nil {
		return nil, fmt.Errorf("visit front page: %w", err)
	}
	return posts, nil
}

// parseLeadingInt extracts the integer prefix from strings like "123 points".
func parseLeadingInt(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// parseCommentCount finds the "N comments" link in a subtext row.
func parseCommentCount(subtext *goquery.Selection) int {
	count := 0
	subtext.Find("a").Each(func(_ int, a *goquery.Selection) {
		text := a.Text()
		if strings.HasSuffix(text, "comments") || strings.HasSuffix(text, "comment") {
			count = parseLeadingInt(text)
		}
	})
	return count
}

// parseAge reads the ISO timestamp prefix of the age span's title attribute.
func parseAge(subtext *goquery.Selection) time.Time {
	title, ok := subtext.Find("span.age").Attr("title")
	if !ok || len(title) < len(hnTimeLayout) {
		return time.Time{}
	}
	t, err := time.Parse(hnTimeLayout, title[:len(hnTimeLayout)])
	if err != nil {
		return time.Time{}
	}
	return t
}
