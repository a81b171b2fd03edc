// Package scrapers provides the platform scraping collaborators used by the
// collection stage.
package scrapers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/goslate/internal/models"
)

// userAgents is a small rotation of desktop browser user agents.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// randomUserAgent picks one of the rotation.
func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// redditListing mirrors the fields we need from Reddit's listing endpoint.
type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				SelfText    string  `json:"selftext"`
				Author      string  `json:"author"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
				Permalink   string  `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Reddit scrapes hot posts from a set of subreddits via the public JSON
// listing endpoint.
type Reddit struct {
	subreddits []string
	window     time.Duration
	baseURL    string
}

// NewReddit creates a Reddit scraper. window limits results to posts newer
// than that duration; zero disables the recency check.
func NewReddit(subreddits []string, window time.Duration) *Reddit {
	return &Reddit{
		subreddits: subreddits,
		window:     window,
		baseURL:    "https://www.reddit.com",
	}
}

// Platform returns the platform identifier.
func (r *Reddit) Platform() string { return "reddit" }

// FetchTrending returns up to limit hot posts across the configured
// subreddits, split evenly between them.
func (r *Reddit) FetchTrending(ctx context.Context, limit int) ([]models.RawPost, error) {
	if len(r.subreddits) == 0 {
		return nil, fmt.Errorf("no subreddits configured")
	}

	perSub := max(limit/len(r.subreddits), 1)
	cutoff := time.Time{}
	if r.window > 0 {
		cutoff = time.Now().Add(-r.window)
	}

	var (
		posts    []models.RawPost
		fetchErr error
	)

	c := colly.NewCollector(
		colly.UserAgent(randomUserAgent()),
		colly.StdlibContext(ctx),
	)
	c.OnResponse(func(resp *colly.Response) {
		var listing redditListing
		if err := json.Unmarshal(resp.Body, &listing); err != nil {
			fetchErr = fmt.Errorf("decode listing: %w", err)
			return
		}
		for _, child := range listing.Data.Children {
			d := child.Data
			created := time.Unix(int64(d.CreatedUTC), 0)
			if !cutoff.IsZero() && created.Before(cutoff) {
				continue
			}
			text := d.Title
			if d.SelfText != "" {
				text += "\n" + d.SelfText
			}
			posts = append(posts, models.RawPost{
				Platform:   "reddit",
				ExternalID: d.ID,
				Text:       text,
				Author:     d.Author,
				Likes:      d.Score,
				Comments:   d.NumComments,
				CreatedAt:  created,
				URL:        r.baseURL + d.Permalink,
			})
		}
	})

	for _, sub := range r.subreddits {
		url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d&raw_json=1", r.baseURL, sub, perSub)
		if err := c.Visit(url); err != nil {
			return nil, fmt.Errorf("visit r/%s: %w", sub, err)
		}
		if fetchErr != nil {
			return nil, fetchErr
		}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}
