// Package reflector derives keyword and engagement insights from collected
// posts. The analysis is deterministic: identical input always yields the
// identical insight sequence, regardless of input ordering.
package reflector

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
)

// Limits on the produced insight sequence.
const (
	// maxInsights caps the returned sequence; lower-scored keywords add
	// noise without changing the plan.
	maxInsights = 50
	// minKeywordLen drops very short tokens.
	minKeywordLen = 3
)

// stopWords are excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {}, "was": {},
	"were": {}, "been": {}, "have": {}, "has": {}, "had": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "you": {}, "she": {},
	"they": {}, "him": {}, "her": {}, "them": {}, "your": {}, "his": {},
	"its": {}, "our": {}, "their": {}, "just": {}, "now": {}, "then": {},
	"here": {}, "there": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"all": {}, "any": {}, "both": {}, "each": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "nor": {}, "not": {},
	"only": {}, "own": {}, "same": {}, "than": {}, "too": {}, "very": {},
	"can": {}, "may": {}, "might": {}, "must": {}, "shall": {}, "are": {},
	"what": {}, "who": {}, "into": {}, "about": {}, "out": {}, "get": {},
}

// nonWord strips punctuation before tokenizing.
var nonWord = regexp.MustCompile(`[^a-z0-9\s]+`)

// Archive persists derived insights. Optional side effect of analysis.
type Archive interface {
	SaveInsights(ctx context.Context, runID string, insights []models.Insight) error
}

// Reflector aggregates posts into insights.
type Reflector struct {
	log     logger.Interface
	archive Archive
}

// New creates a reflector. The archive may be nil to disable persistence.
func New(log logger.Interface, archive Archive) *Reflector {
	return &Reflector{log: log.WithComponent("reflector"), archive: archive}
}

// keywordStats accumulates per-keyword aggregates during a pass.
type keywordStats struct {
	frequency  int
	engagement int
	platforms  map[string]int
}

// Analyze groups posts by extracted keyword and returns insights ordered by
// composite score frequency * log(1+avgEngagement) descending, ties broken
// by keyword alphabetical order.
func (r *Reflector) Analyze(ctx context.Context, runID string, posts []models.RawPost) []models.Insight {
	stats := make(map[string]*keywordStats)

	for i := range posts {
		post := &posts[i]
		for _, kw := range ExtractKeywords(post.Text) {
			s, ok := stats[kw]
			if !ok {
				s = &keywordStats{platforms: make(map[string]int)}
				stats[kw] = s
			}
			s.frequency++
			s.engagement += post.Engagement()
			s.platforms[post.Platform]++
		}
	}

	insights := make([]models.Insight, 0, len(stats))
	for kw, s := range stats {
		insights = append(insights, models.Insight{
			Keyword:       kw,
			Frequency:     s.frequency,
			AvgEngagement: float64(s.engagement) / float64(s.frequency),
			Platform:      dominantPlatform(s.platforms),
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		si, sj := Score(&insights[i]), Score(&insights[j])
		if si != sj {
			return si > sj
		}
		return insights[i].Keyword < insights[j].Keyword
	})

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	r.log.Info("Content analysis complete",
		"posts", len(posts),
		"insights", len(insights),
	)

	if r.archive != nil && len(insights) > 0 {
		if err := r.archive.SaveInsights(ctx, runID, insights); err != nil {
			r.log.Warn("Failed to archive insights", "error", err)
		}
	}

	return insights
}

// Score is the composite ranking score for an insight.
func Score(in *models.Insight) float64 {
	return float64(in.Frequency) * math.Log1p(in.AvgEngagement)
}

// dominantPlatform returns the platform with the highest mention count,
// alphabetically first on ties so the result is deterministic.
func dominantPlatform(counts map[string]int) string {
	best := ""
	bestCount := -1
	for platform, count := range counts {
		if count > bestCount || (count == bestCount && platform < best) {
			best = platform
			bestCount = count
		}
	}
	return best
}

// ExtractKeywords tokenizes text into deduplicated unigrams and bigrams,
// lowercase with stop words removed. Each keyword is reported once per text
// so frequency counts posts, not occurrences.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	words := strings.Fields(cleaned)

	meaningful := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minKeywordLen {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if !isAlpha(w) {
			continue
		}
		meaningful = append(meaningful, w)
	}

	seen := make(map[string]struct{}, len(meaningful)*2)
	keywords := make([]string, 0, len(meaningful)*2)
	add := func(kw string) {
		if _, dup := seen[kw]; dup {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	for _, w := range meaningful {
		add(w)
	}
	for i := 0; i+1 < len(meaningful); i++ {
		add(meaningful[i] + " " + meaningful[i+1])
	}
	return keywords
}

// isAlpha reports whether the token is letters only.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
