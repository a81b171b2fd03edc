package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/goslate/internal/models"
)

// defaultMinChars applies when the slot has no configured floor; posts
// shorter than this read as throwaways.
const defaultMinChars = 50

// Quality score weights. The score is a weighted sum in [0, 1]; the
// configured threshold is the sole tunable.
//
//   - length: the draft makes reasonable use of the platform's budget
//   - hook: the draft opens with something that stops scrolling
//   - cta: the draft invites a response
//   - keyword: the draft actually covers a target keyword
const (
	weightLength  = 0.35
	weightHook    = 0.25
	weightCTA     = 0.20
	weightKeyword = 0.20
)

// minLengthRatio is the share of the character budget below which the
// length component starts to shrink.
const minLengthRatio = 0.2

// hookOpeners are openings that typically perform as hooks.
var hookOpeners = []string{
	"how", "why", "what", "when", "where", "who",
	"stop", "most", "nobody", "everyone", "here's", "the secret",
	"i ", "you ", "unpopular opinion",
}

// ctaMarkers indicate an invitation to engage.
var ctaMarkers = []string{
	"?", "drop your", "share your", "let me know", "comment",
	"what do you think", "reply", "thoughts", "try it", "join",
}

// placeholderMarkers indicate incomplete model output.
var placeholderMarkers = []string{
	"[insert", "[add", "[your", "lorem ipsum", "placeholder",
	"example text", "sample content",
}

// Verdict is the outcome of validating one draft.
type Verdict struct {
	// OK is true when the draft passed every rule.
	OK bool
	// Score is the heuristic quality score in [0, 1].
	Score float64
	// Reason names the failed rule when OK is false.
	Reason string
}

// Validate applies the quality rules to a draft: hard bounds first (length,
// safety, completeness), then the heuristic score against the configured
// threshold.
func (g *Generator) Validate(text string, slot *models.ContentSlot) Verdict {
	chars := utf8.RuneCountInString(text)

	minChars := slot.MinChars
	if minChars <= 0 {
		minChars = defaultMinChars
	}

	if chars < minChars {
		return Verdict{Reason: fmt.Sprintf("too short (%d chars, minimum %d)", chars, minChars)}
	}
	if slot.MaxChars > 0 && chars > slot.MaxChars {
		return Verdict{Reason: fmt.Sprintf("too long (%d chars, limit %d)", chars, slot.MaxChars)}
	}

	lower := strings.ToLower(text)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return Verdict{Reason: "contains placeholder text"}
		}
	}

	if category, safe := g.safety.Check(text); !safe {
		return Verdict{Reason: fmt.Sprintf("unsafe content (%s)", category)}
	}

	score := g.score(lower, chars, slot)
	if score < g.cfg.QualityThreshold {
		return Verdict{
			Score: score,
			Reason: fmt.Sprintf("quality score %.2f below threshold %.2f",
				score, g.cfg.QualityThreshold),
		}
	}
	return Verdict{OK: true, Score: score}
}

// score computes the heuristic quality score for a lowercased draft.
func (g *Generator) score(lower string, chars int, slot *models.ContentSlot) float64 {
	score := weightLength * lengthFactor(chars, slot.MaxChars)

	for _, opener := range hookOpeners {
		if strings.HasPrefix(lower, opener) {
			score += weightHook
			break
		}
	}

	for _, marker := range ctaMarkers {
		if strings.Contains(lower, marker) {
			score += weightCTA
			break
		}
	}

	for _, kw := range slot.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			score += weightKeyword
			break
		}
	}

	return score
}

// lengthFactor rewards drafts that use a sensible share of the budget.
func lengthFactor(chars, maxChars int) float64 {
	if maxChars <= 0 {
		return 1
	}
	ratio := float64(chars) / float64(maxChars)
	if ratio >= minLengthRatio {
		return 1
	}
	return ratio / minLengthRatio
}
