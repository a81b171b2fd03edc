// Package filter implements the content-safety filter shared by the
// collection and generation stages.
package filter

import (
	"regexp"
	"strings"
)

// Category names reported by Check for rejected content.
const (
	CategoryProfanity  = "profanity"
	CategoryPolitical  = "political"
	CategoryNSFW       = "nsfw"
	CategoryCompetitor = "competitor"
)

// Config controls which filter categories are active.
type Config struct {
	// Profanity enables the profanity check.
	Profanity bool `yaml:"profanity"`
	// Politics enables the political-content check.
	Politics bool `yaml:"politics"`
	// NSFW enables the NSFW check.
	NSFW bool `yaml:"nsfw"`
	// Competitors lists competitor names whose mentions are rejected.
	Competitors []string `yaml:"competitors"`
}

// defaultProfanity is a baseline block list. A comprehensive list would come
// from a dedicated dataset; these cover the common cases.
var defaultProfanity = []string{
	"damn", "hell", "shit", "fuck", "bitch", "bastard",
	"crap", "piss", "dick", "whore", "slut",
}

// defaultPolitical covers election and policy topics the calendar avoids.
var defaultPolitical = []string{
	"trump", "biden", "democrat", "republican", "liberal", "conservative",
	"election", "vote", "politics", "political", "government", "congress",
	"senate", "president", "politician", "campaign", "ballot",
	"immigration", "abortion", "gun control", "taxes",
	"climate change", "covid", "vaccine", "lockdown",
}

// defaultNSFW covers adult-content terms.
var defaultNSFW = []string{
	"sex", "sexual", "porn", "nude", "naked", "xxx",
	"erotic", "fetish", "orgasm", "horny",
}

// Filter is a pure predicate over text. Safe for concurrent use.
type Filter struct {
	cfg        Config
	profanity  []*regexp.Regexp
	political  []*regexp.Regexp
	nsfw       []*regexp.Regexp
	competitor []*regexp.Regexp
}

// New creates a content filter from the given configuration.
func New(cfg Config) *Filter {
	f := &Filter{cfg: cfg}
	f.profanity = compileWordPatterns(defaultProfanity)
	f.political = compileWordPatterns(defaultPolitical)
	f.nsfw = compileWordPatterns(defaultNSFW)
	f.competitor = compileWordPatterns(cfg.Competitors)
	return f
}

// compileWordPatterns builds whole-word, case-insensitive matchers.
func compileWordPatterns(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return patterns
}

// IsSafe reports whether the text passes every active filter category.
// Empty text is never safe.
func (f *Filter) IsSafe(text string) bool {
	_, safe := f.Check(text)
	return safe
}

// Check returns the first matching category for unsafe text. The category is
// empty when the text is safe.
func (f *Filter) Check(text string) (category string, safe bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	lower := strings.ToLower(text)

	if f.cfg.Profanity && matchesAny(lower, f.profanity) {
		return CategoryProfanity, false
	}
	if f.cfg.Politics && matchesAny(lower, f.political) {
		return CategoryPolitical, false
	}
	if matchesAny(lower, f.competitor) {
		return CategoryCompetitor, false
	}
	if f.cfg.NSFW && matchesAny(lower, f.nsfw) {
		return CategoryNSFW, false
	}

	return "", true
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
