// Package planner turns insights into a dated, platform-allocated slate of
// content slots.
package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
	"github.com/jonesrussell/goslate/internal/timeutil"
)

// defaultContentType is used when a platform has no content-type mix.
const defaultContentType = "text"

// ConfigurationError marks a fatal planning failure caused by configuration.
// It wraps config.ErrInvalidConfig so callers can match either.
type ConfigurationError struct {
	Platform string
	Reason   string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("planner: platform %q: %s", e.Platform, e.Reason)
}

// Unwrap ties the error into the fatal configuration taxonomy.
func (e *ConfigurationError) Unwrap() error {
	return config.ErrInvalidConfig
}

// Planner allocates content slots.
type Planner struct {
	log logger.Interface
}

// New creates a planner.
func New(log logger.Interface) *Planner {
	return &Planner{log: log.WithComponent("planner")}
}

// Plan allocates exactly PostsPerDay slots for every enabled platform on the
// given date. Posting times are spread evenly over the platform's configured
// windows. Insight keywords are dealt round-robin across platforms and never
// reused within a run; when insights run out the configured default keywords
// take over. Deterministic given identical insight ordering and config.
func (p *Planner) Plan(
	insights []models.Insight,
	cfg *config.Config,
	date time.Time,
) ([]models.ContentSlot, error) {
	platforms := cfg.EnabledPlatforms()

	perPlatform := make([][]models.ContentSlot, len(platforms))
	maxQuota := 0
	for i, platform := range platforms {
		if len(platform.TimeWindows) == 0 {
			return nil, &ConfigurationError{
				Platform: platform.Name,
				Reason:   "enabled but has no time windows",
			}
		}

		times, err := timeutil.Spread(date, platform.TimeWindows, platform.PostsPerDay)
		if err != nil {
			return nil, &ConfigurationError{Platform: platform.Name, Reason: err.Error()}
		}

		slots := make([]models.ContentSlot, 0, len(times))
		for j, ts := range times {
			slots = append(slots, models.ContentSlot{
				ID:          uuid.NewString(),
				Platform:    platform.Name,
				ContentType: contentType(platform, j),
				ScheduledAt: ts,
				MaxChars:    platform.MaxChars,
				MinChars:    platform.MinChars,
				Status:      models.SlotPlanned,
			})
		}
		perPlatform[i] = slots
		maxQuota = max(maxQuota, len(slots))
	}

	p.assignKeywords(perPlatform, maxQuota, insights, cfg)

	// Interleaved order keeps keyword assignment round-robin; flatten back
	// to platform order for the slate.
	var out []models.ContentSlot
	for _, slots := range perPlatform {
		out = append(out, slots...)
	}

	p.log.Info("Content plan created",
		"platforms", len(platforms),
		"slots", len(out),
	)
	return out, nil
}

// assignKeywords deals insight keywords across platforms: the first slot of
// every platform is served before any second slot, so high-scoring insights
// are spread rather than clustered on one platform.
func (p *Planner) assignKeywords(
	perPlatform [][]models.ContentSlot,
	maxQuota int,
	insights []models.Insight,
	cfg *config.Config,
) {
	perSlot := cfg.Planner.KeywordsPerSlot
	if perSlot <= 0 {
		perSlot = 1
	}

	next := 0
	defaults := cfg.Planner.DefaultKeywords
	defaultIdx := 0

	takeKeyword := func() string {
		if next < len(insights) {
			kw := insights[next].Keyword
			next++
			return kw
		}
		if len(defaults) == 0 {
			return ""
		}
		kw := defaults[defaultIdx%len(defaults)]
		defaultIdx++
		return kw
	}

	for round := range maxQuota {
		for i := range perPlatform {
			if round >= len(perPlatform[i]) {
				continue
			}
			slot := &perPlatform[i][round]
			for range perSlot {
				if kw := takeKeyword(); kw != "" && !contains(slot.Keywords, kw) {
					slot.Keywords = append(slot.Keywords, kw)
				}
			}
		}
	}
}

// contentType cycles the platform's configured mix across its slots.
func contentType(platform config.PlatformConfig, slotIndex int) string {
	if len(platform.ContentTypes) == 0 {
		return defaultContentType
	}
	return platform.ContentTypes[slotIndex%len(platform.ContentTypes)]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
