// Package models defines the domain types shared across pipeline stages.
package models

import "time"

// SlotStatus represents the lifecycle state of a content slot.
type SlotStatus string

const (
	// SlotPlanned means the slot has been allocated but no content exists yet.
	SlotPlanned SlotStatus = "PLANNED"
	// SlotGenerated means the slot has accepted content attached.
	SlotGenerated SlotStatus = "GENERATED"
	// SlotFailed means generation did not produce content for the slot.
	SlotFailed SlotStatus = "FAILED"
)

// RawPost is a normalized record of a scraped social-media post.
// It is immutable once created and discarded after analysis.
type RawPost struct {
	// Platform is the source platform identifier (e.g. "reddit").
	Platform string `json:"platform" db:"platform"`
	// ExternalID is the post's identifier on its platform.
	ExternalID string `json:"external_id" db:"external_id"`
	// Text is the post body (title and body joined for link posts).
	Text string `json:"text" db:"text"`
	// Author is the author handle.
	Author string `json:"author" db:"author"`
	// Likes, Comments and Shares are engagement counts. Never negative.
	Likes    int `json:"likes" db:"likes"`
	Comments int `json:"comments" db:"comments"`
	Shares   int `json:"shares" db:"shares"`
	// CreatedAt is the post's publication time.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	// URL is the canonical link to the post.
	URL string `json:"url" db:"url"`
}

// Engagement returns the combined engagement count for the post.
func (p *RawPost) Engagement() int {
	return p.Likes + p.Comments + p.Shares
}

// Insight is a derived keyword statistic used to bias planning.
type Insight struct {
	// Keyword is the extracted term (lowercase, stop words removed).
	Keyword string `json:"keyword" db:"keyword"`
	// Frequency is how many posts mentioned the keyword.
	Frequency int `json:"frequency" db:"frequency"`
	// AvgEngagement is the mean engagement of posts mentioning the keyword.
	AvgEngagement float64 `json:"avg_engagement" db:"avg_engagement"`
	// Platform is the platform the keyword was most seen on.
	Platform string `json:"platform" db:"platform"`
}

// ContentSlot is a single planned opportunity to publish one post.
type ContentSlot struct {
	// ID uniquely identifies the slot within a run.
	ID string `json:"id"`
	// Platform is the target platform.
	Platform string `json:"platform"`
	// ContentType tags the kind of post (hook, thread, discussion, tip).
	ContentType string `json:"content_type"`
	// ScheduledAt is the planned posting time in UK local time.
	ScheduledAt time.Time `json:"scheduled_at"`
	// Keywords are the target keywords for the slot.
	Keywords []string `json:"keywords"`
	// MaxChars is the platform character limit for the slot.
	MaxChars int `json:"max_chars"`
	// MinChars is the floor below which generated text is rejected.
	MinChars int `json:"min_chars"`
	// Status is the slot lifecycle state.
	Status SlotStatus `json:"status"`
}

// GeneratedPost is the accepted output for one slot.
// Immutable once accepted.
type GeneratedPost struct {
	// SlotID references the slot this post fills.
	SlotID string `json:"slot_id"`
	// Text is the final post text.
	Text string `json:"text"`
	// CharCount is len(Text) in runes.
	CharCount int `json:"char_count"`
	// QualityScore is the heuristic score the text achieved.
	QualityScore float64 `json:"quality_score"`
	// Retries is how many regeneration attempts were needed.
	Retries int `json:"retries"`
	// Fallback marks a generic placeholder emitted after retries ran out.
	Fallback bool `json:"fallback"`
}

// Slate is the full set of slots plus their generated posts for one run.
type Slate struct {
	// RunID identifies the pipeline run that produced the slate.
	RunID string `json:"run_id"`
	// Date is the calendar date the slate is planned for.
	Date time.Time `json:"date"`
	// Slots are the planned slots in platform order.
	Slots []ContentSlot `json:"slots"`
	// Posts maps slot IDs to their generated posts.
	Posts map[string]GeneratedPost `json:"posts"`
}

// StageFailure records one degraded unit of work (a platform or a slot).
type StageFailure struct {
	// Stage names the pipeline stage that degraded.
	Stage string `json:"stage"`
	// Subject identifies the degraded unit (platform name or slot ID).
	Subject string `json:"subject"`
	// Reason is the human-readable failure cause.
	Reason string `json:"reason"`
}

// RunSummary is accumulated across a run and handed to the notifier.
type RunSummary struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`
	// StartedAt and FinishedAt bound the run wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// PostsScraped counts accepted raw posts.
	PostsScraped int `json:"posts_scraped"`
	// PostsFiltered counts posts dropped by the safety filter.
	PostsFiltered int `json:"posts_filtered"`
	// InsightCount counts derived insights.
	InsightCount int `json:"insight_count"`
	// SlotsPlanned counts allocated content slots.
	SlotsPlanned int `json:"slots_planned"`
	// PostsGenerated counts slots that received accepted content.
	PostsGenerated int `json:"posts_generated"`
	// FailureCount counts degraded units (skipped platforms, fallback slots).
	FailureCount int `json:"failure_count"`
	// Failures enumerates each degraded unit and why.
	Failures []StageFailure `json:"failures"`
	// ExportedFiles lists the files the exporter wrote.
	ExportedFiles []string `json:"exported_files"`
	// Success is false only when the run aborted on a fatal error.
	Success bool `json:"success"`
	// FatalError holds the abort reason when Success is false.
	FatalError string `json:"fatal_error,omitempty"`
}

// AddFailure appends a failure record and bumps the counter.
func (s *RunSummary) AddFailure(stage, subject, reason string) {
	s.Failures = append(s.Failures, StageFailure{Stage: stage, Subject: subject, Reason: reason})
	s.FailureCount++
}
