// Package generator produces post text for planned slots through a
// quality-gated retry loop around the language-model collaborator.
package generator

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/filter"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
)

// State is one of the per-slot generation states. Drafting and Validating
// alternate until a terminal state is reached; Accepted and Fallback are
// terminal and both yield a GeneratedPost.
type State int

const (
	// StateDrafting builds a prompt and requests candidate text.
	StateDrafting State = iota
	// StateValidating applies the quality rules to candidate text.
	StateValidating
	// StateAccepted means the candidate passed every rule.
	StateAccepted
	// StateFallback means retries ran out and a generic post is emitted.
	StateFallback
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDrafting:
		return "drafting"
	case StateValidating:
		return "validating"
	case StateAccepted:
		return "accepted"
	case StateFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// LLM is the language-model collaborator. An error counts as a validation
// failure and spends a retry; the generator never propagates it.
type LLM interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Result pairs the generated post with how the loop ended.
type Result struct {
	Post models.GeneratedPost
	// FinalState is StateAccepted or StateFallback.
	FinalState State
	// Reason explains the last rejection when FinalState is StateFallback.
	Reason string
}

// Generator runs the per-slot state machine.
type Generator struct {
	log    logger.Interface
	llm    LLM
	safety *filter.Filter
	cfg    config.GenerationConfig
}

// New creates a generator.
func New(log logger.Interface, llm LLM, safety *filter.Filter, cfg config.GenerationConfig) *Generator {
	return &Generator{
		log:    log.WithComponent("generator"),
		llm:    llm,
		safety: safety,
		cfg:    cfg,
	}
}

// Generate fills the slot. It makes at most MaxRetries+1 model calls and
// always returns a result: either accepted text or a fallback placeholder.
// The slot status becomes GENERATED in both cases; Fallback on the post
// records the degradation. Failures never escape a single slot.
func (g *Generator) Generate(ctx context.Context, slot *models.ContentSlot) Result {
	var (
		lastReason string
		retries    int
	)

	state := StateDrafting
	extra := ""

	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		retries = attempt

		// Drafting: build the prompt and ask the model.
		prompt := g.buildPrompt(slot, extra)
		text, err := g.llm.Complete(ctx, prompt, g.cfg.MaxTokens)
		if err != nil {
			lastReason = fmt.Sprintf("model error: %v", err)
			g.log.Warn("Model call failed",
				"slot", slot.ID,
				"attempt", attempt+1,
				"error", err,
			)
			extra = retryInstruction(lastReason)
			continue
		}

		// Validating: apply the quality rules.
		state = StateValidating
		verdict := g.Validate(text, slot)
		if verdict.OK {
			state = StateAccepted
			slot.Status = models.SlotGenerated
			g.log.Info("Slot accepted",
				"slot", slot.ID,
				"attempts", attempt+1,
				"score", verdict.Score,
			)
			return Result{
				Post: models.GeneratedPost{
					SlotID:       slot.ID,
					Text:         text,
					CharCount:    utf8.RuneCountInString(text),
					QualityScore: verdict.Score,
					Retries:      attempt,
				},
				FinalState: state,
			}
		}

		lastReason = verdict.Reason
		g.log.Warn("Draft rejected",
			"slot", slot.ID,
			"attempt", attempt+1,
			"reason", verdict.Reason,
		)
		extra = retryInstruction(lastReason)
	}

	// Retries exhausted: emit the safe generic placeholder so export still
	// has content for the slot.
	state = StateFallback
	text := g.fallbackText(slot)
	slot.Status = models.SlotGenerated

	g.log.Warn("Slot fell back to placeholder",
		"slot", slot.ID,
		"reason", lastReason,
	)
	return Result{
		Post: models.GeneratedPost{
			SlotID:    slot.ID,
			Text:      text,
			CharCount: utf8.RuneCountInString(text),
			Retries:   retries,
			Fallback:  true,
		},
		FinalState: state,
		Reason:     lastReason,
	}
}

// retryInstruction turns a rejection reason into an explicit instruction for
// the next draft.
func retryInstruction(reason string) string {
	return fmt.Sprintf(
		"The previous draft was rejected: %s. Produce a new draft that fixes exactly that issue.",
		reason,
	)
}
