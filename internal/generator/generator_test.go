package generator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/filter"
	"github.com/jonesrussell/goslate/internal/generator"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
)

// goodDraft passes every quality rule for the test slot: long enough, safe,
// hook opener, CTA and keyword included.
const goodDraft = "How do you stay consistent with content creation? " +
	"Here is what finally worked for me: a fixed 20 minute writing block every morning. " +
	"What do you think?"

// scriptedLLM returns queued responses in order; an entry with err set
// simulates an API failure.
type scriptedLLM struct {
	responses []scriptedResponse
	calls     int
	prompts   []string
}

type scriptedResponse struct {
	text string
	err  error
}

func (s *scriptedLLM) Complete(_ context.Context, prompt string, _ int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.calls >= len(s.responses) {
		return "", errors.New("unscripted call")
	}
	r := s.responses[s.calls]
	s.calls++
	return r.text, r.err
}

func genConfig(maxRetries int) config.GenerationConfig {
	return config.GenerationConfig{
		Model:            "test-model",
		MaxRetries:       maxRetries,
		QualityThreshold: 0.6,
		MaxTokens:        500,
		Product:          "xthreads.app",
	}
}

func newGenerator(llm generator.LLM, maxRetries int) *generator.Generator {
	safety := filter.New(filter.Config{Profanity: true, Politics: true, NSFW: true})
	return generator.New(logger.NewNoOp(), llm, safety, genConfig(maxRetries))
}

func testSlot() *models.ContentSlot {
	return &models.ContentSlot{
		ID:          "slot-1",
		Platform:    "twitter",
		ContentType: "hook",
		Keywords:    []string{"content creation"},
		MaxChars:    280,
		MinChars:    50,
		Status:      models.SlotPlanned,
	}
}

func TestGenerate_AcceptsFirstGoodDraft(t *testing.T) {
	t.Parallel()

	llm := &scriptedLLM{responses: []scriptedResponse{{text: goodDraft}}}
	slot := testSlot()

	result := newGenerator(llm, 2).Generate(context.Background(), slot)

	require.Equal(t, generator.StateAccepted, result.FinalState)
	require.False(t, result.Post.Fallback)
	require.Equal(t, goodDraft, result.Post.Text)
	require.Zero(t, result.Post.Retries)
	require.Equal(t, models.SlotGenerated, slot.Status)
	require.Equal(t, 1, llm.calls)
	require.GreaterOrEqual(t, result.Post.QualityScore, 0.6)
}

func TestGenerate_RetriesThenAccepts(t *testing.T) {
	t.Parallel()

	llm := &scriptedLLM{responses: []scriptedResponse{
		{text: "too short"},
		{text: goodDraft},
	}}
	slot := testSlot()

	result := newGenerator(llm, 2).Generate(context.Background(), slot)

	require.Equal(t, generator.StateAccepted, result.FinalState)
	require.Equal(t, 1, result.Post.Retries)
	require.Equal(t, 2, llm.calls)

	// The retry prompt names the failed criterion.
	require.Contains(t, llm.prompts[1], "rejected")
	require.Contains(t, llm.prompts[1], "too short")
}

func TestGenerate_AtMostMaxRetriesPlusOneCalls(t *testing.T) {
	t.Parallel()

	for _, k := range []int{0, 1, 2, 5} {
		llm := &scriptedLLM{responses: make([]scriptedResponse, k+1)}
		for i := range llm.responses {
			llm.responses[i] = scriptedResponse{text: "junk"}
		}
		slot := testSlot()

		result := newGenerator(llm, k).Generate(context.Background(), slot)

		require.Equal(t, k+1, llm.calls, "k=%d", k)
		require.Equal(t, generator.StateFallback, result.FinalState, "k=%d", k)
		require.NotEmpty(t, result.Post.Text, "k=%d")
	}
}

func TestGenerate_FallbackAfterExhaustedRetries(t *testing.T) {
	t.Parallel()

	llm := &scriptedLLM{responses: []scriptedResponse{
		{text: "nope"}, {text: "nope"}, {text: "nope"},
	}}
	slot := testSlot()

	result := newGenerator(llm, 2).Generate(context.Background(), slot)

	require.Equal(t, generator.StateFallback, result.FinalState)
	require.True(t, result.Post.Fallback)
	require.NotEmpty(t, result.Post.Text)
	require.NotEmpty(t, result.Reason)
	// The slot still exports: status is GENERATED with the fallback flag
	// carried on the post.
	require.Equal(t, models.SlotGenerated, slot.Status)
	require.LessOrEqual(t, result.Post.CharCount, slot.MaxChars)
}

func TestGenerate_ModelErrorsCountAgainstRetries(t *testing.T) {
	t.Parallel()

	llm := &scriptedLLM{responses: []scriptedResponse{
		{err: errors.New("rate limited")},
		{err: errors.New("rate limited")},
		{err: errors.New("rate limited")},
	}}
	slot := testSlot()

	result := newGenerator(llm, 2).Generate(context.Background(), slot)

	require.Equal(t, 3, llm.calls)
	require.Equal(t, generator.StateFallback, result.FinalState)
	require.Contains(t, result.Reason, "model error")
}

func TestGenerate_UnsafeDraftRejected(t *testing.T) {
	t.Parallel()

	unsafe := strings.Replace(goodDraft, "content creation", "the election campaign", 1)
	llm := &scriptedLLM{responses: []scriptedResponse{
		{text: unsafe},
		{text: goodDraft},
	}}

	result := newGenerator(llm, 2).Generate(context.Background(), testSlot())

	require.Equal(t, generator.StateAccepted, result.FinalState)
	require.Equal(t, 2, llm.calls)
	require.Contains(t, llm.prompts[1], "unsafe content")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	g := newGenerator(&scriptedLLM{}, 2)
	slot := testSlot()

	tests := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{name: "good draft", text: goodDraft, ok: true},
		{name: "too short", text: "hi", reason: "too short"},
		{name: "too long", text: strings.Repeat("a", 300), reason: "too long"},
		{
			name:   "placeholder text",
			text:   "Here is your post: [insert hook here] and then some filler to pass length checks easily.",
			reason: "placeholder",
		},
		{
			name:   "bland draft scores below threshold",
			text:   "This paragraph simply describes a neutral topic in plain flat sentences without hooks.",
			reason: "below threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := g.Validate(tt.text, slot)
			require.Equal(t, tt.ok, v.OK)
			if !tt.ok {
				require.Contains(t, v.Reason, tt.reason)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "drafting", generator.StateDrafting.String())
	require.Equal(t, "validating", generator.StateValidating.String())
	require.Equal(t, "accepted", generator.StateAccepted.String())
	require.Equal(t, "fallback", generator.StateFallback.String())
}
