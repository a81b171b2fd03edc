package reflector_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
	"github.com/jonesrussell/goslate/internal/reflector"
)

func newReflector() *reflector.Reflector {
	return reflector.New(logger.NewNoOp(), nil)
}

func post(platform, text string, likes int) models.RawPost {
	return models.RawPost{Platform: platform, Text: text, Likes: likes}
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "stop words and short tokens removed",
			text: "How to grow an audience",
			want: []string{"grow", "audience", "grow audience"},
		},
		{
			name: "case insensitive",
			text: "Content CREATION content creation",
			want: []string{"content", "creation", "content creation", "creation content"},
		},
		{
			name: "punctuation stripped",
			text: "writing, tools!",
			want: []string{"writing", "tools", "writing tools"},
		},
		{
			name: "numbers excluded from unigrams",
			text: "100 followers overnight",
			want: []string{"followers", "overnight", "followers overnight"},
		},
		{name: "empty text", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, reflector.ExtractKeywords(tt.text))
		})
	}
}

func TestAnalyze_Aggregates(t *testing.T) {
	t.Parallel()

	posts := []models.RawPost{
		post("reddit", "content strategy", 10),
		post("reddit", "content strategy", 30),
		post("hackernews", "content tools", 100),
	}

	insights := newReflector().Analyze(context.Background(), "run-1", posts)
	require.NotEmpty(t, insights)

	byKeyword := make(map[string]models.Insight, len(insights))
	for _, in := range insights {
		byKeyword[in.Keyword] = in
	}

	content := byKeyword["content"]
	require.Equal(t, 3, content.Frequency)
	require.InDelta(t, (10.0+30.0+100.0)/3.0, content.AvgEngagement, 0.001)
	require.Equal(t, "reddit", content.Platform)

	strategy := byKeyword["strategy"]
	require.Equal(t, 2, strategy.Frequency)
	require.InDelta(t, 20.0, strategy.AvgEngagement, 0.001)
}

func TestAnalyze_DeterministicUnderReordering(t *testing.T) {
	t.Parallel()

	posts := []models.RawPost{
		post("reddit", "alpha topic", 50),
		post("reddit", "beta topic", 50),
		post("hackernews", "gamma subject", 10),
		post("hackernews", "delta subject", 10),
	}

	base := newReflector().Analyze(context.Background(), "run-1", posts)

	for seed := range 5 {
		shuffled := make([]models.RawPost, len(posts))
		copy(shuffled, posts)
		rand.New(rand.NewSource(int64(seed))).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := newReflector().Analyze(context.Background(), "run-1", shuffled)
		require.Equal(t, base, got, "seed %d", seed)
	}
}

func TestAnalyze_EqualScoreTieBreaksAlphabetically(t *testing.T) {
	t.Parallel()

	// Two posts with the same engagement yield equal scores for their
	// distinct keywords.
	posts := []models.RawPost{
		post("reddit", "zebra", 10),
		post("reddit", "apple", 10),
	}

	insights := newReflector().Analyze(context.Background(), "run-1", posts)
	require.Len(t, insights, 2)
	require.Equal(t, "apple", insights[0].Keyword)
	require.Equal(t, "zebra", insights[1].Keyword)
}

func TestAnalyze_OrderedByCompositeScore(t *testing.T) {
	t.Parallel()

	posts := []models.RawPost{
		post("reddit", "viral", 1000),
		post("reddit", "viral", 1000),
		post("reddit", "quiet", 1),
	}

	insights := newReflector().Analyze(context.Background(), "run-1", posts)
	require.Equal(t, "viral", insights[0].Keyword)

	for i := 1; i < len(insights); i++ {
		require.GreaterOrEqual(t,
			reflector.Score(&insights[i-1]),
			reflector.Score(&insights[i]),
		)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	t.Parallel()

	posts := []models.RawPost{
		post("reddit", "building in public works", 42),
		post("hackernews", "shipping fast and building in public", 7),
	}

	r := newReflector()
	first := r.Analyze(context.Background(), "run-1", posts)
	second := r.Analyze(context.Background(), "run-1", posts)
	require.Equal(t, first, second)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	t.Parallel()

	insights := newReflector().Analyze(context.Background(), "run-1", nil)
	require.Empty(t, insights)
}
