package filter_test

import (
	"testing"

	"github.com/jonesrussell/goslate/internal/filter"
	"github.com/stretchr/testify/require"
)

func allOn() filter.Config {
	return filter.Config{
		Profanity:   true,
		Politics:    true,
		NSFW:        true,
		Competitors: []string{"Typefully", "Hypefury"},
	}
}

func TestFilter_IsSafe(t *testing.T) {
	t.Parallel()

	f := filter.New(allOn())

	tests := []struct {
		name string
		text string
		safe bool
	}{
		{"plain content tip", "3 ways to write better hooks for your next post", true},
		{"profanity", "this shit is getting old", false},
		{"political", "thoughts on the upcoming election?", false},
		{"nsfw", "the best porn alternatives", false},
		{"competitor mention", "I switched from Typefully last week", false},
		{"competitor case-insensitive", "HYPEFURY has a similar feature", false},
		{"empty text", "", false},
		{"whitespace only", "   \n\t", false},
		{"substring is not a word match", "helLo classic assessment", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.safe, f.IsSafe(tt.text))
		})
	}
}

func TestFilter_Check_Category(t *testing.T) {
	t.Parallel()

	f := filter.New(allOn())

	category, safe := f.Check("why I left Typefully")
	require.False(t, safe)
	require.Equal(t, filter.CategoryCompetitor, category)

	category, safe = f.Check("a perfectly fine growth tip")
	require.True(t, safe)
	require.Empty(t, category)
}

func TestFilter_DisabledCategories(t *testing.T) {
	t.Parallel()

	f := filter.New(filter.Config{})

	// With every toggle off and no competitors, only emptiness rejects.
	require.True(t, f.IsSafe("the election results are in, damn"))
	require.False(t, f.IsSafe(""))
}

func TestFilter_CompetitorsAlwaysActive(t *testing.T) {
	t.Parallel()

	f := filter.New(filter.Config{Competitors: []string{"rivalapp"}})
	require.False(t, f.IsSafe("rivalapp just shipped this"))
}
