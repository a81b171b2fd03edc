package exporter

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonesrussell/goslate/internal/models"
)

type markdownWriter struct{}

func (markdownWriter) Extension() string { return "md" }

func (markdownWriter) Write(slate *models.Slate, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Content Calendar — %s\n\n", slate.Date.Format("Monday, 2 January 2006"))
	fmt.Fprintf(&b, "Run `%s`, %d slots.\n\n", slate.RunID, len(slate.Slots))

	for _, slot := range orderedSlots(slate) {
		fmt.Fprintf(&b, "## %s — %s (%s)\n\n",
			slot.ScheduledAt.Format("15:04"), slot.Platform, slot.ContentType)

		if len(slot.Keywords) > 0 {
			fmt.Fprintf(&b, "Keywords: %s\n\n", strings.Join(slot.Keywords, ", "))
		}

		post, ok := slate.Posts[slot.ID]
		if !ok {
			b.WriteString("_No content generated._\n\n")
			continue
		}

		b.WriteString("> " + strings.ReplaceAll(post.Text, "\n", "\n> ") + "\n\n")
		fmt.Fprintf(&b, "%d chars, score %.2f", post.CharCount, post.QualityScore)
		if post.Fallback {
			b.WriteString(", **fallback**")
		}
		b.WriteString("\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), filePerm); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
