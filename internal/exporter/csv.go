package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jonesrussell/goslate/internal/models"
)

// csvHeader is the spreadsheet-friendly column layout.
var csvHeader = []string{
	"scheduled_at", "platform", "content_type", "status",
	"keywords", "text", "char_count", "quality_score", "fallback",
}

type csvWriter struct{}

func (csvWriter) Extension() string { return "csv" }

func (csvWriter) Write(slate *models.Slate, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, slot := range orderedSlots(slate) {
		post, ok := slate.Posts[slot.ID]

		record := []string{
			slot.ScheduledAt.Format("2006-01-02 15:04"),
			slot.Platform,
			slot.ContentType,
			string(slot.Status),
			strings.Join(slot.Keywords, "; "),
			"",
			"0",
			"0.00",
			"false",
		}
		if ok {
			record[5] = post.Text
			record[6] = strconv.Itoa(post.CharCount)
			record[7] = fmt.Sprintf("%.2f", post.QualityScore)
			record[8] = strconv.FormatBool(post.Fallback)
		}

		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return f.Close()
}
