// Package exporter writes the day's slate to calendar files. Export errors
// are fatal: a run that cannot persist its output has produced nothing.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
)

// File permissions for exported calendars.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// writer renders one output format.
type writer interface {
	// Extension is the file extension without the dot.
	Extension() string
	// Write renders the slate to path.
	Write(slate *models.Slate, path string) error
}

// Exporter writes a slate in each configured format.
type Exporter struct {
	log     logger.Interface
	cfg     config.ExportConfig
	writers map[string]writer
}

// New creates an exporter for the configured formats.
func New(log logger.Interface, cfg config.ExportConfig) *Exporter {
	return &Exporter{
		log: log.WithComponent("exporter"),
		cfg: cfg,
		writers: map[string]writer{
			"csv":      csvWriter{},
			"markdown": markdownWriter{},
			"json":     jsonWriter{},
		},
	}
}

// Export writes the slate in every configured format and returns the paths
// written. Any write failure aborts the export and returns an error; partial
// files from earlier formats may remain on disk.
func (e *Exporter) Export(slate *models.Slate) ([]string, error) {
	if err := os.MkdirAll(e.cfg.Dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	formats := e.cfg.Formats
	if len(formats) == 0 {
		formats = []string{"csv", "markdown", "json"}
	}

	stem := fmt.Sprintf("calendar_%s", slate.Date.Format("2006-01-02"))

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		w, ok := e.writers[format]
		if !ok {
			return nil, fmt.Errorf("unknown export format %q", format)
		}

		path := filepath.Join(e.cfg.Dir, stem+"."+w.Extension())
		if err := w.Write(slate, path); err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", format, err)
		}

		e.log.Info("Exported calendar", "format", format, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// orderedSlots returns the slate's slots sorted by scheduled time, with
// platform then slot ID breaking ties, so every format lists the day in
// posting order.
func orderedSlots(slate *models.Slate) []models.ContentSlot {
	slots := make([]models.ContentSlot, len(slate.Slots))
	copy(slots, slate.Slots)
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].ScheduledAt.Equal(slots[j].ScheduledAt) {
			return slots[i].ScheduledAt.Before(slots[j].ScheduledAt)
		}
		if slots[i].Platform != slots[j].Platform {
			return slots[i].Platform < slots[j].Platform
		}
		return slots[i].ID < slots[j].ID
	})
	return slots
}
