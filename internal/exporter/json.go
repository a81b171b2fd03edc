package exporter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonesrussell/goslate/internal/models"
)

type jsonWriter struct{}

func (jsonWriter) Extension() string { return "json" }

// jsonEntry flattens a slot with its post for machine consumers.
type jsonEntry struct {
	models.ContentSlot
	Post *models.GeneratedPost `json:"post,omitempty"`
}

type jsonCalendar struct {
	RunID string      `json:"run_id"`
	Date  string      `json:"date"`
	Slots []jsonEntry `json:"slots"`
}

func (jsonWriter) Write(slate *models.Slate, path string) error {
	cal := jsonCalendar{
		RunID: slate.RunID,
		Date:  slate.Date.Format("2006-01-02"),
		Slots: make([]jsonEntry, 0, len(slate.Slots)),
	}

	for _, slot := range orderedSlots(slate) {
		entry := jsonEntry{ContentSlot: slot}
		if post, ok := slate.Posts[slot.ID]; ok {
			p := post
			entry.Post = &p
		}
		cal.Slots = append(cal.Slots, entry)
	}

	data, err := json.MarshalIndent(cal, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal calendar: %w", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
