package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ItemCount int       `json:"item_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes all items from the store as JSONL to w, sorted by
// item ID, each with its change history embedded.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	// Fetch all items (no filter, no limit).
	items, _, err := s.ListItems(ctx, model.ItemFilter{Sort: "created_at"})
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ItemID < items[j].ItemID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		ItemCount: len(items),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	// Write items, each followed by its change records.
	for _, item := range items {
		if err := enc.Encode(record{Type: "item", Data: item}); err != nil {
			return fmt.Errorf("encode item %s: %w", item.ItemID, err)
		}

		changes, err := s.ListChanges(ctx, item.ItemID)
		if err != nil {
			return fmt.Errorf("list changes for %s: %w", item.ItemID, err)
		}
		for _, c := range changes {
			if err := enc.Encode(record{Type: "change", Data: c}); err != nil {
				return fmt.Errorf("encode change %d: %w", c.ID, err)
			}
		}
	}

	return nil
}
