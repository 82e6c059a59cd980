package events

import (
	"context"
	"log/slog"

	"github.com/groblegark/ticklist/internal/observe"
)

// Bridge forwards observation-layer change events on one record to a
// Publisher as PropertyChanged payloads on TopicItemProperty. It is the
// glue between an observable record and the sync backend: application
// code wraps a record, and every committed mutation is pushed out.
//
// Publish failures are logged, never surfaced to the mutator — a change
// that committed locally must not fail because the bus is down.
type Bridge struct {
	handles []observe.Handle
}

// NewBridge subscribes to every property of rec (in descriptor order) and
// forwards each change event to pub. Call Close to stop forwarding;
// destroying the record also stops it.
func NewBridge(ctx context.Context, reg *observe.Registry, rec *observe.Record, pub Publisher) (*Bridge, error) {
	itemID := rec.Identity()
	handles, err := reg.SubscribeAll("events.Bridge", rec, func(evt observe.Event) {
		payload := PropertyChanged{
			ItemID:   itemID,
			Property: evt.Property,
			Kind:     evt.Kind,
			Old:      evt.Old,
			New:      evt.New,
			Indices:  evt.Indices,
		}
		if err := pub.Publish(ctx, TopicItemProperty, payload); err != nil {
			slog.Warn("failed to publish property change",
				"item_id", itemID, "property", evt.Property, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Bridge{handles: handles}, nil
}

// Close unsubscribes the bridge from its record. Idempotent.
func (b *Bridge) Close() {
	for _, h := range b.handles {
		h.Unsubscribe()
	}
	b.handles = nil
}
