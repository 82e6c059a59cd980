// Package server implements the sync service: an HTTP/JSON API over the
// item store, with change records, NATS publication, and SSE fan-out.
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/groblegark/ticklist/internal/events"
	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/observe"
	"github.com/groblegark/ticklist/internal/store"
)

// TickServer serves the item API backed by the given store and publisher.
type TickServer struct {
	store     store.Store
	publisher events.Publisher
	registry  *observe.Registry
	stream    *streamHub
}

// NewTickServer returns a new TickServer backed by the given store and publisher.
func NewTickServer(s store.Store, p events.Publisher) *TickServer {
	return &TickServer{
		store:     s,
		publisher: p,
		registry:  observe.NewRegistry(),
		stream:    newStreamHub(),
	}
}

// recordAndPublish persists a change to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *TickServer) recordAndPublish(ctx context.Context, topic, itemID, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "item_id", itemID, "error", err)
		return
	}
	if err := s.store.RecordChange(ctx, &model.Change{
		Topic:   topic,
		ItemID:  itemID,
		Actor:   actor,
		Payload: payload,
	}); err != nil {
		slog.Warn("failed to record change", "topic", topic, "item_id", itemID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "item_id", itemID, "error", err)
	}
	s.streamToClients(topic, event)
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
