package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/groblegark/ticklist/internal/events"
	"github.com/groblegark/ticklist/internal/idgen"
	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/observe"
	"github.com/groblegark/ticklist/internal/schema"
)

// createItemInput holds transport-agnostic parameters for creating an item.
type createItemInput struct {
	Body      string            `json:"body"`
	Priority  int64             `json:"priority"`
	Owner     string            `json:"owner"`
	Tags      []string          `json:"tags"`
	Meta      map[string]string `json:"meta"`
	Watchers  []string          `json:"watchers"`
	CreatedBy string            `json:"created_by"`
}

// createItem validates input, persists a new item, and publishes an
// ItemCreated event. Returns inputError for validation failures.
func (s *TickServer) createItem(ctx context.Context, in createItemInput) (*model.Item, error) {
	if in.Body == "" {
		return nil, inputError("body is required")
	}

	now := time.Now().UTC()
	id, err := idgen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	item := &model.Item{
		ItemID:    id,
		Body:      in.Body,
		Priority:  in.Priority,
		Owner:     in.Owner,
		Status:    model.StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      in.Tags,
		Meta:      in.Meta,
		Watchers:  schema.NewSet(in.Watchers...),
	}

	if err := model.ValidateItem(item); err != nil {
		return nil, inputError("invalid item: " + err.Error())
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicItemCreated, item.ItemID, in.CreatedBy, events.ItemCreated{Item: item})

	return item, nil
}

// updateItem applies a JSON patch to an item through an observable record:
// the stored item is wrapped in a record, each patched property is set by
// name (with kind checking against the item's descriptor), and the change
// events collected during mutation become the ItemUpdated changes map.
// Per-property events go out on the property topic via an events.Bridge.
func (s *TickServer) updateItem(ctx context.Context, id, actor string, patch map[string]json.RawMessage) (*model.Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := observe.FromStruct(s.registry, item, item.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap item: %w", err)
	}
	defer rec.Destroy()

	// Validate the whole patch before touching the record, so a rejected
	// patch publishes nothing: subscribers must never see a property change
	// that was not persisted.
	type patchOp struct {
		name  string
		value any
	}
	desc := rec.Descriptor()
	ops := make([]patchOp, 0, len(patch))
	for _, p := range desc.Properties() {
		raw, ok := patch[p.Name]
		if !ok {
			continue
		}
		switch p.Name {
		case "itemId", "createdAt", "updatedAt":
			return nil, inputError(p.Name + " is read-only")
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, inputError("invalid value for " + p.Name)
		}
		v, err := schema.FromJSON(p.Kind, generic)
		if err != nil {
			return nil, inputError(fmt.Sprintf("invalid value for %s: %v", p.Name, err))
		}
		ops = append(ops, patchOp{name: p.Name, value: v})
	}
	if len(ops) != len(patch) {
		for name := range patch {
			if !desc.Has(name) {
				return nil, inputError("unknown property " + name)
			}
		}
	}

	var changed []observe.Event
	if _, err := s.registry.SubscribeAll("server.patch", rec, func(evt observe.Event) {
		changed = append(changed, evt)
	}); err != nil {
		return nil, fmt.Errorf("failed to observe item: %w", err)
	}

	bridge, err := events.NewBridge(ctx, s.registry, rec, s.publisher)
	if err != nil {
		return nil, fmt.Errorf("failed to bridge item events: %w", err)
	}
	defer bridge.Close()

	// Apply in descriptor order so change records are deterministic.
	for _, op := range ops {
		if err := rec.Set(op.name, op.value); err != nil {
			return nil, inputError(err.Error())
		}
	}

	updated := *item
	if err := rec.Export(&updated); err != nil {
		return nil, fmt.Errorf("failed to export item: %w", err)
	}
	updated.UpdatedAt = time.Now().UTC()
	if updated.IsDone && updated.Status == model.StatusOpen {
		updated.Status = model.StatusDone
	}
	if !updated.IsDone && updated.Status == model.StatusDone {
		updated.Status = model.StatusOpen
		updated.DoneBy = ""
	}

	if err := model.ValidateItem(&updated); err != nil {
		return nil, inputError("invalid item: " + err.Error())
	}

	if err := s.store.UpdateItem(ctx, &updated); err != nil {
		return nil, err
	}

	changes := make(map[string]any, len(changed))
	for _, evt := range changed {
		changes[evt.Property] = evt.New
	}
	s.recordAndPublish(ctx, events.TopicItemUpdated, updated.ItemID, actor, events.ItemUpdated{
		Item:    &updated,
		Changes: changes,
	})

	return &updated, nil
}

// handleCreateItem handles POST /v1/items.
func (s *TickServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in createItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.createItem(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// handleListItems handles GET /v1/items.
func (s *TickServer) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ItemFilter{
		Owner:  q.Get("owner"),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}

	if v := q.Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.Status(st))
		}
	}
	if v := q.Get("tags"); v != "" {
		filter.Tags = strings.Split(v, ",")
	}
	if v := q.Get("priority"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.Priority = &n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	items, total, err := s.store.ListItems(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	// Ensure items is never null in JSON output.
	if items == nil {
		items = []*model.Item{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

// handleGetItem handles GET /v1/items/{id}.
func (s *TickServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	item, err := s.store.GetItem(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// handleUpdateItem handles PATCH /v1/items/{id}. The body is a flat JSON
// object of property name to new value, using the property names from the
// item's schema descriptor.
func (s *TickServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "empty patch")
		return
	}

	actor := r.URL.Query().Get("actor")
	item, err := s.updateItem(r.Context(), id, actor, patch)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
			return
		}
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// handleMarkDone handles POST /v1/items/{id}/done.
// Accepts an optional JSON body with "done_by".
func (s *TickServer) handleMarkDone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	doneBy, _ := body["done_by"].(string)

	item, err := s.store.MarkDone(r.Context(), id, doneBy)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mark item done")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicItemDone, item.ItemID, doneBy, events.ItemDone{
		Item:   item,
		DoneBy: doneBy,
	})

	writeJSON(w, http.StatusOK, item)
}

// handleDeleteItem handles DELETE /v1/items/{id}.
func (s *TickServer) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicItemDeleted, id, "", events.ItemDeleted{ItemID: id})

	w.WriteHeader(http.StatusNoContent)
}

// handleGetChanges handles GET /v1/items/{id}/changes.
func (s *TickServer) handleGetChanges(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	changes, err := s.store.ListChanges(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list changes")
		return
	}
	if changes == nil {
		changes = []*model.Change{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"changes": changes})
}

// handleGetSchema handles GET /v1/schema/{type}. It exposes the property
// catalog for a record type so clients can discover names and kinds.
func (s *TickServer) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	typeName := r.PathValue("type")
	if typeName != "item" {
		writeError(w, http.StatusNotFound, "unknown type "+typeName)
		return
	}

	desc, err := schema.Describe(&model.Item{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to describe type")
		return
	}

	writeJSON(w, http.StatusOK, desc)
}
