package sync

import (
	"context"
	"database/sql"
	"sort"

	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/store"
)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	items   map[string]*model.Item
	changes []*model.Change
}

func newMockStore() *mockStore {
	return &mockStore{
		items: make(map[string]*model.Item),
	}
}

func (m *mockStore) CreateItem(_ context.Context, item *model.Item) error {
	m.items[item.ItemID] = item
	return nil
}

func (m *mockStore) GetItem(_ context.Context, id string) (*model.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return item, nil
}

func (m *mockStore) ListItems(_ context.Context, _ model.ItemFilter) ([]*model.Item, int, error) {
	var result []*model.Item
	for _, item := range m.items {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ItemID < result[j].ItemID
	})
	return result, len(result), nil
}

func (m *mockStore) UpdateItem(_ context.Context, item *model.Item) error {
	m.items[item.ItemID] = item
	return nil
}

func (m *mockStore) MarkDone(_ context.Context, id string, doneBy string) (*model.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	item.IsDone = true
	item.Status = model.StatusDone
	item.DoneBy = doneBy
	return item, nil
}

func (m *mockStore) DeleteItem(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockStore) RecordChange(_ context.Context, change *model.Change) error {
	change.ID = int64(len(m.changes) + 1)
	m.changes = append(m.changes, change)
	return nil
}

func (m *mockStore) ListChanges(_ context.Context, itemID string) ([]*model.Change, error) {
	var result []*model.Change
	for _, c := range m.changes {
		if c.ItemID == itemID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
