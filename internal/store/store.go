package store

import (
	"context"

	"github.com/groblegark/ticklist/internal/model"
)

// Store defines the persistence interface for items. This is the sync
// backend's storage contract: plain create/read/update/delete plus a
// change log mirroring published events.
type Store interface {
	// Item CRUD
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context, filter model.ItemFilter) ([]*model.Item, int, error) // returns items, total count, error
	UpdateItem(ctx context.Context, item *model.Item) error
	MarkDone(ctx context.Context, id string, doneBy string) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error

	// Change log
	RecordChange(ctx context.Context, change *model.Change) error
	ListChanges(ctx context.Context, itemID string) ([]*model.Change, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
