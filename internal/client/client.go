// Package client provides a transport-agnostic interface for the ticklist
// sync service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/schema"
)

// TickClient is the interface that all ticklist CLI commands use to
// communicate with the sync service. It is implemented by HTTPClient.
type TickClient interface {
	// Item CRUD
	CreateItem(ctx context.Context, req *CreateItemRequest) (*model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error)
	UpdateItem(ctx context.Context, id string, patch map[string]any) (*model.Item, error)
	MarkDone(ctx context.Context, id string, doneBy string) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error

	// Change log
	GetChanges(ctx context.Context, itemID string) ([]*model.Change, error)

	// Schema discovery
	GetSchema(ctx context.Context, typeName string) (*schema.Descriptor, error)

	// Events
	StreamEvents(ctx context.Context, topics []string, fn func(topic string, data []byte)) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateItemRequest holds parameters for creating an item.
type CreateItemRequest struct {
	Body      string            `json:"body"`
	Priority  int64             `json:"priority"`
	Owner     string            `json:"owner,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
	Watchers  []string          `json:"watchers,omitempty"`
	CreatedBy string            `json:"created_by,omitempty"`
}

// ListItemsRequest holds filter parameters for listing items.
type ListItemsRequest struct {
	Status   []string
	Owner    string
	Tags     []string
	Search   string
	Priority *int64
	Sort     string
	Limit    int
	Offset   int
}

// ListItemsResponse is the paginated response from ListItems.
type ListItemsResponse struct {
	Items []*model.Item `json:"items"`
	Total int           `json:"total"`
}
