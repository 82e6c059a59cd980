package events

import (
	"context"

	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/observe"
)

// Event topic constants
const (
	TopicItemCreated = "ticklist.item.created"
	TopicItemUpdated = "ticklist.item.updated"
	TopicItemDone    = "ticklist.item.done"
	TopicItemDeleted = "ticklist.item.deleted"

	// Fine-grained property change events, forwarded from the
	// observation layer by Bridge.
	TopicItemProperty = "ticklist.item.property"
)

// Event types

type ItemCreated struct {
	Item *model.Item `json:"item"`
}

type ItemUpdated struct {
	Item    *model.Item    `json:"item"`
	Changes map[string]any `json:"changes"` // property name -> new value
}

type ItemDone struct {
	Item   *model.Item `json:"item"`
	DoneBy string      `json:"done_by,omitempty"`
}

type ItemDeleted struct {
	ItemID string `json:"item_id"`
}

// PropertyChanged is one observation-layer change event on one property
// of one item. Old and New carry whole values for setting events and the
// single affected element for element-wise collection events; Indices is
// present only for ordered-list events.
type PropertyChanged struct {
	ItemID   string             `json:"item_id"`
	Property string             `json:"property"`
	Kind     observe.ChangeKind `json:"kind"`
	Old      any                `json:"old,omitempty"`
	New      any                `json:"new,omitempty"`
	Indices  []int              `json:"indices,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
