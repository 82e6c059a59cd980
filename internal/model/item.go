package model

import (
	"time"

	"github.com/groblegark/ticklist/internal/schema"
)

// Status represents the current state of an item.
type Status string

const (
	StatusOpen     Status = "open"
	StatusDone     Status = "done"
	StatusArchived Status = "archived"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusDone, StatusArchived:
		return true
	}
	return false
}

// Item is the core to-do record. The schema tags declare the property
// names seen by the observation layer and by subscribers; json tags drive
// the sync service's wire format.
type Item struct {
	ItemID    string            `json:"item_id" schema:"itemId"`
	Body      string            `json:"body" schema:"body"`
	IsDone    bool              `json:"is_done" schema:"isDone"`
	Priority  int64             `json:"priority" schema:"priority"`
	Owner     string            `json:"owner,omitempty" schema:"owner"`
	CreatedAt time.Time         `json:"created_at" schema:"createdAt"`
	UpdatedAt time.Time         `json:"updated_at" schema:"updatedAt"`
	Tags      []string          `json:"tags,omitempty" schema:"tags"`
	Meta      map[string]string `json:"meta,omitempty" schema:"meta"`
	Watchers  schema.Set        `json:"watchers,omitempty" schema:"watchers"`

	// Status and DoneBy are sync-service bookkeeping, not observable
	// properties in their own right.
	Status Status `json:"status" schema:"-"`
	DoneBy string `json:"done_by,omitempty" schema:"-"`
}

// ItemFilter selects items in list queries.
type ItemFilter struct {
	Status   []Status
	Owner    string
	Tags     []string
	Search   string
	Priority *int64
	Sort     string
	Limit    int
	Offset   int
}
