package model

import (
	"encoding/json"
	"time"
)

// Change is a persisted change-log record, mirroring what is published to NATS.
type Change struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	ItemID    string          `json:"item_id"`
	Actor     string          `json:"actor,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
