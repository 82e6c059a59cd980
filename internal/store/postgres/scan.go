package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/schema"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanItem scans a single row into a model.Item.
// The row must contain columns in the order defined by itemColumns.
func scanItem(row scannable) (*model.Item, error) {
	var item model.Item
	var (
		owner    sql.NullString
		doneBy   sql.NullString
		tags     []byte
		meta     []byte
		watchers []byte
	)

	err := row.Scan(
		&item.ItemID,
		&item.Body,
		&item.IsDone,
		&item.Priority,
		&owner,
		&item.Status,
		&doneBy,
		&item.CreatedAt,
		&item.UpdatedAt,
		&tags,
		&meta,
		&watchers,
	)
	if err != nil {
		return nil, err
	}

	item.Owner = owner.String
	item.DoneBy = doneBy.String
	if err := unmarshalCollections(&item, tags, meta, watchers); err != nil {
		return nil, err
	}

	return &item, nil
}

// scanItemWithTotal scans a row that has a leading total_count column
// followed by the standard item columns. Used by queryListItems with
// COUNT(*) OVER().
func scanItemWithTotal(row scannable) (*model.Item, int, error) {
	var total int
	var item model.Item
	var (
		owner    sql.NullString
		doneBy   sql.NullString
		tags     []byte
		meta     []byte
		watchers []byte
	)

	err := row.Scan(
		&total,
		&item.ItemID,
		&item.Body,
		&item.IsDone,
		&item.Priority,
		&owner,
		&item.Status,
		&doneBy,
		&item.CreatedAt,
		&item.UpdatedAt,
		&tags,
		&meta,
		&watchers,
	)
	if err != nil {
		return nil, 0, err
	}

	item.Owner = owner.String
	item.DoneBy = doneBy.String
	if err := unmarshalCollections(&item, tags, meta, watchers); err != nil {
		return nil, 0, err
	}

	return &item, total, nil
}

func unmarshalCollections(item *model.Item, tags, meta, watchers []byte) error {
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &item.Meta); err != nil {
			return fmt.Errorf("unmarshal meta: %w", err)
		}
	}
	if len(watchers) > 0 {
		var set schema.Set
		if err := json.Unmarshal(watchers, &set); err != nil {
			return fmt.Errorf("unmarshal watchers: %w", err)
		}
		item.Watchers = set
	}
	return nil
}

// scanChange scans a single row into a model.Change.
func scanChange(row scannable) (*model.Change, error) {
	var c model.Change
	var (
		actor   sql.NullString
		payload []byte
	)
	err := row.Scan(&c.ID, &c.Topic, &c.ItemID, &actor, &payload, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Actor = actor.String
	if len(payload) > 0 {
		c.Payload = json.RawMessage(payload)
	}
	return &c, nil
}

// scanChanges scans multiple rows into a slice of model.Change pointers.
func scanChanges(rows *sql.Rows) ([]*model.Change, error) {
	var changes []*model.Change
	for rows.Next() {
		c, err := scanChange(rows)
		if err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbValue marshals a collection for a JSONB column; nil and empty
// collections are stored as SQL NULL.
func jsonbValue(v any) []byte {
	switch c := v.(type) {
	case []string:
		if len(c) == 0 {
			return nil
		}
	case map[string]string:
		if len(c) == 0 {
			return nil
		}
	case schema.Set:
		if len(c) == 0 {
			return nil
		}
	case nil:
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
