package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/groblegark/ticklist/internal/model"
)

// itemColumns is the column list used for SELECT statements on the items table.
const itemColumns = `item_id, body, is_done, priority, owner, status, done_by,
	created_at, updated_at, tags, meta, watchers`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateItem(ctx context.Context, db executor, item *model.Item) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO items (
			item_id, body, is_done, priority, owner, status, done_by,
			created_at, updated_at, tags, meta, watchers
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12
		)`,
		item.ItemID,
		item.Body,
		item.IsDone,
		item.Priority,
		nullString(item.Owner),
		string(item.Status),
		nullString(item.DoneBy),
		item.CreatedAt,
		item.UpdatedAt,
		jsonbValue(item.Tags),
		jsonbValue(item.Meta),
		jsonbValue(item.Watchers),
	)
	return err
}

func queryGetItem(ctx context.Context, db executor, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = $1`, id)
	return scanItem(row)
}

func queryListItems(ctx context.Context, db executor, filter model.ItemFilter) ([]*model.Item, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.Owner != "" {
		whereClauses = append(whereClauses, "owner = "+nextArg())
		args = append(args, filter.Owner)
	}

	if filter.Priority != nil {
		whereClauses = append(whereClauses, "priority = "+nextArg())
		args = append(args, *filter.Priority)
	}

	if len(filter.Tags) > 0 {
		for _, tag := range filter.Tags {
			p := nextArg()
			whereClauses = append(whereClauses, fmt.Sprintf("tags @> to_jsonb(ARRAY[%s::text])", p))
			args = append(args, tag)
		}
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses, fmt.Sprintf("body ILIKE '%%' || %s || '%%'", p))
		args = append(args, filter.Search)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + itemColumns + " FROM items" + whereSQL + " ORDER BY " + parseSortClause(filter.Sort)

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	var total int
	for rows.Next() {
		item, t, err := scanItemWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan items: %w", err)
		}
		total = t
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan items: %w", err)
	}

	return items, total, nil
}

func queryUpdateItem(ctx context.Context, db executor, item *model.Item) error {
	return db.QueryRowContext(ctx, `
		UPDATE items SET
			body = $2,
			is_done = $3,
			priority = $4,
			owner = $5,
			status = $6,
			done_by = $7,
			updated_at = NOW(),
			tags = $8,
			meta = $9,
			watchers = $10
		WHERE item_id = $1
		RETURNING updated_at`,
		item.ItemID,
		item.Body,
		item.IsDone,
		item.Priority,
		nullString(item.Owner),
		string(item.Status),
		nullString(item.DoneBy),
		jsonbValue(item.Tags),
		jsonbValue(item.Meta),
		jsonbValue(item.Watchers),
	).Scan(&item.UpdatedAt)
}

func queryMarkDone(ctx context.Context, db executor, id string, doneBy string) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE items
		SET is_done = TRUE, status = 'done', done_by = $2, updated_at = NOW()
		WHERE item_id = $1
		RETURNING `+itemColumns,
		id, doneBy,
	)
	return scanItem(row)
}

func queryDeleteItem(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM items WHERE item_id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryRecordChange(ctx context.Context, db executor, c *model.Change) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO changes (topic, item_id, actor, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		c.Topic, c.ItemID, c.Actor, []byte(c.Payload),
	).Scan(&c.ID, &c.CreatedAt)
}

func queryListChanges(ctx context.Context, db executor, itemID string) ([]*model.Change, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, item_id, actor, payload, created_at
		FROM changes
		WHERE item_id = $1
		ORDER BY created_at ASC`,
		itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChanges(rows)
}

func parseSortClause(sort string) string {
	if sort == "" {
		return "created_at DESC"
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"priority": true, "created_at": true, "updated_at": true,
		"body": true, "status": true, "owner": true,
	}
	if !allowed[col] {
		return "created_at DESC"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
