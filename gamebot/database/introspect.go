package database

import (
	"context"
	"fmt"
)

// Only these tables may be inspected through the admin surface.
var inspectableTables = map[string]bool{
	"users":                   true,
	"quest_definitions":       true,
	"user_quests":             true,
	"achievement_definitions": true,
	"user_achievements":       true,
	"game_stats":              true,
	"cooldowns":               true,
	"guild_settings":          true,
	"guild_cooldowns":         true,
}

const maxInspectLimit = 50

// InspectableTables returns the allow-list in no particular order.
func InspectableTables() []string {
	out := make([]string, 0, len(inspectableTables))
	for t := range inspectableTables {
		out = append(out, t)
	}
	return out
}

// TableCount returns the row count of an allow-listed table.
func (db *DB) TableCount(ctx context.Context, table string) (int64, error) {
	if !inspectableTables[table] {
		return 0, fmt.Errorf("table %q is not inspectable", table)
	}

	var count int64
	row := db.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM "%s"`, table))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// EnumerateRows returns a bounded page of rows from an allow-listed table as
// column-name keyed maps. The limit is clamped so the admin surface can never
// pull an unbounded result set.
func (db *DB) EnumerateRows(ctx context.Context, table string, limit, offset int) ([]map[string]any, error) {
	if !inspectableTables[table] {
		return nil, fmt.Errorf("table %q is not inspectable", table)
	}
	if limit <= 0 || limit > maxInspectLimit {
		limit = maxInspectLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := db.QueryWithLog(ctx,
		fmt.Sprintf(`SELECT * FROM "%s" ORDER BY id LIMIT $1 OFFSET $2`, table),
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
