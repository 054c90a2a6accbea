package xtdb

import (
	"github.com/jackc/pgx/v5"
)

// RowsToMaps drains rows into one column name to value map per row and
// closes them. Column types the driver does not know come through as the
// text the server rendered, which under a transit fallback connection is
// transit-JSON.
func RowsToMaps(rows pgx.Rows) ([]map[string]any, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
