package xtdb

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Table references a table by name. XTDB creates tables on first insert,
// so there is nothing to create up front.
type Table struct {
	c *Client

	// Schema is the name of the schema.
	//
	// This is optional and may be empty; the server resolves bare names
	// against public.
	Schema string
	// Table is the name of the table.
	Table string
}

func (c *Client) Table(tableName string) *Table {
	return &Table{
		c:     c,
		Table: tableName,
	}
}

// Erase removes every document in the table along with its history.
func (t *Table) Erase(ctx context.Context) error {
	return t.c.Execute(ctx, fmt.Sprintf(`ERASE FROM %s`, t.Identifier()))
}

// FieldSchema describes one column of a table.
type FieldSchema struct {
	Name string
	Type string
}

// Schema is the ordered column list of a table.
type Schema []*FieldSchema

// TableSchema reads the table's columns from the information schema.
func (t *Table) TableSchema(ctx context.Context) (Schema, error) {
	schemaName := "public"
	if t.Schema != "" {
		schemaName = t.Schema
	}

	rows, err := t.c.Query(ctx, fmt.Sprintf(`
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = %s
		  AND table_schema = %s
		ORDER BY column_name
	`, quoteLiteral(t.Table), quoteLiteral(schemaName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schema Schema
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, err
		}
		schema = append(schema, &FieldSchema{
			Name: name,
			Type: dataType,
		})
	}
	return schema, rows.Err()
}

// Identifier renders the quoted, optionally schema-qualified table name.
func (t *Table) Identifier() string {
	var b bytes.Buffer
	if t.Schema != "" {
		b.WriteString(quoteIdent(t.Schema))
		b.WriteByte('.')
	}
	b.WriteString(quoteIdent(t.Table))
	return b.String()
}

// quoteIdent renders s as a double-quoted SQL identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteLiteral renders s as a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
