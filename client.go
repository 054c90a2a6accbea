package xtdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Client is a connection to an XTDB node over the Postgres wire protocol.
type Client struct {
	config *Config
	conn   *pgx.Conn
}

// Connect opens a Postgres wire protocol connection to the node described
// by config.
func Connect(ctx context.Context, config *Config) (*Client, error) {
	conn, err := pgx.Connect(ctx, config.DSN())
	if err != nil {
		return nil, wrapErr("connect", "", err)
	}
	return &Client{config: config, conn: conn}, nil
}

// Close terminates the connection.
func (c *Client) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// Config returns the configuration the client was opened with.
func (c *Client) Config() *Config {
	return c.config
}

// Conn exposes the underlying pgx connection for operations the client
// does not cover.
func (c *Client) Conn() *pgx.Conn {
	return c.conn
}

// Execute runs a statement and discards any result rows.
func (c *Client) Execute(ctx context.Context, sql string, args ...any) error {
	_, err := c.conn.Exec(ctx, sql, args...)
	return wrapErr("execute", sql, err)
}

// Query runs a statement and returns the result rows.
func (c *Client) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapErr("query", sql, err)
	}
	return rows, nil
}

// QueryRow runs a statement expected to return at most one row. Errors
// surface on Scan.
func (c *Client) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.conn.QueryRow(ctx, sql, args...)
}

// QueryMaps runs a query and renders every row as a column name to value
// map.
func (c *Client) QueryMaps(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	rows, err := c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := RowsToMaps(rows)
	if err != nil {
		return nil, wrapErr("query", sql, err)
	}
	return out, nil
}

// Begin starts an explicit transaction. XTDB applies the whole
// transaction as one atomic submission on commit.
func (c *Client) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return nil, wrapErr("begin", "", err)
	}
	return tx, nil
}
