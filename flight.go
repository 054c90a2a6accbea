/*
 * Copyright 2025 XTDB Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package xtdb

import (
	"context"

	"github.com/apache/arrow-adbc/go/adbc"
	"github.com/apache/arrow-adbc/go/adbc/driver/flightsql"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// FlightClient talks to the server's Arrow Flight SQL endpoint through the
// ADBC driver. Results stay in Arrow form until the caller asks for maps.
type FlightClient struct {
	config *Config

	db   adbc.Database
	conn adbc.Connection
}

// ConnectFlight opens a Flight SQL connection to the endpoint described by
// config. Close the client to release the connection.
func ConnectFlight(ctx context.Context, config *Config) (*FlightClient, error) {
	if config == nil {
		config = &Config{}
	}

	drv := flightsql.NewDriver(memory.NewGoAllocator())
	db, err := drv.NewDatabase(map[string]string{
		adbc.OptionKeyURI: config.FlightURI(),
	})
	if err != nil {
		return nil, wrapErr("flight database", "", err)
	}

	conn, err := db.Open(ctx)
	if err != nil {
		sneakyClose(db)
		return nil, wrapErr("flight connect", "", err)
	}

	return &FlightClient{config: config, db: db, conn: conn}, nil
}

// Close releases the connection and the underlying database handle.
func (c *FlightClient) Close() error {
	err := c.conn.Close()
	if dbErr := c.db.Close(); err == nil {
		err = dbErr
	}
	return wrapErr("flight close", "", err)
}

// Config returns the configuration the client was created with.
func (c *FlightClient) Config() *Config {
	return c.config
}

// Execute runs a statement that produces no result set and returns the
// affected row count when the server reports one.
func (c *FlightClient) Execute(ctx context.Context, sql string) (int64, error) {
	stmt, err := c.conn.NewStatement()
	if err != nil {
		return 0, wrapErr("flight statement", sql, err)
	}
	defer sneakyClose(stmt)

	if err := stmt.SetSqlQuery(sql); err != nil {
		return 0, wrapErr("flight statement", sql, err)
	}
	affected, err := stmt.ExecuteUpdate(ctx)
	if err != nil {
		return 0, wrapErr("flight execute", sql, err)
	}
	return affected, nil
}

// QueryReader runs a query and returns the raw Arrow record stream.
// Releasing the reader also closes the statement backing it.
func (c *FlightClient) QueryReader(ctx context.Context, sql string) (array.RecordReader, error) {
	stmt, err := c.conn.NewStatement()
	if err != nil {
		return nil, wrapErr("flight statement", sql, err)
	}

	if err := stmt.SetSqlQuery(sql); err != nil {
		sneakyClose(stmt)
		return nil, wrapErr("flight statement", sql, err)
	}
	reader, _, err := stmt.ExecuteQuery(ctx)
	if err != nil {
		sneakyClose(stmt)
		return nil, wrapErr("flight query", sql, err)
	}
	return &stmtReader{RecordReader: reader, stmt: stmt}, nil
}

// QueryMaps runs a query and renders every row as a column name to value
// map, draining the record stream before returning.
func (c *FlightClient) QueryMaps(ctx context.Context, sql string) ([]map[string]any, error) {
	reader, err := c.QueryReader(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer reader.Release()

	var out []map[string]any
	for reader.Next() {
		rows, err := RecordToMaps(reader.Record())
		if err != nil {
			return nil, wrapErr("flight query", sql, err)
		}
		out = append(out, rows...)
	}
	if err := reader.Err(); err != nil {
		return nil, wrapErr("flight query", sql, err)
	}
	return out, nil
}

// stmtReader ties the statement's lifetime to the reader so a single
// Release tears both down.
type stmtReader struct {
	array.RecordReader
	stmt adbc.Statement
}

func (r *stmtReader) Release() {
	r.RecordReader.Release()
	sneakyClose(r.stmt)
}
