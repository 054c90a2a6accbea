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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xtdb/xtdb-go/transit"
)

// Parameter OIDs for document payloads. The Postgres type system has no
// name for these, so inserts spell them out on the wire.
const (
	// JSONOID is the builtin json type OID.
	JSONOID = uint32(114)
	// TransitOID marks a parameter carrying transit-JSON text.
	TransitOID = uint32(16384)
)

// InsertRecords writes documents into table with INSERT ... RECORDS,
// sending each document as a JSON parameter. Table names are trusted
// identifiers; documents come from the caller.
func (c *Client) InsertRecords(ctx context.Context, table string, docs ...map[string]any) error {
	if len(docs) == 0 {
		return nil
	}
	params := make([][]byte, 0, len(docs))
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return wrapErr("insert records", "", err)
		}
		params = append(params, data)
	}
	return c.insertParams(ctx, table, params, JSONOID)
}

// InsertTransit writes documents into table with INSERT ... RECORDS,
// sending each document encoded as transit-JSON with the transit OID.
// Documents already in wire form pass through as transit.Value trees or
// raw strings via transit.Encode's input set.
func (c *Client) InsertTransit(ctx context.Context, table string, docs ...any) error {
	if len(docs) == 0 {
		return nil
	}
	params := make([][]byte, 0, len(docs))
	for _, doc := range docs {
		params = append(params, []byte(transit.Encode(doc)))
	}
	return c.insertParams(ctx, table, params, TransitOID)
}

// InsertTransitLines writes raw transit-JSON documents, one per line,
// into table. Blank lines are skipped. This is the shape of *-transit.json
// seed files.
func (c *Client) InsertTransitLines(ctx context.Context, table string, lines string) (int, error) {
	params := make([][]byte, 0)
	for _, line := range strings.Split(lines, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		params = append(params, []byte(line))
	}
	if len(params) == 0 {
		return 0, nil
	}
	if err := c.insertParams(ctx, table, params, TransitOID); err != nil {
		return 0, err
	}
	return len(params), nil
}

// insertParams drives INSERT ... RECORDS through the low-level protocol.
// RECORDS statements cannot be described during prepare, so the parameter
// OIDs are spelled out instead of going through the regular Exec path.
func (c *Client) insertParams(ctx context.Context, table string, params [][]byte, oid uint32) error {
	placeholders := make([]string, len(params))
	oids := make([]uint32, len(params))
	formats := make([]int16, len(params))
	for i := range params {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		oids[i] = oid
		formats[i] = 0 // text format
	}
	sql := fmt.Sprintf("INSERT INTO %s RECORDS %s", table, strings.Join(placeholders, ", "))

	res := c.conn.PgConn().ExecParams(ctx, sql, params, oids, formats, []int16{0})
	if _, err := res.Close(); err != nil {
		return wrapErr("insert records", sql, err)
	}
	return nil
}

// EnsureID returns the document's _id, generating a random UUID when the
// document has none. The document is modified in place.
func EnsureID(doc map[string]any) string {
	if id, ok := doc["_id"]; ok {
		return fmt.Sprint(id)
	}
	id := uuid.NewString()
	doc["_id"] = id
	return id
}
