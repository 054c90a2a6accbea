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

/*
Package xtdb provides a lightweight client for XTDB over its two wire
protocols: the Postgres wire protocol and Arrow Flight SQL.

# Client

Use Connect to open a Postgres wire protocol connection. This is the major
entrance for running SQL and ingesting records:

	client, err := xtdb.Connect(ctx, &xtdb.Config{
		Host: "<xtdb-host>",
	})

# Insert Records

XTDB creates tables on first insert; there is no CREATE TABLE. Documents go
in with the RECORDS syntax, either as SQL text or as JSON parameters:

	err := client.InsertRecords(ctx, "users",
		map[string]any{"_id": "jms", "name": "James"},
		map[string]any{"_id": "joe", "name": "Joe"},
	)

For a steady stream of documents, use a RecordCable to batch writes in the
background:

	cable := client.RecordCable("events")
	cable.Start(ctx)
	defer cable.Close()

	done, errCh := cable.Send(map[string]any{"kind": "click"})

# Query Data

Query returns pgx rows; QueryMaps renders every row as a column name to
value map:

	rows, err := client.QueryMaps(ctx, "SELECT * FROM users ORDER BY _id")

# Transit Columns

Connections opened with Config.FallbackOutputFormat set to "transit"
receive transit-JSON text for column types that have no Postgres wire
representation. Decode them with the transit package:

	v, err := transit.DecodeString(raw)

InsertTransit sends documents the other way, encoded as transit-JSON with
the transit parameter OID.

# Flight SQL

ConnectFlight opens an ADBC connection to the node's Arrow Flight SQL
endpoint and exposes queries as Arrow record batches:

	flight, err := xtdb.ConnectFlight(ctx, &xtdb.Config{Host: "<xtdb-host>"})
	defer flight.Close()

	rows, err := flight.QueryMaps(ctx, "SELECT 1 AS x")
*/
package xtdb
