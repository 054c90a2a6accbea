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

package itcases

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	xtdb "github.com/xtdb/xtdb-go"
)

func TestInsertRecordsFixture(t *testing.T) {
	c := NewClient(t)

	ctx := context.Background()
	table := CleanTable(t, c)

	data, err := os.ReadFile("testdata/sample-users.json")
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(data, &docs))

	require.NoError(t, c.InsertRecords(ctx, table, docs...))

	rows, err := c.QueryMaps(ctx, fmt.Sprintf("SELECT _id, name, age FROM %s ORDER BY _id", table))
	require.NoError(t, err)
	require.Len(t, rows, len(docs))
	require.Equal(t, "alice", rows[0]["_id"])
	require.Equal(t, "Alice Smith", rows[0]["name"])
	require.EqualValues(t, 30, rows[0]["age"])
}

func TestInsertRecordsGenerated(t *testing.T) {
	c := NewClient(t)

	ctx := context.Background()
	table := CleanTable(t, c)

	const n = 100
	docs := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, map[string]any{
			"_id":   i,
			"name":  gofakeit.Name(),
			"email": gofakeit.Email(),
			"age":   gofakeit.Number(18, 80),
		})
	}
	require.NoError(t, c.InsertRecords(ctx, table, docs...))

	var count int
	err := c.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) AS n FROM %s", table)).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, n, count)
}

func TestInsertRecordsFillsMissingID(t *testing.T) {
	c := NewClient(t)

	ctx := context.Background()
	table := CleanTable(t, c)

	doc := map[string]any{"name": gofakeit.Name()}
	id := xtdb.EnsureID(doc)

	require.NoError(t, c.InsertRecords(ctx, table, doc))

	rows, err := c.QueryMaps(ctx, fmt.Sprintf("SELECT _id FROM %s", table))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, id, rows[0]["_id"])
}
