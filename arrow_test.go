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

package xtdb_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"
	xtdb "github.com/xtdb/xtdb-go"
)

func TestRecordToMaps(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "_id", Type: arrow.BinaryTypes.String},
		{Name: "age", Type: arrow.PrimitiveTypes.Int64},
		{Name: "level", Type: arrow.PrimitiveTypes.Int32},
		{Name: "salary", Type: arrow.PrimitiveTypes.Float64},
		{Name: "active", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "joined", Type: arrow.FixedWidthTypes.Timestamp_us},
		{Name: "note", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	joined, err := arrow.TimestampFromTime(
		time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), arrow.Microsecond)
	require.NoError(t, err)

	b.Field(0).(*array.StringBuilder).Append("alice")
	b.Field(1).(*array.Int64Builder).Append(30)
	b.Field(2).(*array.Int32Builder).Append(5)
	b.Field(3).(*array.Float64Builder).Append(125000.5)
	b.Field(4).(*array.BooleanBuilder).Append(true)
	b.Field(5).(*array.TimestampBuilder).Append(joined)
	b.Field(6).(*array.StringBuilder).AppendNull()

	b.Field(0).(*array.StringBuilder).Append("bob")
	b.Field(1).(*array.Int64Builder).Append(25)
	b.Field(2).(*array.Int32Builder).Append(3)
	b.Field(3).(*array.Float64Builder).Append(95000.0)
	b.Field(4).(*array.BooleanBuilder).Append(false)
	b.Field(5).(*array.TimestampBuilder).Append(joined)
	b.Field(6).(*array.StringBuilder).Append("on leave")

	rec := b.NewRecord()
	defer rec.Release()

	rows, err := xtdb.RecordToMaps(rec)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, map[string]any{
		"_id":    "alice",
		"age":    int64(30),
		"level":  int64(5),
		"salary": 125000.5,
		"active": true,
		"joined": time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		"note":   nil,
	}, rows[0])

	require.Equal(t, "bob", rows[1]["_id"])
	require.Equal(t, "on leave", rows[1]["note"])
}

func TestRecordToMapsNestedFallback(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "_id", Type: arrow.BinaryTypes.String},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String)},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	b.Field(0).(*array.StringBuilder).Append("alice")
	lb := b.Field(1).(*array.ListBuilder)
	lb.Append(true)
	vb := lb.ValueBuilder().(*array.StringBuilder)
	vb.Append("admin")
	vb.Append("developer")

	rec := b.NewRecord()
	defer rec.Release()

	rows, err := xtdb.RecordToMaps(rec)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	raw, ok := rows[0]["tags"].(json.RawMessage)
	require.True(t, ok)
	require.JSONEq(t, `["admin","developer"]`, string(raw))
}
