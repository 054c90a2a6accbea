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
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// RecordToMaps renders every row of an Arrow record as a column name to
// value map.
func RecordToMaps(rec arrow.Record) ([]map[string]any, error) {
	schema := rec.Schema()
	rows := make([]map[string]any, 0, int(rec.NumRows()))
	for i := 0; i < int(rec.NumRows()); i++ {
		row := make(map[string]any, int(rec.NumCols()))
		for j := 0; j < int(rec.NumCols()); j++ {
			value, err := columnValue(rec.Column(j), i)
			if err != nil {
				return nil, err
			}
			row[schema.Field(j).Name] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columnValue extracts the i-th value of col as a plain Go value. Scalar
// columns map to Go scalars; nested columns fall back to the array's
// marshal form.
func columnValue(col arrow.Array, i int) (any, error) {
	if col.IsNull(i) {
		return nil, nil
	}
	switch col := col.(type) {
	case *array.Boolean:
		return col.Value(i), nil
	case *array.Int8:
		return int64(col.Value(i)), nil
	case *array.Int16:
		return int64(col.Value(i)), nil
	case *array.Int32:
		return int64(col.Value(i)), nil
	case *array.Int64:
		return col.Value(i), nil
	case *array.Float32:
		return float64(col.Value(i)), nil
	case *array.Float64:
		return col.Value(i), nil
	case *array.String:
		return col.Value(i), nil
	case *array.LargeString:
		return col.Value(i), nil
	case *array.Timestamp:
		dt, ok := col.DataType().(*arrow.TimestampType)
		if !ok {
			return nil, fmt.Errorf("unexpected timestamp type %s", col.DataType())
		}
		return col.Value(i).ToTime(dt.Unit), nil
	case *array.Date32:
		return col.Value(i).ToTime(), nil
	case *array.Date64:
		return col.Value(i).ToTime(), nil
	case *array.Null:
		return nil, nil
	default:
		return col.GetOneForMarshal(i), nil
	}
}
