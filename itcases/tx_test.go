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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransactionCommit(t *testing.T) {
	c := NewClient(t)

	ctx := context.Background()
	table := CleanTable(t, c)

	tx, err := c.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s RECORDS {_id: 'tx1', value: 'committed'}", table))
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	rows, err := c.QueryMaps(ctx, fmt.Sprintf("SELECT _id, value FROM %s WHERE _id = 'tx1'", table))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "committed", rows[0]["value"])
}

func TestTransactionRollback(t *testing.T) {
	c := NewClient(t)

	ctx := context.Background()
	table := CleanTable(t, c)

	tx, err := c.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s RECORDS {_id: 'gone', value: 'never lands'}", table))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	rows, err := c.QueryMaps(ctx, fmt.Sprintf("SELECT _id FROM %s WHERE _id = 'gone'", table))
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestTransactionWithError(t *testing.T) {
	c := NewClient(t)

	ctx := context.Background()
	table := CleanTable(t, c)

	tx, err := c.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s RECORDS {_id: 'first', value: 'first'}", table))
	require.NoError(t, err)

	_, err = tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s RECORDS {invalid syntax here}", table))
	require.Error(t, err)

	require.NoError(t, tx.Rollback(ctx))

	// the first insert rolled back with the rest
	rows, err := c.QueryMaps(ctx, fmt.Sprintf("SELECT _id FROM %s WHERE _id = 'first'", table))
	require.NoError(t, err)
	require.Empty(t, rows)
}
