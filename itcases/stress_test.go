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
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	xtdb "github.com/xtdb/xtdb-go"
)

const (
	stressWorkers  = 4
	stressBatch    = 500
	stressDuration = 15 * time.Second
)

func ingestUsers(t testing.TB, c *xtdb.Client, table string, idStart int64) {
	docs := make([]map[string]any, 0, stressBatch)
	for i := 0; i < stressBatch; i++ {
		docs = append(docs, map[string]any{
			"_id":   idStart + int64(i),
			"name":  gofakeit.Name(),
			"email": gofakeit.Email(),
			"age":   gofakeit.Number(18, 80),
		})
	}
	require.NoError(t, c.InsertRecords(context.Background(), table, docs...))
}

func countUsers(t testing.TB, c *xtdb.Client, table string) {
	var count int
	err := c.QueryRow(context.Background(),
		fmt.Sprintf("SELECT COUNT(*) AS n FROM %s", table)).Scan(&count)
	require.NoError(t, err)
}

func queryTables(t testing.TB, c *xtdb.Client) {
	_, err := c.QueryMaps(context.Background(),
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' LIMIT 10")
	require.NoError(t, err)
}

func TestStressReadWrite(t *testing.T) {
	if os.Getenv("XTDB_STRESS") == "" {
		t.Skip("XTDB_STRESS not set")
	}

	// one connection per worker, a pgx conn is not safe for concurrent use
	clients := make([]*xtdb.Client, stressWorkers)
	for i := range clients {
		clients[i] = NewClient(t)
	}

	table := CleanTable(t, clients[0])
	idGen := &atomic.Int64{}

	ingestUsers(t, clients[0], table, idGen.Load())
	idGen.Add(stressBatch)

	wg := sync.WaitGroup{}
	jobs := make(chan func(c *xtdb.Client), 100)
	for i := 0; i < stressWorkers; i++ {
		c := clients[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				job(c)
			}
		}()
	}

	deadline := time.After(stressDuration)
	n := 0
loop:
	for {
		select {
		case <-deadline:
			break loop
		default:
			switch n % 3 {
			case 0:
				start := idGen.Load()
				idGen.Add(stressBatch)
				jobs <- func(c *xtdb.Client) { ingestUsers(t, c, table, start) }
			case 1:
				jobs <- func(c *xtdb.Client) { countUsers(t, c, table) }
			case 2:
				jobs <- func(c *xtdb.Client) { queryTables(t, c) }
			}
			n++
			time.Sleep(100 * time.Millisecond)
		}
	}

	close(jobs)
	wg.Wait()
	t.Logf("ingested %d documents into %s", idGen.Load(), table)
}
