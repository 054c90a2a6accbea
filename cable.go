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
	"time"
)

// RecordCable accumulates documents and flushes them to a table as batched
// RECORDS inserts, either when the pending batch grows past BatchSize bytes
// or when BatchInterval elapses with documents queued.
type RecordCable struct {
	c *Client

	table       string
	currentSize uint64
	sendDocs    []*sendDoc
	sendDocCh   chan *sendDoc

	BatchSize     uint64
	BatchInterval time.Duration
}

type sendDoc struct {
	data []byte

	err  chan error
	done chan struct{}
}

// RecordCable creates a cable that inserts documents into table. Call Start
// before sending and Close when no more documents will be sent.
func (c *Client) RecordCable(table string) *RecordCable {
	cable := &RecordCable{
		c:             c,
		table:         table,
		currentSize:   0,
		sendDocs:      make([]*sendDoc, 0),
		sendDocCh:     make(chan *sendDoc),
		BatchSize:     1024 * 1024, // default to 1MiB
		BatchInterval: time.Second, // default to 1 second
	}

	return cable
}

func (c *RecordCable) Start(ctx context.Context) {
	go func() {
		ticker := time.Tick(c.BatchInterval)

		stop, tick := false, false
		for {
			if (tick || stop || c.currentSize > c.BatchSize) && len(c.sendDocs) > 0 {
				sendDocs := c.sendDocs
				go func() {
					docs := make([][]byte, 0, len(sendDocs))
					for _, sendDoc := range sendDocs {
						docs = append(docs, sendDoc.data)
					}

					err := c.c.insertParams(ctx, c.table, docs, JSONOID)
					if err != nil {
						for _, sendDoc := range sendDocs {
							sendDoc.err <- err
							close(sendDoc.done)
						}
						return
					}

					for _, sendDoc := range sendDocs {
						close(sendDoc.err)
						close(sendDoc.done)
					}
				}()

				tick = false
				c.currentSize = 0
				// the flush goroutine still holds the old slice
				c.sendDocs = nil
			}

			if stop {
				break
			}

			select {
			case <-ticker:
				if len(c.sendDocs) > 0 {
					tick = true
				}
			case sendDoc, more := <-c.sendDocCh:
				if !more {
					stop = true
					continue
				}

				c.currentSize += uint64(len(sendDoc.data))
				c.sendDocs = append(c.sendDocs, sendDoc)
			}
		}
	}()
}

// Send queues one document for the next flush. A missing _id is filled in
// before the document is serialized. The done channel closes once the
// document's batch has been written; the err channel delivers at most one
// error before done closes.
func (c *RecordCable) Send(doc map[string]any) (<-chan struct{}, <-chan error) {
	sendDoc := &sendDoc{
		err:  make(chan error, 1),
		done: make(chan struct{}, 1),
	}

	EnsureID(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		sendDoc.err <- err
		close(sendDoc.done)
		return sendDoc.done, sendDoc.err
	}
	sendDoc.data = data

	c.sendDocCh <- sendDoc
	return sendDoc.done, sendDoc.err
}

// Close stops the cable. Documents queued before Close are still flushed.
func (c *RecordCable) Close() {
	close(c.sendDocCh)
}
