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

// Package cdc replays Debezium change events into XTDB tables. Each event's
// capture time becomes the document's valid-from time, so a replayed table
// keeps the source database's history instead of only its latest state.
package cdc

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Operation codes used by Debezium event envelopes.
const (
	OpCreate = "c"
	OpRead   = "r" // snapshot read
	OpUpdate = "u"
	OpDelete = "d"
)

// Event is one change event in Debezium envelope format.
type Event struct {
	Payload Payload `json:"payload"`
}

// Payload carries the row images and provenance of a change event.
type Payload struct {
	// Op is the operation code: c=create, r=read, u=update, d=delete.
	Op string `json:"op"`
	// TsMs is the capture time in milliseconds since the epoch.
	TsMs int64 `json:"ts_ms"`
	// Source names the database and table the event came from.
	Source Source `json:"source"`
	// Before is the row image before the change; set for deletes.
	Before map[string]any `json:"before"`
	// After is the row image after the change; set for inserts and updates.
	After map[string]any `json:"after"`
}

// Source identifies where a change event originated.
type Source struct {
	DB    string `json:"db"`
	Table string `json:"table"`
}

// Table returns the name of the table the event applies to.
func (e *Event) Table() string {
	return e.Payload.Source.Table
}

// ValidFrom returns the event's capture time as the document valid-from
// instant.
func (e *Event) ValidFrom() time.Time {
	return time.UnixMilli(e.Payload.TsMs).UTC()
}

// Document builds the document to insert for a create, read or update
// event. The source row's id column becomes _id and the capture time
// becomes _valid_from.
func (e *Event) Document() (map[string]any, error) {
	after := e.Payload.After
	if after == nil {
		return nil, fmt.Errorf("event has no after image")
	}
	id, ok := after["id"]
	if !ok {
		return nil, fmt.Errorf("row image has no id column")
	}

	doc := map[string]any{
		"_id":         id,
		"_valid_from": e.ValidFrom().Format(time.RFC3339),
	}
	for k, v := range after {
		if k != "id" {
			doc[k] = v
		}
	}
	return doc, nil
}

// DeleteStatement builds the statement that closes the document's validity
// from the event's capture time onward. History before the capture time
// stays queryable.
func (e *Event) DeleteStatement() (string, error) {
	before := e.Payload.Before
	if before == nil {
		return "", fmt.Errorf("event has no before image")
	}
	id, ok := before["id"]
	if !ok {
		return "", fmt.Errorf("row image has no id column")
	}

	return fmt.Sprintf("DELETE FROM %s FOR PORTION OF VALID_TIME FROM TIMESTAMP '%s' TO NULL WHERE _id = %s",
		e.Table(), e.ValidFrom().Format(time.RFC3339), formatID(id)), nil
}

// formatID renders a source row id as a SQL literal. JSON numbers arrive as
// float64 and are rendered as integers, matching how Debezium emits numeric
// keys.
func formatID(id any) string {
	switch v := id.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case float64:
		return fmt.Sprintf("%d", int64(v))
	default:
		return fmt.Sprint(v)
	}
}

// LoadEvents parses a JSON array of Debezium events.
func LoadEvents(data []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("can't parse events: %w", err)
	}
	return events, nil
}

// LoadEventsFile reads and parses a Debezium events file.
func LoadEventsFile(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read events file: %w", err)
	}
	return LoadEvents(data)
}

// Store is the slice of the client the replayer needs.
type Store interface {
	InsertRecords(ctx context.Context, table string, docs ...map[string]any) error
	Execute(ctx context.Context, sql string, args ...any) error
}

// Options controls how Apply replays events.
type Options struct {
	// ContinueOnError keeps replaying after a failed event and reports all
	// failures together at the end.
	ContinueOnError bool
	// DryRun validates and counts events without touching the store.
	DryRun bool
}

// Stats summarizes one replay run.
type Stats struct {
	Inserts int
	Updates int
	Deletes int
	Skipped int
	// Tables lists every table touched, sorted by name.
	Tables []string
}

// Applied returns the number of events written to the store.
func (s Stats) Applied() int {
	return s.Inserts + s.Updates + s.Deletes
}

// Apply replays events into the store in order. With DryRun set the store
// may be nil.
func Apply(ctx context.Context, store Store, events []Event, opts Options) (Stats, error) {
	var stats Stats
	tables := map[string]bool{}
	errs := new(multierror.Error)

	for i := range events {
		event := &events[i]

		var err error
		switch event.Payload.Op {
		case OpCreate, OpRead:
			if err = applyInsert(ctx, store, event, opts.DryRun); err == nil {
				stats.Inserts++
			}
		case OpUpdate:
			if err = applyInsert(ctx, store, event, opts.DryRun); err == nil {
				stats.Updates++
			}
		case OpDelete:
			if err = applyDelete(ctx, store, event, opts.DryRun); err == nil {
				stats.Deletes++
			}
		default:
			log.Printf("[WARN] unknown operation %q in event %d", event.Payload.Op, i)
			stats.Skipped++
			continue
		}

		if err != nil {
			err = fmt.Errorf("event %d: %w", i, err)
			if !opts.ContinueOnError {
				return stats, err
			}
			errs = multierror.Append(errs, err)
			stats.Skipped++
			continue
		}
		tables[event.Table()] = true
	}

	stats.Tables = sortedKeys(tables)
	return stats, errs.ErrorOrNil()
}

func applyInsert(ctx context.Context, store Store, event *Event, dry bool) error {
	doc, err := event.Document()
	if err != nil {
		return err
	}
	if dry {
		return nil
	}

	if err := store.InsertRecords(ctx, event.Table(), doc); err != nil {
		return err
	}
	log.Printf("[INFO] [%s] insert id=%v (%d fields)", event.Table(), doc["_id"], len(doc)-2)
	return nil
}

func applyDelete(ctx context.Context, store Store, event *Event, dry bool) error {
	stmt, err := event.DeleteStatement()
	if err != nil {
		return err
	}
	if dry {
		return nil
	}

	if err := store.Execute(ctx, stmt); err != nil {
		return err
	}
	log.Printf("[INFO] [%s] delete id=%v", event.Table(), event.Payload.Before["id"])
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
