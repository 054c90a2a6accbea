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
	"io"
)

// Error wraps a failure from the server with the operation and, when one
// was involved, the statement that produced it.
type Error struct {
	Op    string
	Query string
	Err   error
}

func (e *Error) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("xtdb: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("xtdb: %s: %v\nquery: %s", e.Op, e.Err, e.Query)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op, query string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Query: query, Err: err}
}

// sneakyClose closes c and ignores the error.
// This is useful to release statements and handles when we don't care
// about the error.
func sneakyClose(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
