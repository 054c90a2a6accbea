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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_runDry(t *testing.T) {
	opts := options{Dry: true, Dbg: true}
	opts.PositionalArgs.EventsFile = "testdata/events.json"
	setupLog(opts.Dbg)

	require.NoError(t, run(opts))
}

func Test_runMissingEventsFile(t *testing.T) {
	opts := options{Dry: true}
	opts.PositionalArgs.EventsFile = "testdata/no-such-file.json"

	err := run(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't load events")
}
