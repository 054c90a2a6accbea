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

package transit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Encode renders v as one transit document. Encoding is total: values
// outside the known set degrade to their printed string form. Accepted
// inputs are nil, booleans, strings, integers, floats, time.Time,
// []any, []string, map[string]any, map[string]string, and *Value trees.
// Native map keys are emitted in sorted order; Value maps keep their
// entry order.
func Encode(v any) string {
	var b strings.Builder
	writeAny(&b, v)
	return b.String()
}

func writeAny(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case *Value:
		writeValue(b, x)
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case string:
		writeText(b, x)
	case int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int8:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int16:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint8:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint16:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(x, 10))
	case float32:
		writeFloat(b, float64(x))
	case float64:
		writeFloat(b, x)
	case json.Number:
		b.WriteString(x.String())
	case time.Time:
		writeQuoted(b, "~t"+x.Format(time.RFC3339))
	case []any:
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			writeAny(b, item)
		}
		b.WriteByte(']')
	case []string:
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			writeText(b, item)
		}
		b.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(`["^ "`)
		for _, k := range keys {
			b.WriteByte(',')
			writeQuoted(b, keywordSigil+k)
			b.WriteByte(',')
			writeAny(b, x[k])
		}
		b.WriteByte(']')
	case map[string]string:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(`["^ "`)
		for _, k := range keys {
			b.WriteByte(',')
			writeQuoted(b, keywordSigil+k)
			b.WriteByte(',')
			writeText(b, x[k])
		}
		b.WriteByte(']')
	default:
		writeQuoted(b, fmt.Sprint(x))
	}
}

func writeValue(b *strings.Builder, v *Value) {
	switch v.Kind() {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.boolVal))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.intVal, 10))
	case KindFloat:
		writeFloat(b, v.floatVal)
	case KindString:
		writeText(b, v.strVal)
	case KindKeyword:
		writeQuoted(b, keywordSigil+v.strVal)
	case KindTagged:
		writeQuoted(b, "~"+string(v.tagVal)+v.strVal)
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.arrVal {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, item)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteString(`["^ "`)
		for _, e := range v.mapVal {
			b.WriteByte(',')
			writeQuoted(b, keywordSigil+e.Key)
			b.WriteByte(',')
			writeValue(b, e.Value)
		}
		b.WriteByte(']')
	case KindExtension:
		b.WriteByte('[')
		writeQuoted(b, extSigil+v.extVal.Tag)
		b.WriteByte(',')
		writeValue(b, v.extVal.Value)
		b.WriteByte(']')
	default:
		b.WriteString("null")
	}
}

// writeText emits a plain string. Leading reserved characters are escaped
// with "~" so the text reads back as a string, not as a sigil form.
func writeText(b *strings.Builder, s string) {
	if len(s) > 0 && (s[0] == '~' || s[0] == '^') {
		s = "~" + s
	}
	writeQuoted(b, s)
}

func writeQuoted(b *strings.Builder, s string) {
	data, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail.
		panic(err)
	}
	b.Write(data)
}

func writeFloat(b *strings.Builder, f float64) {
	b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}
