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
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Wire grammar markers.
const (
	mapMarker    = "^ "
	keywordSigil = "~:"
	extSigil     = "~#"
	timeTag      = byte('t')
)

// ParseError reports malformed transit input.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transit: %s: %v", e.Msg, e.Err)
	}
	return "transit: " + e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode parses one transit document. Input that is not valid JSON fails
// with a *ParseError. The tagged grammar is resolved recursively: the
// "^ " marker turns an array into a map, "~:" and "~<tag>" prefixes turn
// strings into keywords and tagged scalars, and a two-element array led
// by a "~#" string becomes an extension.
func Decode(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Msg: "invalid document", Err: err}
	}
	if dec.More() {
		return nil, &ParseError{Msg: "trailing data after document"}
	}
	return decodeJSON(raw)
}

// DecodeString parses one transit document from a string.
func DecodeString(s string) (*Value, error) {
	return Decode([]byte(s))
}

func decodeJSON(raw any) (*Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("bad number %q", v.String()), Err: err}
		}
		return Float(f), nil
	case string:
		return decodeText(v), nil
	case []any:
		return decodeArray(v)
	case map[string]any:
		// Transit never writes JSON objects, but servers hand them back
		// for plain JSON columns. Decode entries with keys sorted.
		return decodeObject(v)
	default:
		return nil, &ParseError{Msg: fmt.Sprintf("unsupported element %T", raw)}
	}
}

func decodeText(s string) *Value {
	if len(s) < 2 || s[0] != '~' {
		return Str(s)
	}
	switch s[1] {
	case ':':
		return Keyword(s[2:])
	case '~', '^':
		// Escaped literal.
		return Str(s[1:])
	case '#':
		// A bare "~#tag" outside the two-element array form carries no
		// payload. Keep it as plain text.
		return Str(s)
	default:
		return Tagged(s[1], s[2:])
	}
}

func decodeArray(items []any) (*Value, error) {
	if len(items) > 0 {
		if s, ok := items[0].(string); ok {
			if s == mapMarker {
				return decodeMapBody(items[1:])
			}
			if len(items) == 2 && strings.HasPrefix(s, extSigil) {
				payload, err := decodeJSON(items[1])
				if err != nil {
					return nil, err
				}
				return Ext(s[len(extSigil):], payload), nil
			}
		}
	}
	out := Arr()
	for _, item := range items {
		elem, err := decodeJSON(item)
		if err != nil {
			return nil, err
		}
		out.Append(elem)
	}
	return out, nil
}

// decodeMapBody walks alternating keys and values. A trailing unpaired
// key is dropped. A repeated key overwrites the earlier value in place.
func decodeMapBody(body []any) (*Value, error) {
	m := Map()
	for i := 0; i+1 < len(body); i += 2 {
		key, err := decodeJSON(body[i])
		if err != nil {
			return nil, err
		}
		val, err := decodeJSON(body[i+1])
		if err != nil {
			return nil, err
		}
		m.Set(mapKey(key), val)
	}
	return m, nil
}

// mapKey flattens a decoded key to its text form, stripping the keyword
// sigil the way every transit consumer does. Numeric and other exotic
// keys keep their literal form.
func mapKey(k *Value) string {
	switch k.Kind() {
	case KindString, KindKeyword, KindTagged:
		return k.strVal
	default:
		return Encode(k)
	}
}

func decodeObject(obj map[string]any) (*Value, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := Map()
	for _, k := range keys {
		val, err := decodeJSON(obj[k])
		if err != nil {
			return nil, err
		}
		m.Set(strings.TrimPrefix(k, keywordSigil), val)
	}
	return m, nil
}
