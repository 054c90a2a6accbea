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

// Package transit implements the transit-JSON encoding XTDB uses to carry
// rich values over the Postgres wire protocol.
//
// On the wire a transit document is plain JSON with a small tagged grammar
// on top:
//
//   - a map is an array whose first element is the marker "^ ", followed by
//     alternating keys and values: ["^ ", "~:name", "Alice", "~:age", 30]
//   - a keyword is a string with the "~:" prefix: "~:name"
//   - a tagged scalar is a string with a "~" plus one tag character, most
//     commonly an instant: "~t2020-01-15"
//   - a tagged composite is a two-element array whose first element starts
//     with "~#": ["~#time/zoned-date-time", "2020-01-15T00:00Z[UTC]"]
//
// Decode parses a document into a Value tree that keeps every tag, and
// Encode renders native Go values or Value trees back to text. Native
// converts a Value tree to plain Go maps and slices, stripping sigils the
// way loose consumers expect.
package transit

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindKeyword
	KindTagged
	KindArray
	KindMap
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindKeyword:
		return "keyword"
	case KindTagged:
		return "tagged"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindExtension:
		return "extension"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry is a single key/value pair of a map value. Map entries keep the
// order in which their keys first appeared.
type Entry struct {
	Key   string
	Value *Value
}

// Extension is a tagged composite, the decoded form of ["~#tag", payload].
// The tag is kept verbatim so callers decide whether to resolve it or pass
// it through untouched.
type Extension struct {
	Tag   string
	Value *Value
}

// Value is a single transit value. A nil *Value behaves as null.
type Value struct {
	kind Kind

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string // string content, keyword name, or tagged payload
	tagVal   byte   // tagged scalar tag character
	arrVal   []*Value
	mapVal   []Entry
	extVal   *Extension
}

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Float creates a floating-point value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Keyword creates a keyword value. The name carries no "~:" sigil; it is
// added back on encode.
func Keyword(name string) *Value {
	return &Value{kind: KindKeyword, strVal: name}
}

// Tagged creates a tagged scalar such as Tagged('t', "2020-01-15").
func Tagged(tag byte, payload string) *Value {
	return &Value{kind: KindTagged, tagVal: tag, strVal: payload}
}

// Time creates the tagged scalar form of an instant, "~t" + RFC 3339.
func Time(v time.Time) *Value {
	return Tagged(timeTag, v.Format(time.RFC3339))
}

// Arr creates an array value.
func Arr(items ...*Value) *Value {
	return &Value{kind: KindArray, arrVal: items}
}

// Map creates a map value from entries, in order.
func Map(entries ...Entry) *Value {
	return &Value{kind: KindMap, mapVal: entries}
}

// Field creates an Entry for Map construction.
func Field(key string, value *Value) Entry {
	return Entry{Key: key, Value: value}
}

// Ext creates a tagged composite value.
func Ext(tag string, payload *Value) *Value {
	return &Value{kind: KindExtension, extVal: &Extension{Tag: tag, Value: payload}}
}

// Kind returns the variant held by v.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean content.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("transit: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsInt returns the integer content.
func (v *Value) AsInt() (int64, error) {
	if v.Kind() != KindInt {
		return 0, fmt.Errorf("transit: expected int, got %s", v.Kind())
	}
	return v.intVal, nil
}

// AsFloat returns the floating-point content.
func (v *Value) AsFloat() (float64, error) {
	if v.Kind() != KindFloat {
		return 0, fmt.Errorf("transit: expected float, got %s", v.Kind())
	}
	return v.floatVal, nil
}

// AsStr returns the text content of a string, a keyword (its bare name),
// or a tagged scalar (its payload).
func (v *Value) AsStr() (string, error) {
	switch v.Kind() {
	case KindString, KindKeyword, KindTagged:
		return v.strVal, nil
	default:
		return "", fmt.Errorf("transit: expected string, got %s", v.Kind())
	}
}

// Tag returns the tag character of a tagged scalar.
func (v *Value) Tag() (byte, error) {
	if v.Kind() != KindTagged {
		return 0, fmt.Errorf("transit: expected tagged scalar, got %s", v.Kind())
	}
	return v.tagVal, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("transit: expected array, got %s", v.Kind())
	}
	return v.arrVal, nil
}

// AsMap returns the map entries in insertion order.
func (v *Value) AsMap() ([]Entry, error) {
	if v.Kind() != KindMap {
		return nil, fmt.Errorf("transit: expected map, got %s", v.Kind())
	}
	return v.mapVal, nil
}

// AsExtension returns the tagged composite content.
func (v *Value) AsExtension() (*Extension, error) {
	if v.Kind() != KindExtension {
		return nil, fmt.Errorf("transit: expected extension, got %s", v.Kind())
	}
	return v.extVal, nil
}

// AsTime parses the instant carried by a "~t" tagged scalar or by a
// time-class extension such as "time/zoned-date-time". Accepted payload
// shapes are RFC 3339 with or without sub-second digits, the same with a
// trailing zone name in brackets, a timestamp without seconds, and a bare
// date.
func (v *Value) AsTime() (time.Time, error) {
	switch v.Kind() {
	case KindTagged:
		if v.tagVal != timeTag {
			return time.Time{}, fmt.Errorf("transit: tag %q does not carry an instant", string(v.tagVal))
		}
		return parseInstant(v.strVal)
	case KindExtension:
		ext := v.extVal
		payload, err := ext.Value.AsStr()
		if err != nil {
			return time.Time{}, fmt.Errorf("transit: extension %s payload: %w", ext.Tag, err)
		}
		return parseInstant(payload)
	default:
		return time.Time{}, fmt.Errorf("transit: expected instant, got %s", v.Kind())
	}
}

// Len returns the number of elements of an array or entries of a map.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arrVal)
	case KindMap:
		return len(v.mapVal)
	default:
		return 0
	}
}

// Get returns the value stored under key in a map, or nil.
func (v *Value) Get(key string) *Value {
	if v.Kind() != KindMap {
		return nil
	}
	for _, e := range v.mapVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Set stores val under key in a map. A repeated key overwrites in place,
// keeping the position of its first occurrence.
func (v *Value) Set(key string, val *Value) {
	if v.Kind() != KindMap {
		panic("transit: cannot set on non-map")
	}
	for i := range v.mapVal {
		if v.mapVal[i].Key == key {
			v.mapVal[i].Value = val
			return
		}
	}
	v.mapVal = append(v.mapVal, Entry{Key: key, Value: val})
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("transit: expected array, got %s", v.Kind())
	}
	if i < 0 || i >= len(v.arrVal) {
		return nil, fmt.Errorf("transit: index %d out of bounds (len=%d)", i, len(v.arrVal))
	}
	return v.arrVal[i], nil
}

// Append adds an element to an array.
func (v *Value) Append(val *Value) {
	if v.Kind() != KindArray {
		panic("transit: cannot append to non-array")
	}
	v.arrVal = append(v.arrVal, val)
}

// Number returns the numeric content of an int or float value.
func (v *Value) Number() (float64, bool) {
	switch v.Kind() {
	case KindInt:
		return float64(v.intVal), true
	case KindFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// Native converts v to plain Go values. Keywords flatten to their bare
// name, tagged scalars to their payload text, and extensions to their
// payload's native form. Maps become map[string]any, which does not
// preserve entry order.
func (v *Value) Native() any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal
	case KindFloat:
		return v.floatVal
	case KindString, KindKeyword, KindTagged:
		return v.strVal
	case KindArray:
		out := make([]any, 0, len(v.arrVal))
		for _, item := range v.arrVal {
			out = append(out, item.Native())
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.mapVal))
		for _, e := range v.mapVal {
			out[e.Key] = e.Value.Native()
		}
		return out
	case KindExtension:
		return v.extVal.Value.Native()
	default:
		return nil
	}
}

// String renders v in its wire form.
func (v *Value) String() string {
	return Encode(v)
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseInstant(s string) (time.Time, error) {
	// Zoned payloads like "2020-01-15T00:00Z[UTC]" carry the zone name
	// after the offset. The offset alone pins the instant.
	if strings.HasSuffix(s, "]") {
		if j := strings.LastIndexByte(s, '['); j >= 0 {
			s = s[:j]
		}
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("transit: cannot parse instant %q", s)
}
