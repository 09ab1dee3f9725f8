// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package value

import (
	"fmt"
	"math"
	"time"
)

// ParseDate parses a YYYY-MM-DD reference date, the only date shape the
// engine's wire formats (law YAML, CLI flags, HTTP requests) accept.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return fromTime(t), nil
}

// FromAny converts a decoded JSON/YAML scalar tree (as produced by
// encoding/json or gopkg.in/yaml.v3 into map[string]any/[]any/string/
// float64/bool/nil) into the engine's Value algebra. Used at the CLI and
// HTTP boundaries, where facts arrive as untyped JSON.
//
// FromAny has no notion of a declared type: a string always becomes Str,
// never guessed as a Date because it happens to look like one. A caller
// that knows the target's declared Parameter/InputField.ValueType should
// use FromAnyTyped (or FromAnyMap with a types map) instead, the same way
// loader/operation.go's literalValue only parses a literal as a date when
// the law explicitly says value_type: date.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case string:
		return Str(t)
	case Date:
		return t
	case map[string]any:
		out := make(Map, len(t))
		for k, e := range t {
			out[k] = FromAny(e)
		}
		return out
	case []any:
		out := make(List, len(t))
		for i, e := range t {
			out[i] = FromAny(e)
		}
		return out
	default:
		return Str(fmt.Sprintf("%v", t))
	}
}

// FromAnyTyped converts v against an explicitly declared kind instead of
// guessing from v's shape. KindDate requires v to be a YYYY-MM-DD string and
// fails otherwise, rather than silently falling back to Str. KindInt accepts
// a whole-valued float64 (every JSON number decodes as float64, never int),
// so a declared-int parameter arriving over HTTP isn't rejected for the
// decoder's choice of Go type. Every other kind defers to FromAny.
func FromAnyTyped(v any, kind Kind) (Value, error) {
	switch kind {
	case KindDate:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value_type date requires a string, got %T", v)
		}
		return ParseDate(s)
	case KindInt:
		if f, ok := v.(float64); ok && f == math.Trunc(f) {
			return Int(int64(f)), nil
		}
	}
	return FromAny(v), nil
}

// FromAnyMap converts a map[string]any (e.g. decoded request facts) into a
// map of parameter name to Value. types names the declared value.Kind of
// every Parameter/InputField the target article knows about (see
// service.Facade.ParameterTypes); a name present in types converts through
// FromAnyTyped, so a string fact that happens to look like a date is only
// parsed as one when the law actually declares it a date. A name absent
// from types (an unrecognised fact, or a nil/empty types map) converts
// through plain FromAny.
func FromAnyMap(m map[string]any, types map[string]Kind) (map[string]Value, error) {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		if kind, ok := types[k]; ok {
			cv, err := FromAnyTyped(v, kind)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", k, err)
			}
			out[k] = cv
			continue
		}
		out[k] = FromAny(v)
	}
	return out, nil
}

// ToAny converts a Value back into a plain Go value suitable for
// encoding/json, the inverse boundary conversion of FromAny.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, NullValue:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case Str:
		return string(t)
	case Date:
		return t.String()
	case List:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToAny(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = ToAny(e)
		}
		return out
	default:
		return v.String()
	}
}

// ToAnyMap converts a map[string]Value (e.g. Result.Outputs) into a
// map[string]any suitable for encoding/json.
func ToAnyMap(m map[string]Value) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = ToAny(v)
	}
	return out
}
