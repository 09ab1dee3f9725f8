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

import "strings"

// Get implements GET(subject, path): dotted-path traversal over Map/List
// values. A missing key or an out-of-range/non-numeric list index yields
// Null, not an error — GET is a lookup, never a type assertion.
func Get(subject Value, path string) Value {
	cur := subject
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		switch c := cur.(type) {
		case Map:
			v, ok := c[seg]
			if !ok {
				return Null
			}
			cur = v
		case List:
			idx, err := parseIndex(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return Null
			}
			cur = c[idx]
		default:
			return Null
		}
	}
	return cur
}

func parseIndex(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, &TypeError{Op: "GET", Operands: nil}
		}
		n = n*10 + int(r-'0')
	}
	if s == "" {
		return 0, &TypeError{Op: "GET", Operands: nil}
	}
	return n, nil
}

// Concat implements CONCAT: canonical string formatting and joining of
// values (integers plain, floats trailing-zero-stripped, dates
// YYYY-MM-DD, via each Value's String()).
func Concat(vs []Value) Value {
	var b strings.Builder
	for _, v := range vs {
		b.WriteString(v.String())
	}
	return Str(b.String())
}

// And implements strict two-valued logical AND. Both operands must be Bool;
// there is no Kleene/trinary short-circuit-on-unknown here.
func And(a, b Value) (Value, error) {
	ab, aok := a.(Bool)
	bb, bok := b.(Bool)
	if !aok || !bok {
		return nil, typeErr("AND", a, b)
	}
	return Bool(bool(ab) && bool(bb)), nil
}

// Or implements strict two-valued logical OR.
func Or(a, b Value) (Value, error) {
	ab, aok := a.(Bool)
	bb, bok := b.(Bool)
	if !aok || !bok {
		return nil, typeErr("OR", a, b)
	}
	return Bool(bool(ab) || bool(bb)), nil
}

// Not implements logical negation.
func Not(a Value) (Value, error) {
	ab, ok := a.(Bool)
	if !ok {
		return nil, typeErr("NOT", a)
	}
	return Bool(!bool(ab)), nil
}
