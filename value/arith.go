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
	"math"

	"github.com/pkg/errors"
)

// TypeError is returned whenever an operation receives operands its
// contract does not accept. See spec §7 TypeError(op, operands).
type TypeError struct {
	Op       string
	Operands []Value
}

func (e *TypeError) Error() string {
	msg := "type error in " + e.Op + ": "
	for i, o := range e.Operands {
		if i > 0 {
			msg += ", "
		}
		msg += o.Kind().String()
	}
	return msg
}

func typeErr(op string, operands ...Value) error {
	return &TypeError{Op: op, Operands: operands}
}

var ErrDivisionByZero = errors.New("division by zero")
var ErrNumericOverflow = errors.New("numeric overflow")
var ErrNaNOrInfinity = errors.New("NaN or infinity")

func asFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		return float64(t), true
	case Float:
		return float64(t), true
	default:
		return 0, false
	}
}

func bothInt(a, b Value) (Int, Int, bool) {
	ai, aok := a.(Int)
	bi, bok := b.(Int)
	return ai, bi, aok && bok
}

// Add implements ADD: integer if both operands are integer, else float.
func Add(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		sum := int64(ai) + int64(bi)
		if (int64(bi) > 0 && sum < int64(ai)) || (int64(bi) < 0 && sum > int64(ai)) {
			return nil, ErrNumericOverflow
		}
		return Int(sum), nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, typeErr("ADD", a, b)
	}
	return checkFloat(af + bf)
}

// Subtract implements SUBTRACT.
func Subtract(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		return Int(int64(ai) - int64(bi)), nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, typeErr("SUBTRACT", a, b)
	}
	return checkFloat(af - bf)
}

// Multiply implements MULTIPLY.
func Multiply(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		return Int(int64(ai) * int64(bi)), nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, typeErr("MULTIPLY", a, b)
	}
	return checkFloat(af * bf)
}

// Divide implements DIVIDE. Division by zero is always an error, even for
// integer operands that would otherwise promote to a clean float.
func Divide(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		if bi == 0 {
			return nil, ErrDivisionByZero
		}
		if int64(ai)%int64(bi) == 0 {
			return Int(int64(ai) / int64(bi)), nil
		}
		return checkFloat(float64(ai) / float64(bi))
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, typeErr("DIVIDE", a, b)
	}
	if bf == 0 {
		return nil, ErrDivisionByZero
	}
	return checkFloat(af / bf)
}

func checkFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrNaNOrInfinity
	}
	return Float(f), nil
}

// Min returns the smallest of a non-empty list of numeric values.
func Min(vs []Value) (Value, error) {
	return minMax(vs, "MIN", func(a, b float64) bool { return a < b })
}

// Max returns the largest of a non-empty list of numeric values.
func Max(vs []Value) (Value, error) {
	return minMax(vs, "MAX", func(a, b float64) bool { return a > b })
}

func minMax(vs []Value, op string, better func(a, b float64) bool) (Value, error) {
	if len(vs) == 0 {
		return nil, errors.Errorf("%s: empty list", op)
	}
	best := vs[0]
	bestF, ok := asFloat(best)
	if !ok {
		return nil, typeErr(op, best)
	}
	allInt := best.Kind() == KindInt
	for _, v := range vs[1:] {
		f, ok := asFloat(v)
		if !ok {
			return nil, typeErr(op, v)
		}
		if v.Kind() != KindInt {
			allInt = false
		}
		if better(f, bestF) {
			best, bestF = v, f
		}
	}
	if allInt {
		return best, nil
	}
	return Float(bestF), nil
}

// Equals implements structural equality, honouring Int(n) == Float(n.0) and
// Null == Null.
func Equals(a, b Value) bool {
	if IsNull(a) && IsNull(b) {
		return true
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case Date:
		bv, ok := b.(Date)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equals(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !Equals(v, bvv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two values; numeric, Date and string comparisons are
// supported.
// Mixed incompatible types return a TypeError.
func Compare(op string, a, b Value) (int, error) {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			default:
				return 0, nil
			}
		}
		return 0, typeErr(op, a, b)
	}
	if ad, aok := a.(Date); aok {
		if bd, bok := b.(Date); bok {
			return compareDate(ad, bd), nil
		}
		return 0, typeErr(op, a, b)
	}
	if as, aok := a.(Str); aok {
		if bs, bok := b.(Str); bok {
			switch {
			case as < bs:
				return -1, nil
			case as > bs:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, typeErr(op, a, b)
}

func compareDate(a, b Date) int {
	switch {
	case a.Year != b.Year:
		return cmpInt(a.Year, b.Year)
	case a.Month != b.Month:
		return cmpInt(a.Month, b.Month)
	default:
		return cmpInt(a.Day, b.Day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// In reports whether needle is structurally equal to a member of haystack.
func In(needle Value, haystack []Value) bool {
	for _, v := range haystack {
		if Equals(needle, v) {
			return true
		}
	}
	return false
}
