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

// Package typespec enforces per-output unit, precision and bound metadata
// on action results, the engine's only post-evaluation normalisation step.
package typespec

import (
	"math"

	"github.com/pkg/errors"

	"github.com/minbzk/regelrecht/value"
)

// Unit names a TypeSpec's value unit. Only Eurocent changes representation
// (float to rounded integer); the others are descriptive.
type Unit string

const (
	UnitNone     Unit = ""
	UnitEurocent Unit = "eurocent"
	UnitDays     Unit = "days"
	UnitYears    Unit = "years"
)

// Spec mirrors the TypeSpec data model: { value_type, unit?, precision?,
// min?, max? }.
type Spec struct {
	ValueType value.Kind
	Unit      Unit
	Precision *int
	Min       *float64
	Max       *float64
}

// Violation is returned when a value falls outside Min/Max and Enforce is
// called with Reject rather than Clamp.
type Violation struct {
	Value    float64
	Min, Max *float64
}

func (v *Violation) Error() string {
	return errors.Errorf("value %v out of bounds [%v, %v]", v.Value, v.Min, v.Max).Error()
}

// BoundsMode controls out-of-bounds handling: clamp to the nearest bound, or
// return a Violation error.
type BoundsMode int

const (
	Clamp BoundsMode = iota
	Reject
)

// Enforce applies TypeSpec normalisation to v: eurocent rounding to an
// integer, min/max bound handling, and NaN/Infinity rejection. It is the
// only place a float is ever converted to an Int based on unit alone.
func Enforce(s Spec, v value.Value, mode BoundsMode) (value.Value, error) {
	f, isNumeric := asFloat(v)
	if !isNumeric {
		return v, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New("NaN or infinity at type-spec boundary")
	}

	if s.Min != nil && f < *s.Min {
		if mode == Reject {
			return nil, &Violation{Value: f, Min: s.Min, Max: s.Max}
		}
		f = *s.Min
	}
	if s.Max != nil && f > *s.Max {
		if mode == Reject {
			return nil, &Violation{Value: f, Min: s.Min, Max: s.Max}
		}
		f = *s.Max
	}

	if s.Precision != nil {
		mul := math.Pow(10, float64(*s.Precision))
		f = math.Round(f*mul) / mul
	}

	if s.Unit == UnitEurocent {
		return value.Int(int64(math.Round(f))), nil
	}

	if _, wasInt := v.(value.Int); wasInt && f == math.Trunc(f) {
		return value.Int(int64(f)), nil
	}
	return value.Float(f), nil
}

func asFloat(v value.Value) (float64, bool) {
	switch t := v.(type) {
	case value.Int:
		return float64(t), true
	case value.Float:
		return float64(t), true
	default:
		return 0, false
	}
}
